package handler

// DI for all handlers.

import (
	"github.com/yumyai/bgcclass/pkg/model"
)

// AppContext holds what the handlers share. Everything here is read-only after startup
// except Results, which locks internally.
type AppContext struct {
	Analysis *model.Analysis
	// Classes names the classifier outputs in probability order.
	Classes        []string
	MaxUploadBytes int64
	Results        *ResultStore
}
