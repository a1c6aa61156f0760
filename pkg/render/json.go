package render

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/yumyai/bgcclass/logger"
)

// WriteJSON sends v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Writing response failed", zap.Error(err))
	}
}
