package types

import (
	"time"

	"github.com/yumyai/bgcclass/pkg/model"
)

// ClassifyResponse keeps the field names of the original service: key, bio_cluster,
// bgc_class and prob. The remaining fields are additions.
type ClassifyResponse struct {
	Key        string        `json:"key"`
	BioCluster model.Cluster `json:"bio_cluster"`
	BGCClass   int           `json:"bgc_class"`
	Prob       []float64     `json:"prob"`
	ClassName  string        `json:"class_name"`
	Classes    []string      `json:"classes"`
	Backend    string        `json:"backend"`
	FileName   string        `json:"file_name"`
	CreatedAt  time.Time     `json:"created_at"`
}

// ErrorResponse is returned for every failed request; it never carries prediction fields.
type ErrorResponse struct {
	Status    string `json:"status"`
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id,omitempty"`
}

type BackendInfo struct {
	Name     string `json:"name"`
	Route    string `json:"route"`
	Features int    `json:"features"`
	Classes  int    `json:"classes"`
}

type BackendsResponse struct {
	Backends []BackendInfo `json:"backends"`
	Classes  []string      `json:"classes"`
}
