// Handler for miscellaneous endpoints such as health check

package handler

import (
	"net/http"
	"time"

	"github.com/yumyai/bgcclass/pkg/handler/types"
	"github.com/yumyai/bgcclass/pkg/render"
)

type HealthResponse struct {
	Health    string    `json:"health"`
	Timestamp time.Time `json:"timestamp"`
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {

	response := HealthResponse{
		Health:    "ok",
		Timestamp: time.Now(),
	}

	render.WriteJSON(w, http.StatusOK, response)
}

// BackendsHandler lists the loaded classifiers and the class names.
func (app *AppContext) BackendsHandler(w http.ResponseWriter, r *http.Request) {
	response := types.BackendsResponse{Classes: app.Classes}
	for _, b := range app.Analysis.Backends() {
		response.Backends = append(response.Backends, types.BackendInfo{
			Name:     b.String(),
			Route:    "/" + b.String(),
			Features: app.Analysis.NumFeatures(),
			Classes:  app.Analysis.NumClasses(),
		})
	}
	render.WriteJSON(w, http.StatusOK, response)
}
