package handler

import (
	"net/http"

	"github.com/yumyai/bgcclass/pkg/classifier"
	"github.com/yumyai/bgcclass/pkg/render"
)

func NewRouter(app *AppContext) *http.ServeMux {
	mux := http.NewServeMux()

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	// Original per-model routes
	for _, b := range classifier.AllBackends {
		mux.HandleFunc("POST /"+b.String(), app.ClassifyHandler(b))
	}

	// API routes
	mux.HandleFunc("POST /api/v1/classify/{backend}", app.ClassifyByNameHandler)
	mux.HandleFunc("GET /api/v1/backends", app.BackendsHandler)
	mux.HandleFunc("GET /api/v1/health", HealthCheck)
	mux.HandleFunc("GET /api/v1/results/{key}", app.ResultAPI)

	// Pages
	mux.HandleFunc("GET /results/{key}", app.ResultPage)

	// Everything else is a JSON 404
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		render.WriteJSON(w, http.StatusNotFound, map[string]string{"status": "error", "error": "not found", "kind": "not_found"})
	})

	return mux
}
