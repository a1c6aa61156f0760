package handler

import (
	"net/http"

	"github.com/yumyai/bgcclass/pkg/handler/types"
	"github.com/yumyai/bgcclass/pkg/middle"
	"github.com/yumyai/bgcclass/pkg/render"
)

// ResultAPI serves GET /api/v1/results/{key}.
func (app *AppContext) ResultAPI(w http.ResponseWriter, r *http.Request) {
	res, ok := app.Results.Get(r.PathValue("key"))
	if !ok {
		render.WriteJSON(w, http.StatusNotFound, types.ErrorResponse{
			Status:    "error",
			Error:     "result not found or expired",
			Kind:      "not_found",
			RequestID: middle.RequestID(r.Context()),
		})
		return
	}
	render.WriteJSON(w, http.StatusOK, res)
}

// ResultPage serves GET /results/{key} as HTML.
func (app *AppContext) ResultPage(w http.ResponseWriter, r *http.Request) {
	res, ok := app.Results.Get(r.PathValue("key"))
	if !ok {
		http.Error(w, "Result not found or expired", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.RenderResultPage(w, res); err != nil {
		writeError(w, r, err)
	}
}
