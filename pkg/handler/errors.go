package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/yumyai/bgcclass/logger"
	"github.com/yumyai/bgcclass/pkg/errs"
	"github.com/yumyai/bgcclass/pkg/handler/request"
	"github.com/yumyai/bgcclass/pkg/handler/types"
	"github.com/yumyai/bgcclass/pkg/middle"
	"github.com/yumyai/bgcclass/pkg/render"
)

// statusFor maps the error taxonomy onto HTTP statuses.
func statusFor(err error) (int, string) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, request.ErrBadUpload):
		return http.StatusBadRequest, "bad_request"
	}

	kind := errs.Kind(err)
	switch kind {
	case "unsupported_extension":
		return http.StatusUnsupportedMediaType, kind
	case "parse_error":
		return http.StatusBadRequest, kind
	case "empty_cluster", "embedding_error":
		return http.StatusUnprocessableEntity, kind
	case "unknown_backend":
		return http.StatusNotFound, kind
	case "backend_failure":
		return http.StatusBadGateway, kind
	default:
		return http.StatusInternalServerError, kind
	}
}

// writeError sends the JSON error body. Server side failures are logged at error level,
// client mistakes at info.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFor(err)
	reqID := middle.RequestID(r.Context())

	// The request logger already carries request_id.
	log := middle.Logger(r.Context(), logger.L())
	fields := []zap.Field{
		zap.String("kind", kind),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", fields...)
	} else {
		log.Info("Request rejected", fields...)
	}

	render.WriteJSON(w, status, types.ErrorResponse{
		Status:    "error",
		Error:     err.Error(),
		Kind:      kind,
		RequestID: reqID,
	})
}
