package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jbweber/homelab/customercare/internal/apperror"
	"github.com/jbweber/homelab/customercare/internal/dto"
)

// DebugHeader enables error detail on internal errors when set to true, 1 or on
const DebugHeader = "x-debug"

// statusFor maps an error kind to its HTTP status
func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation, apperror.KindInvalidArgument, apperror.KindDeviceLimitReached:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func debugEnabled(r *http.Request) bool {
	switch strings.ToLower(strings.TrimSpace(r.Header.Get(DebugHeader))) {
	case "true", "1", "on":
		return true
	}
	return false
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// responder renders failures in the uniform error shape
type responder struct {
	log *zap.Logger
}

func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	requestID := zap.String("request_id", middleware.GetReqID(r.Context()))

	var bodyErr *bodyError
	if errors.As(err, &bodyErr) {
		rs.log.Debug("could not parse request body", zap.Error(err), requestID)
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Summary:     "Validation failed",
			Description: bodyErr.Error(),
		})
		return
	}

	t := apperror.Translate(err, debugEnabled(r))
	if t.Kind == apperror.KindUnhandled {
		rs.log.Error("unhandled error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			requestID)
	} else {
		rs.log.Debug(t.Body.Summary, zap.Error(err), requestID)
	}
	writeJSON(w, statusFor(t.Kind), t.Body)
}
