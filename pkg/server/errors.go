package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	dlerrors "github.com/matzehuels/datalabels/pkg/errors"
	"github.com/matzehuels/datalabels/pkg/observability"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     ErrorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

// ErrorBody describes one error.
type ErrorBody struct {
	Code    dlerrors.Code `json:"code"`
	Message string        `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code dlerrors.Code) int {
	switch code {
	case dlerrors.ErrCodeInvalidInput, dlerrors.ErrCodeInvalidScene, dlerrors.ErrCodeInvalidFormat,
		dlerrors.ErrCodeInvalidPosition, dlerrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case dlerrors.ErrCodeNotFound, dlerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case dlerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case dlerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case dlerrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with err. Errors without a code are internal: they are
// logged and reported to the hooks, and the client sees a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := dlerrors.GetCode(err)
	msg := dlerrors.UserMessage(err)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code, msg = dlerrors.ErrCodeTimeout, "request timed out"
	case code == "" || code == dlerrors.ErrCodeInternal:
		code, msg = dlerrors.ErrCodeInternal, "internal error"
		s.logger.Error("request failed", "id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
	}
	if statusFor(code) >= 500 {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	}
	writeJSON(w, statusFor(code), ErrorResponse{
		Error:     ErrorBody{Code: code, Message: msg},
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
