package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/seekerror/logw"

	"github.com/kestrelgames/boardhouse/internal/apperr"
)

// statusFor maps the apperr taxonomy to an HTTP status code (spec §7 propagation policy).
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Unauthorized, apperr.NotYourTurn:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.GameOver, apperr.IllegalMoveCode, apperr.BadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

// writeError renders err as a JSON error body with the status its taxonomy code maps to.
// Internal failures are logged server-side but never leak their message to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.CodeOf(err)
	status := statusFor(code)

	body := errorBody{Code: string(code), Message: err.Error()}
	if status == http.StatusInternalServerError {
		logw.Errorf(r.Context(), "httpapi: internal error on %s %s: %v", r.Method, r.URL.Path, err)
		body.Message = "internal error"
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body.Reason = appErr.Reason
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
