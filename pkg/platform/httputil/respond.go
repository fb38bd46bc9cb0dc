// Package httputil holds the JSON response conventions shared by every
// handler package.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "finbook/pkg/domain-errors"
)

// ErrorItem is one machine-readable violation in an error response.
type ErrorItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Errors []ErrorItem `json:"errors"`
}

// WriteJSON serializes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteValidation reports business-rule violations. The whole set comes
// back in one response so clients can surface every problem at once.
func WriteValidation(w http.ResponseWriter, items []ErrorItem) {
	WriteJSON(w, http.StatusUnprocessableEntity, errorBody{Errors: items})
}

// WriteError maps a domain error to an HTTP status. Unrecognized errors
// are logged and reported as opaque 500s.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error) {
	code := dErrors.CodeOf(err)
	status, known := statusFor(code)
	if !known {
		if logger != nil {
			logger.Error("unhandled error", "error", err)
		}
		WriteJSON(w, http.StatusInternalServerError, errorBody{Errors: []ErrorItem{
			{Code: string(dErrors.CodeInternal), Message: "internal error"},
		}})
		return
	}
	WriteJSON(w, status, errorBody{Errors: []ErrorItem{
		{Code: string(code), Message: dErrors.MessageOf(err)},
	}})
}

func statusFor(code dErrors.Code) (int, bool) {
	switch code {
	case dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		return http.StatusBadRequest, true
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized, true
	case dErrors.CodeForbidden:
		return http.StatusForbidden, true
	case dErrors.CodeNotFound:
		return http.StatusNotFound, true
	case dErrors.CodeConflict:
		return http.StatusConflict, true
	case dErrors.CodeInvariantViolation:
		return http.StatusUnprocessableEntity, true
	default:
		return 0, false
	}
}
