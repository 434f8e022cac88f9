package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/auth-platform/user-service/internal/observability"
	"github.com/auth-platform/user-service/internal/user"
)

// ErrorResponse represents a JSON error response. Client errors carry a
// descriptive message; server errors carry a generic one, with full detail
// in the log stream keyed by the trace id.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// WriteError writes a standardized error response for a service error.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	traceID := observability.GetCorrelationID(r.Context())

	var userErr *user.Error
	if errors.As(err, &userErr) {
		message := userErr.Message
		status := userErr.ToHTTPStatus()
		if status >= http.StatusInternalServerError {
			// Internal detail stays in the logs.
			message = "An internal error occurred"
		}
		writeJSONError(w, status, ErrorResponse{
			Error:   userErr.Code.String(),
			Code:    userErr.Code.String(),
			Message: message,
			TraceID: traceID,
		})
		return
	}

	writeJSONError(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
		TraceID: traceID,
	})
}

// WriteErrorWithStatus writes an error response with a specific status code.
func WriteErrorWithStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := observability.GetCorrelationID(r.Context())
	writeJSONError(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		TraceID: traceID,
	})
}

// WriteBadRequest writes a 400 Bad Request error response.
func WriteBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	WriteErrorWithStatus(w, r, http.StatusBadRequest, message)
}

// WriteNotFound writes a 404 Not Found error response.
func WriteNotFound(w http.ResponseWriter, r *http.Request, message string) {
	WriteErrorWithStatus(w, r, http.StatusNotFound, message)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, r *http.Request, message string) {
	WriteErrorWithStatus(w, r, http.StatusInternalServerError, message)
}

func writeJSONError(w http.ResponseWriter, status int, response ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response) // Error intentionally ignored - response already committed
}
