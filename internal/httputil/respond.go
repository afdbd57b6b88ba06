// Package httputil provides shared HTTP response helpers.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/kierros-labs/lottery-service/internal/logging"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	TraceID string                 `json:"trace_id,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// WriteErrorResponse writes a structured error body, carrying the request's
// trace ID so clients can correlate failures with server logs.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}) {
	WriteJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
		Details: details,
		TraceID: logging.GetTraceID(r.Context()),
	})
}

// Unauthorized writes a 401 response with an optional message.
func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
		Error:   "UNAUTHORIZED",
		Message: message,
	})
}
