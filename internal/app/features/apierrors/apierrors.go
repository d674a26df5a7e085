// Package apierrors renders JSON error responses with a consistent shape
// and logs server-side failures with request context.
//
// Every error response has the form:
//
//	{"error": "message"}
//
// Validation failures additionally carry a per-field map:
//
//	{"error": "validation failed", "fields": {"title": "Title is required."}}
//
// Handlers should never write raw error text from the database or other
// internals to the client. Log the real error, respond with the generic
// message for the status class.
package apierrors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Unauthorized responds 401 for requests with no valid signed-in user.
func Unauthorized(w http.ResponseWriter) {
	WriteJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
}

// Forbidden responds 403 for signed-in users without permission.
func Forbidden(w http.ResponseWriter) {
	WriteJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
}

// NotFound responds 404.
func NotFound(w http.ResponseWriter) {
	WriteJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
}

// BadRequest responds 400 with a caller-supplied message. Use for malformed
// request bodies and bad identifiers, not field validation.
func BadRequest(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

// Validation responds 400 with one message per failed field.
func Validation(w http.ResponseWriter, fields map[string]string) {
	WriteJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Fields: fields})
}

// TooManyRequests responds 429 for rate-limited credential attempts.
func TooManyRequests(w http.ResponseWriter) {
	WriteJSON(w, http.StatusTooManyRequests, errorBody{Error: "too many attempts, try again later"})
}

// Conflict responds 409 with a caller-supplied message.
func Conflict(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusConflict, errorBody{Error: msg})
}

// Internal responds 500 with a generic message. The caller is expected to
// have logged the underlying error already, normally via ErrorLogger.
func Internal(w http.ResponseWriter) {
	WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
}

// ErrorLogger logs server errors with request info before the handler
// responds 500. One instance is shared across handlers via HandlerDeps.
type ErrorLogger struct {
	log *zap.Logger
}

func NewErrorLogger(log *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: log}
}

// LogServerError records an unexpected failure and writes the generic 500
// response. operation names what the handler was doing, e.g. "create article".
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	if e.log != nil {
		e.log.Error("server error",
			zap.String("operation", operation),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	Internal(w)
}
