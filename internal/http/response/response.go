// Package response provides standardized HTTP response formatting for the Atlas API.
//
// Every reply carries permissive CORS headers because the chat widget
// is served from arbitrary origins; bodies are written verbatim rather
// than wrapped, since the envelope shape is part of the wire contract.
package response

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"

	"github.com/bookatlas/atlas-server/internal/errors"
)

func setHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
}

// JSON writes a JSON response with the given status code using json/v2.
// The body is marshaled as-is.
func JSON(w http.ResponseWriter, status int, body any, logger *slog.Logger) {
	setHeaders(w)
	w.WriteHeader(status)

	// json/v2 MarshalWrite doesn't add a newline, but that's fine for HTTP responses.
	if err := json.MarshalWrite(w, body); err != nil {
		if logger != nil {
			logger.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// Success writes a successful JSON response (200 OK).
func Success(w http.ResponseWriter, body any, logger *slog.Logger) {
	JSON(w, http.StatusOK, body, logger)
}

// NoContent writes a no content response (204 No Content), still with
// CORS headers so it can answer preflight requests.
func NoContent(w http.ResponseWriter) {
	setHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

// errorBody is the machine-readable error shape: the frontend switches
// on the error code verbatim.
type errorBody struct {
	Error string         `json:"error"`
	Build string         `json:"build,omitempty"`
	Debug map[string]any `json:"debug,omitempty"`
}

// Error writes an error response with the given status and code.
func Error(w http.ResponseWriter, status int, code, build string, debug map[string]any, logger *slog.Logger) {
	JSON(w, status, errorBody{Error: code, Build: build, Debug: debug}, logger)
}

// DomainError writes the response for a typed domain error, using its
// code and mapped HTTP status.
func DomainError(w http.ResponseWriter, err *errors.Error, build string, debug map[string]any, logger *slog.Logger) {
	Error(w, err.HTTPStatus(), string(err.Code), build, debug, logger)
}

// MethodNotAllowed writes a 405 with the stable error code.
func MethodNotAllowed(w http.ResponseWriter, logger *slog.Logger) {
	Error(w, http.StatusMethodNotAllowed, string(errors.CodeMethodNotAllowed), "", nil, logger)
}

// RateLimited writes a 429 with the stable error code.
func RateLimited(w http.ResponseWriter, logger *slog.Logger) {
	Error(w, http.StatusTooManyRequests, string(errors.CodeRateLimited), "", nil, logger)
}
