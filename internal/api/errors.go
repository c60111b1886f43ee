package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/studyforge/studyforge/internal/llm"
	"github.com/studyforge/studyforge/internal/store"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// errUnauthorized marks a request that carried no valid identity.
var errUnauthorized = errors.New("unauthorized")

// statusByCode maps each domain error code to exactly one HTTP status.
var statusByCode = map[llm.Code]int{
	llm.CodeInvalidKey:          http.StatusUnauthorized,
	llm.CodeModelNotSupported:   http.StatusBadRequest,
	llm.CodeProviderUnavailable: http.StatusServiceUnavailable,
	llm.CodeRateLimit:           http.StatusTooManyRequests,
	llm.CodeNotConfigured:       http.StatusBadRequest,
	llm.CodeInvalidProvider:     http.StatusBadRequest,
	llm.CodeValidation:          http.StatusBadRequest,
}

// translate maps an error to an HTTP status, a stable code, and a
// safe-to-display message. Unclassified errors degrade to a generic 500;
// raw internals never reach the client.
func translate(err error) (status int, code, msg string) {
	if derr, ok := llm.AsDomain(err); ok {
		status, ok := statusByCode[derr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		return status, string(derr.Code), derr.Message
	}
	if errors.Is(err, errUnauthorized) {
		return http.StatusUnauthorized, "unauthorized", "unauthorized"
	}
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound, "not_found", "not found"
	}
	return http.StatusInternalServerError, "internal_error", "an unexpected error occurred"
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: message, Code: code})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
