// Package httpapi exposes the HTTP surface: routing, middleware and
// handlers.
package httpapi

import (
	"encoding/json"
	"net/http"
)

// Client-facing error codes.
const (
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeMalformedToken      = "MALFORMED_TOKEN"
	CodeUnsupportedToken    = "UNSUPPORTED_TOKEN"
	CodeInvalidServiceToken = "INVALID_SERVICE_TOKEN"
	CodeValidation          = "VALIDATION_ERROR"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeNotFound            = "NOT_FOUND"
	CodeInternal            = "INTERNAL_ERROR"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message})
}
