// Package httputil provides the response envelope and small helpers shared by
// the gateway handlers and middleware.
package httputil

import (
	"encoding/json"
	"net/http"
)

type ContextKey string

const (
	RequestIDCtxKey ContextKey = "RequestID"
	LogEntryCtxKey  ContextKey = "LogEntry"
)

// Envelope is the uniform JSON response shape. Success responses carry Data
// and optionally Meta; failure responses carry Error and nothing else.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

// Respond writes a success envelope with the given status code. A non-nil
// empty Data slice serializes as [], which callers rely on for empty listings.
func Respond(w http.ResponseWriter, statusCode int, data any, meta any) {
	writeJSON(w, statusCode, Envelope{Success: true, Data: data, Meta: meta})
}

// Fail writes a failure envelope with the given status code and message.
func Fail(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, Envelope{Success: false, Error: message})
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// HTML writes an HTML response with the given status code and content.
func HTML(w http.ResponseWriter, statusCode int, html string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(html)); err != nil {
		http.Error(w, "Failed to write response", http.StatusInternalServerError)
	}
}
