// internal/app/system/httpjson/httpjson.go

// Package httpjson holds the JSON response helpers shared by the API
// feature handlers.
package httpjson

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Write encodes v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are gone; nothing useful left to do but log.
		zap.L().Warn("json encode failed", zap.Error(err))
	}
}

// Error writes a JSON error body: {"error": "..."}.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]string{"error": msg})
}

// Decode parses the request body into v, limited to 1 MiB.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
