package server

import (
	"encoding/json"
	"net/http"
)

// respond writes data as a JSON response with the given status code.
// Timestamps render as ISO-8601 through the standard time.Time encoding.
func respond(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

// fail writes the uniform error body {"error": message}. Every failure path
// of the API goes through here; no endpoint leaves the client hanging.
func fail(w http.ResponseWriter, code int, message string) {
	respond(w, code, map[string]string{"error": message})
}
