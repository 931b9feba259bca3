package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the body shape of every API response.
type Envelope struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// OK writes a successful envelope.
func OK(w http.ResponseWriter, status int, data any) {
	JSON(w, status, Envelope{OK: true, Data: data})
}

// Fail writes an error envelope.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{OK: false, Error: message})
}
