package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

// Envelope is the JSON body of every API response.
//
// Failures carry success=false and a message. The field error list is only
// present when the route asked for it. Successes carry success=true and data.
type Envelope struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message,omitempty"`
	Data    any                        `json:"data,omitempty"`
	Meta    map[string]any             `json:"meta,omitempty"`
	Errors  validator.ValidationErrors `json:"errors,omitempty"`
}

// Failure builds a failure envelope.
func Failure(message string) Envelope {
	return Envelope{Success: false, Message: message}
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
