// Package httpx provides the JSON envelope shared by every API response.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/inkwell-blog/inkwell/internal/shared"
)

// Envelope is the wire format consumed by the frontend:
// {"success": true, "data": {...}, "error": null, "meta": {...}}.
type Envelope struct {
	Success bool               `json:"success"`
	Data    any                `json:"data"`
	Error   *ErrorBody         `json:"error,omitempty"`
	Meta    *shared.Pagination `json:"meta,omitempty"`
}

// ErrorBody carries a machine-readable code and a human message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSON sends a raw JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Success sends a 200 envelope wrapping data.
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created sends a 201 envelope wrapping data.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated sends a 200 envelope with pagination metadata.
func Paginated(w http.ResponseWriter, data any, meta shared.Pagination) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data, Meta: &meta})
}

// Fail sends an error envelope with the given status.
func Fail(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, Envelope{Success: false, Error: &ErrorBody{Code: code, Message: message}})
}

// DecodeJSON decodes the JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
