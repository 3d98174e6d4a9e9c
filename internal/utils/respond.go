package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// Envelope is the JSON shape every API handler responds with.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Stable error codes surfaced to the browser pages.
const (
	CodeValidation         = "validation_error"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeInvalidRange       = "invalid_range"
	CodeNoData             = "no_data"
	CodeInvalidSignature   = "invalid_signature"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUpstream           = "upstream_error"
	CodeStorage            = "storage_error"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[respond] encode failed: %v", err)
	}
}

func Success(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func Fail(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, Envelope{Success: false, Error: msg, Code: code})
}

// StorageError logs the real failure server-side and returns an opaque
// message to the caller.
func StorageError(w http.ResponseWriter, op string, err error) {
	log.Printf("[storage] %s: %v", op, err)
	Fail(w, http.StatusInternalServerError, CodeStorage, "Database error")
}
