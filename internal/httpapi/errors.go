package httpapi

import (
	"encoding/json"
	"net/http"

	"energyd/internal/schema"
	"energyd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: status})
}

// writeValidationError writes the field-level 400 body.
func writeValidationError(w http.ResponseWriter, ve *schema.ValidationError) {
	fields := make([]types.FieldError, len(ve.Fields))
	for i, f := range ve.Fields {
		fields[i] = types.FieldError{Field: f.Field, Code: f.Code, Message: f.Message}
	}
	status := ve.StatusCode()
	writeJSON(w, status, types.ValidationErrorResponse{Error: "validation failed", Code: status, Fields: fields})
}
