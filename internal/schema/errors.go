package schema

import (
	"errors"
	"net/http"
	"strings"
)

// Violation codes reported in FieldError.Code.
const (
	CodeInvalidJSON = "invalid_json"
	CodeMissing     = "missing"
	CodeWrongType   = "wrong_type"
	CodeOutOfRange  = "out_of_range"
	CodeUnknown     = "unknown"
)

// FieldError describes one violated field. Field is empty for errors about
// the payload as a whole.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError lists every violation found in a payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// StatusCode maps validation failures to 400.
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// Has reports whether field was flagged with code.
func (e *ValidationError) Has(field, code string) bool {
	for _, f := range e.Fields {
		if f.Field == field && f.Code == code {
			return true
		}
	}
	return false
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
