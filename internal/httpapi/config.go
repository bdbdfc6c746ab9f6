package httpapi

import (
	"sync/atomic"

	"energyd/internal/schema"
)

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
// Default is 1 MiB.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// predictTimeout bounds a /predict request after validation, in seconds.
// Zero means no additional timeout beyond server/connection timeouts.
var predictTimeout = int64(10)

// SetPredictTimeoutSeconds sets the predict timeout in seconds (0 disables).
func SetPredictTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	predictTimeout = sec
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server. Empty lists
// fall back to the middleware defaults.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}

var payloadValidator atomic.Pointer[schema.Validator]

func init() {
	payloadValidator.Store(schema.MustNew(schema.Options{}))
}

// SetRejectUnknownFields switches /predict between ignoring and rejecting
// properties outside the payload schema.
func SetRejectUnknownFields(reject bool) {
	payloadValidator.Store(schema.MustNew(schema.Options{RejectUnknown: reject}))
}

func currentValidator() *schema.Validator { return payloadValidator.Load() }
