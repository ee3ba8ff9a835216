package httpapi

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultMaxBodyBytes bounds JSON request bodies when Options leaves it unset.
const DefaultMaxBodyBytes int64 = 1 << 20

// Options configure the HTTP front end.
type Options struct {
	// Log receives request start/end lines.
	Log zerolog.Logger
	// RequestLogLevel is the default per-request log level (off, error,
	// info, debug). Requests may override it with ?log= or X-Log-Level.
	RequestLogLevel string
	// BaseContext is canceled on shutdown; in-flight inference observes it.
	BaseContext context.Context
	// InferTimeout bounds a single chat request. Zero disables.
	InferTimeout time.Duration
	// MaxBodyBytes bounds POST /chat bodies.
	MaxBodyBytes int64
	// CORSOrigins enables CORS for the listed origins. Empty disables CORS.
	CORSOrigins []string
	// Swagger mounts the Swagger UI under /swagger/.
	Swagger bool
}

func (o Options) withDefaults() Options {
	if o.BaseContext == nil {
		o.BaseContext = context.Background()
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.InferTimeout < 0 {
		o.InferTimeout = 0
	}
	if o.RequestLogLevel == "" {
		o.RequestLogLevel = "info"
	}
	return o
}
