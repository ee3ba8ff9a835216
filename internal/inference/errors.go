package inference

import (
	"errors"
	"fmt"
	"net/http"
)

// ModelLoadError reports that the weight file was missing, unreadable or
// incompatible, or that the runtime refused it. The handle stays unloaded,
// so a later request retries the load.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// StatusCode maps to 503: the service cannot serve until the model loads.
func (e *ModelLoadError) StatusCode() int { return http.StatusServiceUnavailable }

// GenerationError reports a failure while tokenizing the prompt or stepping
// the model. Partially generated text is discarded.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return "generate: " + e.Err.Error() }

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) StatusCode() int { return http.StatusInternalServerError }

// TooBusyError signals queue timeout/overflow in front of the model.
type TooBusyError struct {
	Reason string
}

func (e *TooBusyError) Error() string { return "too busy: " + e.Reason }

func (e *TooBusyError) StatusCode() int { return http.StatusTooManyRequests }

// IsModelLoad reports whether err is or wraps a ModelLoadError.
func IsModelLoad(err error) bool {
	var e *ModelLoadError
	return errors.As(err, &e)
}

// IsGeneration reports whether err is or wraps a GenerationError.
func IsGeneration(err error) bool {
	var e *GenerationError
	return errors.As(err, &e)
}

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	var e *TooBusyError
	return errors.As(err, &e)
}
