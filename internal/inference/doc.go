// Package inference owns the request lifecycle of the gateway: loading the
// model once, opening a generation session per request, collecting tokens
// under a bound, and classifying failures.
//
//   - backend.go: Backend/Model/Session interfaces implemented by runtimes.
//   - loader.go: the memoized Model Handle (load at most once, retry on failure).
//   - collector.go: the Token Stream Collector driving a Session.
//   - coordinator.go: Coordinator.Infer, the single entry point used by callers.
//   - admission.go: bounded queue in front of the model.
//   - errors.go: ModelLoadError, GenerationError, TooBusyError and helpers.
//   - cache.go, events.go, metrics.go, status.go: supporting concerns.
//
// Runtimes live in sibling packages (see internal/llama); tests use fakes.
package inference
