// Package llama adapts github.com/go-skynet/go-llama.cpp to the
// inference.Backend interface.
//
// The real backend is compiled only with the 'llama' build tag, which needs
// CGO and libllama at link time. Default builds get a stub whose Load fails
// with a clear error, keeping the rest of the binary CGO-free.
package llama

// Options configure model loading and prediction.
type Options struct {
	// ContextSize is the llama.cpp context window in tokens.
	ContextSize int
	// GPULayers offloads that many layers when the library was built with GPU support.
	GPULayers int
	// Threads is the default prediction thread count when a session does not set one.
	Threads int
}

const (
	defaultContextSize = 512
	defaultThreads     = 4
)

func (o Options) withDefaults() Options {
	if o.ContextSize <= 0 {
		o.ContextSize = defaultContextSize
	}
	if o.Threads <= 0 {
		o.Threads = defaultThreads
	}
	if o.GPULayers < 0 {
		o.GPULayers = 0
	}
	return o
}
