package inference

import "context"

// Backend loads model weights into memory. Concrete runtimes (llama.cpp)
// implement it; Load may take seconds and allocate gigabytes.
type Backend interface {
	Load(path string, arch Architecture) (Model, error)
}

// Model is a loaded, read-only model handle shared by all sessions.
// Implementations must allow NewSession to be called concurrently.
type Model interface {
	// NewSession allocates per-request generation state. It never fails.
	NewSession(params SamplingParams) Session
	// Close releases the weights. Called once at process exit.
	Close() error
}

// Session is per-request generation state. It is used by one goroutine and
// discarded after a single prompt.
type Session interface {
	// Feed tokenizes and evaluates the prompt and returns its tokens as
	// prompt-playback fragments.
	Feed(ctx context.Context, prompt string) ([]Token, error)
	// Next performs one generation step. It returns io.EOF when the model
	// signals end of sequence.
	Next(ctx context.Context) (Token, error)
	// Close releases session resources and stops any pending generation.
	Close() error
}
