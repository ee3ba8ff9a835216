//go:build !llama

package llama

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"llmchat/internal/inference"
)

// Built reports whether this binary carries the real llama.cpp runtime.
const Built = false

// ErrNotBuilt is returned by Load in builds without the 'llama' tag.
var ErrNotBuilt = errors.New("llama support not built (missing 'llama' build tag)")

// Backend is a stub that refuses to load models. It exists so default builds
// compile and fail at load time with a clear error instead of faking output.
type Backend struct {
	opts Options
	log  zerolog.Logger
}

// NewBackend returns the stub Backend.
func NewBackend(opts Options, log zerolog.Logger) *Backend {
	return &Backend{opts: opts.withDefaults(), log: log}
}

// Load always fails with ErrNotBuilt.
func (b *Backend) Load(path string, arch inference.Architecture) (inference.Model, error) {
	b.log.Warn().Str("path", path).Msg("llama backend unavailable in this build")
	return nil, errors.WithStack(ErrNotBuilt)
}
