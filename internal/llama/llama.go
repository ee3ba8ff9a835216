//go:build llama

package llama

import (
	"context"
	"io"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"llmchat/internal/inference"
)

// Built reports whether this binary carries the real llama.cpp runtime.
const Built = true

// Backend loads weights with go-llama.cpp.
type Backend struct {
	opts Options
	log  zerolog.Logger
}

// NewBackend returns a Backend using opts for every load.
func NewBackend(opts Options, log zerolog.Logger) *Backend {
	return &Backend{opts: opts.withDefaults(), log: log}
}

// Load implements inference.Backend.
func (b *Backend) Load(path string, arch inference.Architecture) (inference.Model, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("model path is empty")
	}
	if arch != inference.ArchLlama {
		return nil, errors.Errorf("architecture %q not supported by llama.cpp backend", arch)
	}
	mo := []llama.ModelOption{
		llama.SetContext(b.opts.ContextSize),
	}
	if b.opts.GPULayers > 0 {
		mo = append(mo, llama.SetGPULayers(b.opts.GPULayers))
	}
	m, err := llama.New(path, mo...)
	if err != nil {
		return nil, errors.Wrap(err, "llama.New")
	}
	b.log.Debug().Str("path", path).Int("ctx", b.opts.ContextSize).Int("gpu_layers", b.opts.GPULayers).Msg("llama context created")
	return &model{llm: m, threads: b.opts.Threads, sem: make(chan struct{}, 1)}, nil
}

// model owns one llama.cpp context. Predict is not reentrant on a context,
// so sessions take sem for the whole generation.
type model struct {
	llm     *llama.LLama
	threads int
	sem     chan struct{}
}

func (m *model) NewSession(p inference.SamplingParams) inference.Session {
	return &session{m: m, params: p, stop: make(chan struct{})}
}

func (m *model) Close() error {
	m.sem <- struct{}{}
	defer func() { <-m.sem }()
	if m.llm != nil {
		m.llm.Free()
		m.llm = nil
	}
	return nil
}

// session bridges the callback-driven Predict call into pull-style Next
// calls: Predict runs on its own goroutine and hands each token over an
// unbuffered channel, so generation advances only as fast as Next is called.
type session struct {
	m      *model
	params inference.SamplingParams

	tokens   chan string
	finished chan struct{}
	err      error

	stop     chan struct{}
	stopOnce sync.Once
}

// Feed starts prediction. llama.cpp evaluates the prompt inside Predict, so
// the whole prompt is played back as a single fragment.
func (s *session) Feed(ctx context.Context, prompt string) ([]inference.Token, error) {
	if s.tokens != nil {
		return nil, errors.New("session already fed")
	}
	select {
	case s.m.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if s.m.llm == nil {
		<-s.m.sem
		return nil, errors.New("llama model not initialized")
	}

	s.tokens = make(chan string)
	s.finished = make(chan struct{})
	opts := predictOptions(s.params, s.m.threads)
	go func() {
		defer func() { <-s.m.sem }()
		defer close(s.finished)
		defer close(s.tokens)
		s.m.llm.SetTokenCallback(func(tok string) bool {
			select {
			case s.tokens <- tok:
				return true
			case <-s.stop:
				return false
			}
		})
		if _, err := s.m.llm.Predict(prompt, opts...); err != nil {
			s.err = errors.Wrap(err, "llama predict")
		}
	}()
	return []inference.Token{{Text: prompt, Kind: inference.TokenPrompt}}, nil
}

func (s *session) Next(ctx context.Context) (inference.Token, error) {
	if s.tokens == nil {
		return inference.Token{}, errors.New("session not fed")
	}
	select {
	case tok, ok := <-s.tokens:
		if !ok {
			// close(tokens) happens after s.err is set.
			if s.err != nil {
				return inference.Token{}, s.err
			}
			return inference.Token{}, io.EOF
		}
		return inference.Token{Text: tok, Kind: inference.TokenInferred}, nil
	case <-ctx.Done():
		return inference.Token{}, ctx.Err()
	}
}

// Close stops a running prediction and waits for it to return.
func (s *session) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	if s.finished != nil {
		<-s.finished
	}
	return nil
}

// predictOptions converts sampling params into go-llama.cpp options. Zero
// values fall back to the library defaults.
func predictOptions(p inference.SamplingParams, threads int) []llama.PredictOption {
	if p.Threads > 0 {
		threads = p.Threads
	}
	po := []llama.PredictOption{
		llama.SetTokens(p.MaxTokens), // 0 lets llama.cpp run to end of sequence
		llama.SetThreads(max(1, threads)),
		llama.SetTopP(zf(p.TopP, llama.DefaultOptions.TopP)),
		llama.SetTopK(zn(p.TopK, llama.DefaultOptions.TopK)),
		llama.SetTemperature(zf(p.Temperature, llama.DefaultOptions.Temperature)),
		llama.SetPenalty(zf(p.RepeatPenalty, llama.DefaultOptions.Penalty)),
	}
	if p.Seed != 0 {
		po = append(po, llama.SetSeed(p.Seed))
	}
	return po
}

func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func zf(v, def float32) float32 {
	if v > 0 {
		return v
	}
	return def
}
