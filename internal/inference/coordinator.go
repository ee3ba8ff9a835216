package inference

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Config holds Coordinator tunables. Zero values select package defaults,
// except MaxTokens where 0 means unbounded.
type Config struct {
	MaxTokens     int
	EchoPrompt    bool
	Sampling      SamplingParams
	Concurrency   int
	MaxQueueDepth int
	MaxWait       time.Duration
	CacheTTL      time.Duration
	// Sink receives every fragment as it is generated (e.g. os.Stdout for
	// the CLI). Shared across calls; leave nil for concurrent servers.
	Sink io.Writer
	// LogTokens writes each request's token stream to the logger at debug level.
	LogTokens bool
	Events    EventPublisher
	Log       zerolog.Logger
}

// Coordinator is the single entry point for inference. It is safe for
// concurrent use; apart from the memoized model it keeps no per-request state.
type Coordinator struct {
	loader *Loader
	cfg    Config
	admit  *admission
	cache  *responseCache
	events EventPublisher
	log    zerolog.Logger
	start  time.Time
}

// NewCoordinator wires a Coordinator around loader.
func NewCoordinator(loader *Loader, cfg Config) *Coordinator {
	c := &Coordinator{
		loader: loader,
		cfg:    cfg,
		admit:  newAdmission(cfg.Concurrency, cfg.MaxQueueDepth, cfg.MaxWait),
		cache:  newResponseCache(cfg.CacheTTL),
		events: cfg.Events,
		log:    cfg.Log,
		start:  time.Now(),
	}
	if c.events == nil {
		c.events = noopPublisher{}
	}
	return c
}

// Infer generates a completion for p. The prompt must be present; callers
// short-circuit absent prompts before reaching here, and violating that is
// a programming error.
//
// Errors are *ModelLoadError, *TooBusyError, *GenerationError, or the
// context's error when ctx ends while waiting for the model.
func (c *Coordinator) Infer(ctx context.Context, p Prompt) (Response, error) {
	if !p.Present() {
		panic("inference: Infer called without prompt text")
	}
	resp, err := c.infer(ctx, p)
	inferRequestsTotal.WithLabelValues(resultLabel(err)).Inc()
	return resp, err
}

func (c *Coordinator) infer(ctx context.Context, p Prompt) (Response, error) {
	start := time.Now()
	if resp, ok := c.cache.get(p.Text); ok {
		c.events.Publish(Event{Name: EventCacheHit})
		resp.Cached = true
		resp.Duration = time.Since(start)
		return resp, nil
	}

	model, err := c.loader.Get(ctx)
	if err != nil {
		return Response{}, err
	}

	release, err := c.admit.acquire(ctx)
	if err != nil {
		if IsTooBusy(err) {
			c.events.Publish(Event{Name: EventAdmitReject, Fields: map[string]any{"reason": err.Error()}})
		}
		return Response{}, err
	}
	defer release()

	sess := model.NewSession(c.params())
	defer func() {
		if err := sess.Close(); err != nil {
			c.log.Warn().Err(err).Msg("close session")
		}
	}()

	res, err := c.run(ctx, sess, p.Text)
	elapsed := time.Since(start)
	if err != nil {
		gerr := &GenerationError{Err: err}
		c.events.Publish(Event{Name: EventGenFailed, Fields: map[string]any{"error": err.Error()}})
		c.log.Error().Err(err).Str("source", string(p.Source)).Dur("elapsed", elapsed).Msg("generation failed")
		return Response{}, gerr
	}

	generationDuration.Observe(elapsed.Seconds())
	tokensGeneratedTotal.Add(float64(res.Tokens))
	c.events.Publish(Event{Name: EventGenerated, Fields: map[string]any{"tokens": res.Tokens, "finish_reason": res.FinishReason}})
	c.log.Info().
		Str("source", string(p.Source)).
		Int("tokens", res.Tokens).
		Int("prompt_tokens", res.PromptTokens).
		Str("finish_reason", res.FinishReason).
		Dur("elapsed", elapsed).
		Msg("generation done")

	resp := Response{
		Prompt:       p.Text,
		Text:         res.Text,
		Tokens:       res.Tokens,
		PromptTokens: res.PromptTokens,
		FinishReason: res.FinishReason,
		Duration:     elapsed,
	}
	c.cache.put(p.Text, resp)
	return resp, nil
}

// run drives the collector, converting session panics into errors.
func (c *Coordinator) run(ctx context.Context, sess Session, prompt string) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = Result{}, fmt.Errorf("session panic: %v", r)
		}
	}()
	col := Collector{MaxTokens: c.cfg.MaxTokens, EchoPrompt: c.cfg.EchoPrompt, Sink: c.cfg.Sink}
	if c.cfg.LogTokens {
		ll := &lineLogger{log: c.log}
		defer ll.Flush()
		if col.Sink != nil {
			col.Sink = io.MultiWriter(col.Sink, ll)
		} else {
			col.Sink = ll
		}
	}
	return col.Run(ctx, sess, prompt)
}

func (c *Coordinator) params() SamplingParams {
	p := c.cfg.Sampling
	p.MaxTokens = c.cfg.MaxTokens
	return p
}

// Warmup loads the model ahead of the first request.
func (c *Coordinator) Warmup(ctx context.Context) error {
	_, err := c.loader.Get(ctx)
	return err
}

// Ready reports whether the model is loaded.
func (c *Coordinator) Ready() bool { return c.loader.Loaded() }

// Close stops the cache janitor and releases the model.
func (c *Coordinator) Close() error {
	c.cache.stop()
	return c.loader.Close()
}
