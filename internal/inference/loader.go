package inference

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"llmchat/internal/modelfile"
)

// Validator checks a weight file before the backend is asked to load it.
type Validator func(path string, arch Architecture) error

// CheckHeader is the default Validator: the file must exist, be readable and
// carry a model header compatible with arch.
func CheckHeader(path string, arch Architecture) error {
	_, err := modelfile.Check(path, string(arch))
	return err
}

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	Backend  Backend
	Path     string
	Arch     Architecture
	Validate Validator
	Events   EventPublisher
	Log      zerolog.Logger
}

// Loader is the process-wide Model Handle cell. The first Get performs the
// load; concurrent first callers wait for that single load; later callers
// read the cached handle. A failed load leaves the cell empty.
type Loader struct {
	backend  Backend
	path     string
	arch     Architecture
	validate Validator
	events   EventPublisher
	log      zerolog.Logger

	group singleflight.Group

	mu      sync.RWMutex
	model   Model
	state   State
	lastErr string

	loads    atomic.Uint64
	failures atomic.Uint64
}

// NewLoader constructs a Loader. Nothing is loaded until Get.
func NewLoader(cfg LoaderConfig) *Loader {
	l := &Loader{
		backend:  cfg.Backend,
		path:     cfg.Path,
		arch:     cfg.Arch,
		validate: cfg.Validate,
		events:   cfg.Events,
		log:      cfg.Log,
		state:    StateUnloaded,
	}
	if l.arch == "" {
		l.arch = ArchLlama
	}
	if l.validate == nil {
		l.validate = CheckHeader
	}
	if l.events == nil {
		l.events = noopPublisher{}
	}
	return l
}

// Get returns the loaded model, loading it on first use. Load failures are
// returned as *ModelLoadError. If ctx ends while waiting on another caller's
// load, ctx.Err() is returned and the load keeps running.
func (l *Loader) Get(ctx context.Context) (Model, error) {
	if m := l.current(); m != nil {
		return m, nil
	}
	ch := l.group.DoChan("model", l.load)
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Model), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Loader) current() Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.model
}

func (l *Loader) load() (any, error) {
	// A caller may have raced past current() while the previous flight
	// was storing its result.
	if m := l.current(); m != nil {
		return m, nil
	}
	l.mu.Lock()
	l.state = StateLoading
	l.mu.Unlock()
	l.events.Publish(Event{Name: EventLoadStart, Fields: map[string]any{"path": l.path, "arch": string(l.arch)}})
	l.log.Info().Str("path", l.path).Str("arch", string(l.arch)).Msg("loading model")

	start := time.Now()
	m, err := l.loadModel()
	elapsed := time.Since(start)
	modelLoadDuration.Observe(elapsed.Seconds())

	if err != nil {
		lerr := &ModelLoadError{Path: l.path, Err: err}
		l.mu.Lock()
		l.state = StateError
		l.lastErr = lerr.Error()
		l.mu.Unlock()
		l.failures.Add(1)
		modelLoadsTotal.WithLabelValues("error").Inc()
		l.events.Publish(Event{Name: EventLoadFailed, Fields: map[string]any{"path": l.path, "error": err.Error()}})
		l.log.Error().Err(err).Str("path", l.path).Dur("elapsed", elapsed).Msg("model load failed")
		return nil, lerr
	}

	l.mu.Lock()
	l.model = m
	l.state = StateReady
	l.lastErr = ""
	l.mu.Unlock()
	l.loads.Add(1)
	modelLoadsTotal.WithLabelValues("ok").Inc()
	l.events.Publish(Event{Name: EventLoaded, Fields: map[string]any{"path": l.path, "elapsed_ms": elapsed.Milliseconds()}})
	l.log.Info().Str("path", l.path).Int64("elapsed_ms", elapsed.Milliseconds()).Msg("model fully loaded")
	return m, nil
}

func (l *Loader) loadModel() (m Model, err error) {
	if l.backend == nil {
		return nil, errors.New("no inference backend configured")
	}
	if err := l.validate(l.path, l.arch); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("backend panic: %v", r)
		}
	}()
	m, err = l.backend.Load(l.path, l.arch)
	if err == nil && m == nil {
		err = errors.New("backend returned no model")
	}
	return m, err
}

// Loaded reports whether the handle is populated.
func (l *Loader) Loaded() bool { return l.current() != nil }

// Path returns the weight file the loader was configured with.
func (l *Loader) Path() string { return l.path }

// Arch returns the declared architecture.
func (l *Loader) Arch() Architecture { return l.arch }

// LoaderSnapshot is a read-only view of the loader state.
type LoaderSnapshot struct {
	State    State
	LastErr  string
	Loads    uint64
	Failures uint64
}

// Snapshot returns the current loader state.
func (l *Loader) Snapshot() LoaderSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return LoaderSnapshot{
		State:    l.state,
		LastErr:  l.lastErr,
		Loads:    l.loads.Load(),
		Failures: l.failures.Load(),
	}
}

// Close releases the model if it was loaded.
func (l *Loader) Close() error {
	l.mu.Lock()
	m := l.model
	l.model = nil
	l.state = StateUnloaded
	l.mu.Unlock()
	if m == nil {
		return nil
	}
	return m.Close()
}
