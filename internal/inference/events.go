package inference

import (
	"sync"

	"github.com/rs/zerolog"
)

// Event names published by the Loader and Coordinator.
const (
	EventLoadStart   = "model_load_start"
	EventLoaded      = "model_loaded"
	EventLoadFailed  = "model_load_failed"
	EventGenerated   = "generation_done"
	EventGenFailed   = "generation_failed"
	EventCacheHit    = "cache_hit"
	EventAdmitReject = "admission_rejected"
)

// Event represents a lifecycle event. Minimal and stable: a name plus
// optional key/values.
type Event struct {
	Name   string
	Fields map[string]any
}

// EventPublisher receives events. Implementations must be lightweight and
// non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// LogPublisher writes events to a zerolog logger at debug level.
type LogPublisher struct {
	Log zerolog.Logger
}

func (p LogPublisher) Publish(e Event) {
	p.Log.Debug().Str("event", e.Name).Fields(e.Fields).Msg("inference event")
}

// MemoryPublisher stores events in memory.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher { return &MemoryPublisher{} }

func (p *MemoryPublisher) Publish(e Event) {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// Count returns how many events named name were recorded.
func (p *MemoryPublisher) Count(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Name == name {
			n++
		}
	}
	return n
}
