package inference

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// writeModelFile writes a minimal GGUF v3 header declaring arch.
func writeModelFile(t *testing.T, arch string) string {
	t.Helper()
	var b bytes.Buffer
	w := func(v any) { _ = binary.Write(&b, binary.LittleEndian, v) }
	b.WriteString("GGUF")
	w(uint32(3))
	w(uint64(0))
	w(uint64(1))
	w(uint64(len("general.architecture")))
	b.WriteString("general.architecture")
	w(uint32(8))
	w(uint64(len(arch)))
	b.WriteString(arch)
	p := filepath.Join(t.TempDir(), "model.gguf")
	if err := os.WriteFile(p, b.Bytes(), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return p
}

func noValidate(string, Architecture) error { return nil }

// fakeBackend is an in-memory Backend. Generation is deterministic: every
// inferred token is tagged with the first word of the prompt.
type fakeBackend struct {
	delay     time.Duration
	failLoads int32 // number of initial loads that fail
	panicLoad bool

	loads    atomic.Int32
	attempts atomic.Int32

	model *fakeModel
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{model: &fakeModel{}}
}

func (b *fakeBackend) Load(path string, arch Architecture) (Model, error) {
	n := b.attempts.Add(1)
	if b.delay > 0 {
		time.Sleep(b.delay)
	}
	if b.panicLoad {
		panic("corrupt tensor table")
	}
	if n <= b.failLoads {
		return nil, errors.New("out of memory")
	}
	b.loads.Add(1)
	return b.model, nil
}

type fakeModel struct {
	eosAfter  int   // 0 = never signal end of sequence
	failAfter int   // >0: Next fails once this many tokens were produced
	feedErr   error // returned by Feed
	panicNext bool
	stepDelay time.Duration
	block     chan struct{} // Next waits on it when set

	sessions atomic.Int32
	closed   atomic.Int32
	mu       sync.Mutex
	params   []SamplingParams
	freed    atomic.Bool
}

func (m *fakeModel) NewSession(p SamplingParams) Session {
	m.sessions.Add(1)
	m.mu.Lock()
	m.params = append(m.params, p)
	m.mu.Unlock()
	return &fakeSession{m: m}
}

func (m *fakeModel) Close() error {
	m.freed.Store(true)
	return nil
}

type fakeSession struct {
	m   *fakeModel
	tag string
	n   int
}

func (s *fakeSession) Feed(ctx context.Context, prompt string) ([]Token, error) {
	if s.m.feedErr != nil {
		return nil, s.m.feedErr
	}
	words := strings.Fields(prompt)
	s.tag = words[0]
	out := make([]Token, len(words))
	for i, w := range words {
		if i > 0 {
			w = " " + w
		}
		out[i] = Token{Text: w, Kind: TokenPrompt}
	}
	return out, nil
}

func (s *fakeSession) Next(ctx context.Context) (Token, error) {
	if s.m.block != nil {
		select {
		case <-s.m.block:
		case <-ctx.Done():
			return Token{}, ctx.Err()
		}
	}
	if s.m.stepDelay > 0 {
		time.Sleep(s.m.stepDelay)
	}
	if s.m.panicNext {
		panic("ggml assertion")
	}
	if s.m.failAfter > 0 && s.n >= s.m.failAfter {
		return Token{}, errors.New("compute graph failed")
	}
	if s.m.eosAfter > 0 && s.n >= s.m.eosAfter {
		return Token{}, io.EOF
	}
	s.n++
	return Token{Text: fmt.Sprintf(" %s#%d", s.tag, s.n), Kind: TokenInferred}, nil
}

func (s *fakeSession) Close() error {
	s.m.closed.Add(1)
	return nil
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return c
}
