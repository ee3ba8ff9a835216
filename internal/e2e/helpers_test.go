package e2e

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"llmchat/internal/httpapi"
	"llmchat/internal/inference"
	"llmchat/internal/registry"
)

// createModelDir writes a directory holding one minimal GGUF weight file
// declaring arch and returns the directory.
func createModelDir(t *testing.T, arch string) string {
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
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "open_llama_3b-f16.gguf"), b.Bytes(), 0o644); err != nil {
		t.Fatalf("write temp model: %v", err)
	}
	return dir
}

// echoBackend "generates" the prompt words back, one token each, after an
// optional per-token delay.
type echoBackend struct {
	loads atomic.Int32
	delay time.Duration
}

func (b *echoBackend) Load(path string, arch inference.Architecture) (inference.Model, error) {
	b.loads.Add(1)
	return &echoModel{b: b}, nil
}

type echoModel struct{ b *echoBackend }

func (m *echoModel) NewSession(inference.SamplingParams) inference.Session {
	return &echoSession{delay: m.b.delay}
}
func (m *echoModel) Close() error { return nil }

type echoSession struct {
	words []string
	delay time.Duration
}

func (s *echoSession) Feed(ctx context.Context, prompt string) ([]inference.Token, error) {
	s.words = strings.Fields(prompt)
	return []inference.Token{{Text: prompt, Kind: inference.TokenPrompt}}, nil
}

func (s *echoSession) Next(ctx context.Context) (inference.Token, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return inference.Token{}, ctx.Err()
		}
	}
	if len(s.words) == 0 {
		return inference.Token{}, io.EOF
	}
	w := s.words[0]
	s.words = s.words[1:]
	return inference.Token{Text: " " + strings.ToUpper(w), Kind: inference.TokenInferred}, nil
}

func (s *echoSession) Close() error { return nil }

// newServer wires registry, loader, coordinator and HTTP front end the way
// `llmchat serve` does, with backend in place of llama.cpp.
func newServer(t *testing.T, modelPath string, backend inference.Backend, cfg inference.Config) (*httptest.Server, *inference.Coordinator) {
	t.Helper()
	path, err := registry.Resolve(modelPath)
	if err != nil {
		t.Fatalf("resolve model: %v", err)
	}
	loader := inference.NewLoader(inference.LoaderConfig{Backend: backend, Path: path, Log: zerolog.Nop()})
	cfg.Log = zerolog.Nop()
	coord := inference.NewCoordinator(loader, cfg)
	srv := httptest.NewServer(httpapi.NewMux(coord, httpapi.Options{Log: zerolog.Nop()}))
	t.Cleanup(func() {
		srv.Close()
		_ = coord.Close()
	})
	return srv, coord
}

func get(t *testing.T, url string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body
}
