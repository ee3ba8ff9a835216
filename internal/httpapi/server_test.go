package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"llmchat/internal/inference"
	"llmchat/pkg/types"
)

type mockService struct {
	status   types.StatusResponse
	ready    bool
	inferErr error
	calls    atomic.Int32
	last     inference.Prompt
}

func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Ready() bool                  { return m.ready }
func (m *mockService) Infer(ctx context.Context, p inference.Prompt) (inference.Response, error) {
	m.calls.Add(1)
	m.last = p
	if m.inferErr != nil {
		return inference.Response{}, m.inferErr
	}
	return inference.Response{
		Prompt:       p.Text,
		Text:         p.Text + " and then some",
		Tokens:       3,
		FinishReason: inference.FinishLength,
		Duration:     12 * time.Millisecond,
	}, nil
}

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func newTestMux(svc Service) http.Handler {
	return NewMux(svc, Options{Log: zerolog.Nop()})
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{State: "ready", MaxTokens: 100}}
	r := newTestMux(svc)
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.State != "ready" || body.MaxTokens != 100 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestReadyz(t *testing.T) {
	svc := &mockService{ready: true}
	r := newTestMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz_NotReady(t *testing.T) {
	svc := &mockService{ready: false}
	r := newTestMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "loading") {
		t.Fatalf("body=%q", w.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	r := newTestMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestWelcomeNeverInfers(t *testing.T) {
	svc := &mockService{}
	r := newTestMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content-type=%s", ct)
	}
	if !strings.Contains(w.Body.String(), "/chat?prompt=") {
		t.Fatalf("welcome page lacks suggestion: %q", w.Body.String())
	}
	if svc.calls.Load() != 0 {
		t.Fatalf("welcome page invoked inference")
	}
}

func TestChatWithoutPromptReturnsSuggestion(t *testing.T) {
	svc := &mockService{}
	r := newTestMux(svc)
	for _, target := range []string{"/chat", "/chat?prompt=", "/chat?prompt=%20%20", "/chat/", "/chat/%20"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status=%d", target, w.Code)
		}
		var body types.SuggestionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: json: %v", target, err)
		}
		if body.Suggestion != UsageHint {
			t.Fatalf("%s: suggestion=%q", target, body.Suggestion)
		}
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"prompt":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "suggestion") {
		t.Fatalf("POST blank prompt: status=%d body=%q", w.Code, w.Body.String())
	}
	if n := svc.calls.Load(); n != 0 {
		t.Fatalf("inference invoked %d times for absent prompts", n)
	}
}

func TestChatQuery(t *testing.T) {
	svc := &mockService{}
	r := newTestMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat?prompt=What+about+Go", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Prompt != "What about Go" || body.Response != "What about Go and then some" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Tokens != 3 || body.FinishReason != "length" || body.DurationMS != 12 {
		t.Fatalf("unexpected metadata: %+v", body)
	}
	if svc.last.Source != inference.SourceQuery {
		t.Fatalf("source=%s", svc.last.Source)
	}
}

func TestChatPath(t *testing.T) {
	svc := &mockService{}
	r := newTestMux(svc)
	cases := map[string]string{
		"/chat/hello%20there": "hello there",
		"/chat/a%2Fb":         "a/b",
		"/chat/one/two":       "one/two",
	}
	for target, want := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status=%d", target, w.Code)
		}
		if svc.last.Text != want || svc.last.Source != inference.SourcePath {
			t.Fatalf("%s: prompt=%+v want %q", target, svc.last, want)
		}
	}
}

func TestChatBody(t *testing.T) {
	svc := &mockService{}
	r := newTestMux(svc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"prompt":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if svc.last.Text != "hi" || svc.last.Source != inference.SourceBody {
		t.Fatalf("prompt=%+v", svc.last)
	}
}

func TestChatBody_BadRequests(t *testing.T) {
	svc := &mockService{}
	r := newTestMux(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"prompt":"hi"}`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("missing content-type: status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"prompt":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad json: status=%d", w.Code)
	}
	if svc.calls.Load() != 0 {
		t.Fatalf("inference invoked for rejected bodies")
	}
}

func TestChatBody_TooLarge(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc, Options{Log: zerolog.Nop(), MaxBodyBytes: 16})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"prompt":"`+strings.Repeat("x", 64)+`"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}
