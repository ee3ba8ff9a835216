package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"llmchat/internal/inference"
	"llmchat/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Infer(ctx context.Context, p inference.Prompt) (inference.Response, error)
	Status() types.StatusResponse
	Ready() bool
}

type server struct {
	svc      Service
	opts     Options
	log      zerolog.Logger
	defLevel LogLevel
}

// NewMux builds the router serving the chat endpoints and the operational
// routes (/healthz, /readyz, /status, /metrics, /swagger).
func NewMux(svc Service, opts Options) http.Handler {
	opts = opts.withDefaults()
	s := &server{svc: svc, opts: opts, log: opts.Log, defLevel: parseLevel(opts.RequestLogLevel)}

	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if len(opts.CORSOrigins) > 0 {
		r.Use(corsMiddleware(opts.CORSOrigins))
	}

	r.Get("/", handleWelcome)
	r.Get("/chat", s.handleChatQuery)
	r.Get("/chat/*", s.handleChatPath)
	r.Post("/chat", s.handleChatBody)

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	if opts.Swagger {
		MountSwagger(r)
	}
	return r
}

// handleChatQuery godoc
//
//	@Summary		Chat (query)
//	@Description	Generates a reply for the prompt query parameter. Without a prompt the usage suggestion is returned.
//	@Tags			chat
//	@Produce		json
//	@Param			prompt	query		string	false	"Prompt text"
//	@Success		200		{object}	types.ChatResponse
//	@Failure		429		{object}	types.ErrorResponse
//	@Failure		500		{object}	types.ErrorResponse
//	@Failure		503		{object}	types.ErrorResponse
//	@Router			/chat [get]
func (s *server) handleChatQuery(w http.ResponseWriter, r *http.Request) {
	s.chat(w, r, inference.NewPrompt(r.URL.Query().Get("prompt"), inference.SourceQuery))
}

// handleChatPath godoc
//
//	@Summary		Chat (path)
//	@Description	Generates a reply for the prompt given as the rest of the path.
//	@Tags			chat
//	@Produce		json
//	@Param			prompt	path		string	true	"Prompt text"
//	@Success		200		{object}	types.ChatResponse
//	@Failure		429		{object}	types.ErrorResponse
//	@Failure		500		{object}	types.ErrorResponse
//	@Failure		503		{object}	types.ErrorResponse
//	@Router			/chat/{prompt} [get]
func (s *server) handleChatPath(w http.ResponseWriter, r *http.Request) {
	text := chi.URLParam(r, "*")
	// chi matches against RawPath when the path has escaped characters.
	if r.URL.RawPath != "" {
		if u, err := url.PathUnescape(text); err == nil {
			text = u
		}
	}
	s.chat(w, r, inference.NewPrompt(text, inference.SourcePath))
}

// handleChatBody godoc
//
//	@Summary		Chat (JSON)
//	@Description	Generates a reply for a JSON request body.
//	@Tags			chat
//	@Accept			json
//	@Produce		json
//	@Param			request	body		types.ChatRequest	true	"Chat request"
//	@Success		200		{object}	types.ChatResponse
//	@Failure		400		{object}	types.ErrorResponse
//	@Failure		415		{object}	types.ErrorResponse
//	@Failure		429		{object}	types.ErrorResponse
//	@Failure		500		{object}	types.ErrorResponse
//	@Failure		503		{object}	types.ErrorResponse
//	@Router			/chat [post]
func (s *server) handleChatBody(w http.ResponseWriter, r *http.Request) {
	// Content-Type check
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.chat(w, r, inference.NewPrompt(req.Prompt, inference.SourceBody))
}

// chat answers one chat request. Absent prompts never reach the service.
func (s *server) chat(w http.ResponseWriter, r *http.Request, p inference.Prompt) {
	if !p.Present() {
		writeJSON(w, http.StatusOK, types.SuggestionResponse{Suggestion: UsageHint})
		return
	}

	lvl := requestLogLevel(r, s.defLevel)
	start := time.Now()
	if lvl >= LevelInfo {
		requestEvent(s.log, zerolog.InfoLevel, r).Str("source", string(p.Source)).Int("prompt_len", len(p.Text)).Msg("chat start")
	}

	// Join server base context with request context so shutdown cancels work too.
	ctx, cancel := joinContexts(s.opts.BaseContext, r.Context())
	defer cancel()
	if s.opts.InferTimeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, s.opts.InferTimeout)
		defer tcancel()
	}

	resp, err := s.svc.Infer(ctx, p)
	if err != nil {
		// Client went away; nobody is listening for the status.
		if r.Context().Err() != nil {
			return
		}
		status := statusFor(err)
		var tb *inference.TooBusyError
		if errors.As(err, &tb) {
			IncrementBackpressure(tb.Reason)
		}
		writeJSONError(w, status, err.Error())
		if lvl >= LevelError {
			requestEvent(s.log, zerolog.ErrorLevel, r).Int("status", status).Dur("dur", time.Since(start)).Err(err).Msg("chat end")
		}
		return
	}

	writeJSON(w, http.StatusOK, types.ChatResponse{
		Prompt:       resp.Prompt,
		Response:     resp.Text,
		Tokens:       resp.Tokens,
		FinishReason: resp.FinishReason,
		DurationMS:   resp.Duration.Milliseconds(),
		Cached:       resp.Cached,
	})
	if lvl >= LevelDebug {
		requestEvent(s.log, zerolog.DebugLevel, r).Str("response", resp.Text).Msg("chat response")
	}
	if lvl >= LevelInfo {
		requestEvent(s.log, zerolog.InfoLevel, r).
			Int("status", http.StatusOK).
			Int("tokens", resp.Tokens).
			Str("finish_reason", resp.FinishReason).
			Bool("cached", resp.Cached).
			Dur("dur", time.Since(start)).
			Msg("chat end")
	}
}
