package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"llmchat/internal/httpapi"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	coord, err := newCoordinator(cfg, log, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := coord.Close(); err != nil {
			log.Warn().Err(err).Msg("close model")
		}
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	// Canceled only once graceful shutdown gives up on in-flight requests.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	if cfg.EagerLoad {
		go func() {
			if err := coord.Warmup(sigCtx); err != nil {
				log.Error().Err(err).Msg("eager model load failed; will retry on first request")
			}
		}()
	}

	mux := httpapi.NewMux(coord, httpapi.Options{
		Log:          log,
		BaseContext:  baseCtx,
		InferTimeout: cfg.InferTimeout(),
		CORSOrigins:  cfg.CORSOrigins,
		Swagger:      cfg.Swagger,
	})
	srv := &http.Server{Addr: cfg.Addr(), Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("model", cfg.Model).Int("max_tokens", cfg.TokenBound()).Msg("llmchat listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
	}

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
		cancelBase()
		_ = srv.Close()
	}
	if err, ok := <-errCh; ok && err != nil {
		return err
	}
	return nil
}
