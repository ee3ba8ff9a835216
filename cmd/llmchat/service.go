package main

import (
	"io"

	"github.com/rs/zerolog"

	"llmchat/internal/config"
	"llmchat/internal/inference"
	"llmchat/internal/llama"
	"llmchat/internal/registry"
)

// newCoordinator wires the llama backend, the model loader and the
// coordinator from cfg. sink, when non-nil, receives tokens as they arrive.
func newCoordinator(cfg config.Config, log zerolog.Logger, sink io.Writer) (*inference.Coordinator, error) {
	path, err := registry.Resolve(cfg.Model)
	if err != nil {
		return nil, err
	}
	events := inference.LogPublisher{Log: log}
	backend := llama.NewBackend(llama.Options{
		ContextSize: cfg.ContextSize,
		GPULayers:   cfg.GPULayers,
		Threads:     cfg.Threads,
	}, log)
	loader := inference.NewLoader(inference.LoaderConfig{
		Backend: backend,
		Path:    path,
		Arch:    inference.Architecture(cfg.Arch),
		Events:  events,
		Log:     log,
	})
	return inference.NewCoordinator(loader, inference.Config{
		MaxTokens:  cfg.TokenBound(),
		EchoPrompt: cfg.Echo(),
		Sampling: inference.SamplingParams{
			Temperature:   cfg.Temperature,
			TopK:          cfg.TopK,
			TopP:          cfg.TopP,
			RepeatPenalty: cfg.RepeatPenalty,
			Seed:          cfg.Seed,
			Threads:       cfg.Threads,
		},
		Concurrency:   cfg.Concurrency,
		MaxQueueDepth: cfg.MaxQueueDepth,
		MaxWait:       cfg.MaxWait(),
		CacheTTL:      cfg.CacheTTL(),
		Sink:          sink,
		LogTokens:     sink == nil && log.GetLevel() <= zerolog.DebugLevel,
		Events:        events,
		Log:           log,
	}), nil
}
