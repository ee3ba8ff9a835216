package main

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"llmchat/internal/config"
	"llmchat/internal/logging"
)

const envPrefix = "LLMCHAT"

// registerFlags declares one persistent flag per config key. Defaults live
// in config.WithDefaults, so flags only override when explicitly set.
func registerFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("config", "", "Path to config file (.yaml, .json or .toml)")
	f.String("log-level", config.DefaultLogLevel, "Log level (trace, debug, info, warn, error)")
	f.String("log-format", config.DefaultLogFormat, "Log format (console, json)")
	f.String("log-file", "", "Also write logs to this file (rotated)")

	f.String("host", config.DefaultHost, "HTTP listen host")
	f.Int("port", config.DefaultPort, "HTTP listen port")
	f.String("model", config.DefaultModel, "Weight file, or a directory holding exactly one")
	f.String("arch", config.DefaultArch, "Declared model architecture")
	f.Int("max-tokens", config.DefaultMaxTokens, "Generated token bound per request (-1 = unbounded)")
	f.Bool("echo-prompt", true, "Include prompt playback in responses")

	f.Int("threads", 0, "Prediction threads (0 = backend default)")
	f.Int("context-size", config.DefaultContextSize, "Model context window in tokens")
	f.Int("gpu-layers", 0, "Layers to offload to the GPU")
	f.Float32("temperature", 0, "Sampling temperature (0 = backend default)")
	f.Int("top-k", 0, "Top-k sampling (0 = backend default)")
	f.Float32("top-p", 0, "Top-p sampling (0 = backend default)")
	f.Float32("repeat-penalty", 0, "Repetition penalty (0 = backend default)")
	f.Int("seed", 0, "Sampling seed (0 = random)")

	f.Int("concurrency", config.DefaultConcurrency, "Concurrent generations")
	f.Int("max-queue-depth", config.DefaultMaxQueueDepth, "Queued plus running requests before 429")
	f.Int("max-wait-seconds", config.DefaultMaxWait, "Longest wait for the model before 429")
	f.Int("infer-timeout-seconds", 0, "Per-request generation timeout (0 = none)")
	f.Int("cache-ttl-seconds", 0, "Response cache TTL (0 = disabled)")
	f.Bool("eager-load", false, "Load the model at startup instead of on first request")
	f.Bool("swagger", false, "Serve the Swagger UI under /swagger/")
	f.String("cors-origins", "", "Comma-separated allowed CORS origins (empty = CORS off)")
}

// newViper binds flags and LLMCHAT_* environment variables.
func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}
	return v, nil
}

// loadConfig resolves the effective configuration: defaults, then the
// config file, then environment, then flags. It also sets up logging.
func loadConfig(cmd *cobra.Command) (config.Config, zerolog.Logger, error) {
	v, err := newViper(cmd.Flags())
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}

	var fileErr error
	path := v.GetString("config")
	var cfg config.Config
	if path != "" {
		cfg, fileErr = config.Load(path)
	}
	applyOverrides(v, &cfg)
	cfg = cfg.WithDefaults()

	log, err := logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		return cfg, log, err
	}
	if fileErr != nil {
		log.Warn().Err(fileErr).Str("config", path).Msg("config file ignored, using defaults")
	} else if path != "" {
		log.Debug().Str("config", path).Msg("loaded configuration")
	}
	return cfg, log, nil
}

// applyOverrides copies every explicitly set flag or environment variable
// onto cfg.
func applyOverrides(v *viper.Viper, cfg *config.Config) {
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	num := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	flt := func(key string, dst *float32) {
		if v.IsSet(key) {
			*dst = float32(v.GetFloat64(key))
		}
	}
	boolean := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}

	str("host", &cfg.Host)
	num("port", &cfg.Port)
	str("model", &cfg.Model)
	str("arch", &cfg.Arch)
	num("max-tokens", &cfg.MaxTokens)
	if v.IsSet("echo-prompt") {
		on := v.GetBool("echo-prompt")
		cfg.EchoPrompt = &on
	}
	num("threads", &cfg.Threads)
	num("context-size", &cfg.ContextSize)
	num("gpu-layers", &cfg.GPULayers)
	flt("temperature", &cfg.Temperature)
	num("top-k", &cfg.TopK)
	flt("top-p", &cfg.TopP)
	flt("repeat-penalty", &cfg.RepeatPenalty)
	num("seed", &cfg.Seed)
	num("concurrency", &cfg.Concurrency)
	num("max-queue-depth", &cfg.MaxQueueDepth)
	num("max-wait-seconds", &cfg.MaxWaitSeconds)
	num("infer-timeout-seconds", &cfg.InferTimeoutSeconds)
	num("cache-ttl-seconds", &cfg.CacheTTLSeconds)
	boolean("eager-load", &cfg.EagerLoad)
	boolean("swagger", &cfg.Swagger)
	if v.IsSet("cors-origins") {
		cfg.CORSOrigins = splitCSV(v.GetString("cors-origins"))
	}
	str("log-level", &cfg.LogLevel)
	str("log-format", &cfg.LogFormat)
	str("log-file", &cfg.LogFile)
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
