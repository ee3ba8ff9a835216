package config

import (
	"net"
	"strconv"
	"time"
)

// Defaults applied by WithDefaults.
const (
	DefaultHost          = "127.0.0.1"
	DefaultPort          = 8080
	DefaultModel         = "./assets/open_llama_3b-f16.bin"
	DefaultArch          = "llama"
	DefaultMaxTokens     = 100
	DefaultContextSize   = 512
	DefaultConcurrency   = 1
	DefaultMaxQueueDepth = 32
	DefaultMaxWait       = 30
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Host string `json:"host" yaml:"host" toml:"host" mapstructure:"host"`
	Port int    `json:"port" yaml:"port" toml:"port" mapstructure:"port"`

	Model string `json:"model" yaml:"model" toml:"model" mapstructure:"model"`
	Arch  string `json:"arch" yaml:"arch" toml:"arch" mapstructure:"arch"`

	// MaxTokens bounds generated tokens per request. Negative means unbounded.
	MaxTokens  int   `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens" mapstructure:"max_tokens"`
	EchoPrompt *bool `json:"echo_prompt" yaml:"echo_prompt" toml:"echo_prompt" mapstructure:"echo_prompt"`

	Threads       int     `json:"threads" yaml:"threads" toml:"threads" mapstructure:"threads"`
	ContextSize   int     `json:"context_size" yaml:"context_size" toml:"context_size" mapstructure:"context_size"`
	GPULayers     int     `json:"gpu_layers" yaml:"gpu_layers" toml:"gpu_layers" mapstructure:"gpu_layers"`
	Temperature   float32 `json:"temperature" yaml:"temperature" toml:"temperature" mapstructure:"temperature"`
	TopK          int     `json:"top_k" yaml:"top_k" toml:"top_k" mapstructure:"top_k"`
	TopP          float32 `json:"top_p" yaml:"top_p" toml:"top_p" mapstructure:"top_p"`
	RepeatPenalty float32 `json:"repeat_penalty" yaml:"repeat_penalty" toml:"repeat_penalty" mapstructure:"repeat_penalty"`
	Seed          int     `json:"seed" yaml:"seed" toml:"seed" mapstructure:"seed"`

	Concurrency         int `json:"concurrency" yaml:"concurrency" toml:"concurrency" mapstructure:"concurrency"`
	MaxQueueDepth       int `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth" mapstructure:"max_queue_depth"`
	MaxWaitSeconds      int `json:"max_wait_seconds" yaml:"max_wait_seconds" toml:"max_wait_seconds" mapstructure:"max_wait_seconds"`
	InferTimeoutSeconds int `json:"infer_timeout_seconds" yaml:"infer_timeout_seconds" toml:"infer_timeout_seconds" mapstructure:"infer_timeout_seconds"`
	CacheTTLSeconds     int `json:"cache_ttl_seconds" yaml:"cache_ttl_seconds" toml:"cache_ttl_seconds" mapstructure:"cache_ttl_seconds"`

	EagerLoad   bool     `json:"eager_load" yaml:"eager_load" toml:"eager_load" mapstructure:"eager_load"`
	Swagger     bool     `json:"swagger" yaml:"swagger" toml:"swagger" mapstructure:"swagger"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins" mapstructure:"cors_origins"`

	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level" mapstructure:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format" mapstructure:"log_format"`
	LogFile   string `json:"log_file" yaml:"log_file" toml:"log_file" mapstructure:"log_file"`
}

// WithDefaults returns a copy of c with unspecified fields filled in.
func (c Config) WithDefaults() Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port <= 0 {
		c.Port = DefaultPort
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Arch == "" {
		c.Arch = DefaultArch
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.EchoPrompt == nil {
		on := true
		c.EchoPrompt = &on
	}
	if c.ContextSize <= 0 {
		c.ContextSize = DefaultContextSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.MaxQueueDepth <= 0 {
		c.MaxQueueDepth = DefaultMaxQueueDepth
	}
	if c.MaxWaitSeconds <= 0 {
		c.MaxWaitSeconds = DefaultMaxWait
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	return c
}

// Addr is the listen address built from Host and Port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// TokenBound is MaxTokens with "unbounded" mapped to 0.
func (c Config) TokenBound() int {
	if c.MaxTokens < 0 {
		return 0
	}
	return c.MaxTokens
}

// Echo reports the prompt playback policy; unset means on.
func (c Config) Echo() bool { return c.EchoPrompt == nil || *c.EchoPrompt }

func (c Config) MaxWait() time.Duration { return seconds(c.MaxWaitSeconds) }

func (c Config) InferTimeout() time.Duration { return seconds(c.InferTimeoutSeconds) }

func (c Config) CacheTTL() time.Duration { return seconds(c.CacheTTLSeconds) }

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
