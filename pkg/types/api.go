package types

// ChatRequest is the JSON body accepted by POST /chat.
type ChatRequest struct {
	// Prompt text to complete. Blank prompts return the usage suggestion.
	// example: What do you think about Go?
	Prompt string `json:"prompt" example:"What do you think about Go?"`
}

// ChatResponse is returned by the chat endpoints after a successful generation.
type ChatResponse struct {
	// The prompt as received.
	// example: What do you think about Go?
	Prompt string `json:"prompt" example:"What do you think about Go?"`
	// Generated text, including prompt playback when echo is enabled.
	// example: What do you think about Go? It is a small language...
	Response string `json:"response" example:"What do you think about Go? It is a small language..."`
	// Number of generated tokens (prompt playback excluded).
	// example: 100
	Tokens int `json:"tokens" example:"100"`
	// Why generation stopped: "length" (token bound) or "stop" (end of sequence).
	// example: length
	FinishReason string `json:"finish_reason" example:"length"`
	// Wall time spent serving the request in milliseconds.
	// example: 5321
	DurationMS int64 `json:"duration_ms" example:"5321"`
	// True when the response was served from the response cache.
	Cached bool `json:"cached,omitempty"`
}

// SuggestionResponse is the usage hint returned when no prompt is supplied.
type SuggestionResponse struct {
	// example: To initiate a chat, add "/chat?prompt=my prompt" or "/chat/my prompt"
	Suggestion string `json:"suggestion" example:"To initiate a chat, add \"/chat?prompt=my prompt\" or \"/chat/my prompt\""`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: load model ./assets/open_llama_3b-f16.bin: no such file or directory
	Error string `json:"error" example:"load model ./assets/open_llama_3b-f16.bin: no such file or directory"`
	// HTTP status code.
	// example: 503
	Code int `json:"code" example:"503"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Model handle state: unloaded, loading, ready or error.
	// example: ready
	State string `json:"state" example:"ready"`
	// Weight file served by this process.
	// example: /srv/assets/open_llama_3b-f16.bin
	ModelPath string `json:"model_path" example:"/srv/assets/open_llama_3b-f16.bin"`
	// Declared model architecture.
	// example: llama
	Architecture string `json:"architecture" example:"llama"`
	// Last load error, cleared after a successful load.
	LastError string `json:"last_error,omitempty"`
	// Successful model loads (at most one per process).
	// example: 1
	LoadsTotal uint64 `json:"loads_total" example:"1"`
	// Failed model load attempts.
	// example: 0
	LoadFailuresTotal uint64 `json:"load_failures_total" example:"0"`
	// Generations currently running.
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// Requests waiting for the model.
	// example: 0
	QueueLen int `json:"queue_len" example:"0"`
	// Maximum queued plus running requests before backpressure triggers.
	// example: 32
	MaxQueueDepth int `json:"max_queue_depth" example:"32"`
	// Token bound applied to each generation (0 = unbounded).
	// example: 100
	MaxTokens int `json:"max_tokens" example:"100"`
	// Whether prompt playback is included in responses.
	// example: true
	EchoPrompt bool `json:"echo_prompt" example:"true"`
	// Entries in the response cache (0 when disabled).
	// example: 0
	CacheEntries int `json:"cache_entries" example:"0"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
