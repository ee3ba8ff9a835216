package inference

import (
	"strings"
	"time"
)

// Architecture identifies the model family a weight file must declare.
type Architecture string

// ArchLlama is the only architecture the gateway is built for.
const ArchLlama Architecture = "llama"

// PromptSource records where a prompt came from.
type PromptSource string

const (
	SourceQuery PromptSource = "query"
	SourcePath  PromptSource = "path"
	SourceBody  PromptSource = "body"
	SourceCLI   PromptSource = "cli"
)

// Prompt is caller input. Blank text is the "no prompt supplied" state.
type Prompt struct {
	Text   string
	Source PromptSource
}

// NewPrompt builds a Prompt from raw input.
func NewPrompt(text string, src PromptSource) Prompt {
	return Prompt{Text: text, Source: src}
}

// Present reports whether the prompt carries text worth sending to the model.
func (p Prompt) Present() bool { return strings.TrimSpace(p.Text) != "" }

// TokenKind separates prompt playback from newly inferred output.
type TokenKind int

const (
	TokenPrompt TokenKind = iota
	TokenInferred
)

// Token is one text fragment emitted by a Session.
type Token struct {
	Text string
	Kind TokenKind
}

// Feedback is the collector's verdict after each generated token.
type Feedback int

const (
	Continue Feedback = iota
	Stop
)

// Finish reasons reported on a Response.
const (
	FinishLength = "length"
	FinishStop   = "stop"
)

// SamplingParams are passed to Model.NewSession. Zero values select the
// backend defaults.
type SamplingParams struct {
	MaxTokens     int
	Temperature   float32
	TopK          int
	TopP          float32
	RepeatPenalty float32
	Seed          int
	Threads       int
}

// Response is the outcome of a successful Infer call.
type Response struct {
	Prompt       string
	Text         string
	Tokens       int
	PromptTokens int
	FinishReason string
	Duration     time.Duration
	Cached       bool
}

// State is the lifecycle state of the model handle.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateError    State = "error"
)
