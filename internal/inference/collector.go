package inference

import (
	"context"
	"errors"
	"io"
	"strings"
)

// Collector drives a Session until the token bound or end of sequence and
// assembles the output text.
type Collector struct {
	// MaxTokens bounds generated tokens; 0 means unbounded.
	MaxTokens int
	// EchoPrompt appends prompt playback fragments to the output.
	EchoPrompt bool
	// Sink receives every emitted fragment as it is produced. Optional;
	// write errors are ignored.
	Sink io.Writer
}

// Result is the terminal state of a Run.
type Result struct {
	Text         string
	Tokens       int
	PromptTokens int
	FinishReason string
}

// Run feeds prompt to s and steps it until a stopping condition. Any error
// fails the whole run; accumulated text is discarded.
func (c Collector) Run(ctx context.Context, s Session, prompt string) (Result, error) {
	var b strings.Builder
	var res Result

	playback, err := s.Feed(ctx, prompt)
	if err != nil {
		return Result{}, err
	}
	res.PromptTokens = len(playback)
	if c.EchoPrompt {
		for _, t := range playback {
			c.emit(&b, t)
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		tok, err := s.Next(ctx)
		if errors.Is(err, io.EOF) {
			res.FinishReason = FinishStop
			break
		}
		if err != nil {
			return Result{}, err
		}
		if tok.Kind == TokenPrompt {
			if c.EchoPrompt {
				c.emit(&b, tok)
			}
			continue
		}
		c.emit(&b, tok)
		res.Tokens++
		if c.feedback(res.Tokens) == Stop {
			res.FinishReason = FinishLength
			break
		}
	}
	res.Text = b.String()
	return res, nil
}

// feedback is evaluated after every generated token.
func (c Collector) feedback(generated int) Feedback {
	if c.MaxTokens > 0 && generated >= c.MaxTokens {
		return Stop
	}
	return Continue
}

func (c Collector) emit(b *strings.Builder, t Token) {
	b.WriteString(t.Text)
	if c.Sink != nil {
		_, _ = io.WriteString(c.Sink, t.Text)
	}
}
