package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"llmchat/internal/inference"
	"llmchat/pkg/types"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate PROMPT...",
		Short: "Generate a reply once, streaming tokens to stdout",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return runGenerate(cmd, strings.Join(args, " "), asJSON, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Bool("json", false, "Print the full response as JSON instead of streaming tokens")
	return cmd
}

func runGenerate(cmd *cobra.Command, text string, asJSON bool, out io.Writer) error {
	p := inference.NewPrompt(text, inference.SourceCLI)
	if !p.Present() {
		_, err := fmt.Fprintln(cmd.ErrOrStderr(), `Suggestion: run "llmchat generate your prompt"`)
		return err
	}
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	var sink io.Writer
	if !asJSON {
		sink = out
	}
	coord, err := newCoordinator(cfg, log, sink)
	if err != nil {
		return err
	}
	defer func() { _ = coord.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if t := cfg.InferTimeout(); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	resp, err := coord.Infer(ctx, p)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(types.ChatResponse{
			Prompt:       resp.Prompt,
			Response:     resp.Text,
			Tokens:       resp.Tokens,
			FinishReason: resp.FinishReason,
			DurationMS:   resp.Duration.Milliseconds(),
		})
	}
	_, _ = fmt.Fprintln(out)
	log.Info().
		Int("tokens", resp.Tokens).
		Str("finish_reason", resp.FinishReason).
		Int64("duration_ms", resp.Duration.Milliseconds()).
		Msg("generation complete")
	return nil
}
