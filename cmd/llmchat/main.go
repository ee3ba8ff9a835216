package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "llmchat",
	Short: "Serve text generation from a single local language model",
	Long: `llmchat loads one llama-family weight file and answers prompts over HTTP
(llmchat serve) or once from the command line (llmchat generate).

Every flag can also be set in the config file or through an LLMCHAT_*
environment variable, e.g. LLMCHAT_MAX_TOKENS=50.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	registerFlags(rootCmd)
	rootCmd.AddCommand(newServeCmd(), newGenerateCmd(), newInspectCmd())
}
