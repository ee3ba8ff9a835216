package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"llmchat/internal/llama"
	"llmchat/internal/modelfile"
	"llmchat/internal/registry"
)

// inspectReport is printed by `llmchat inspect`.
type inspectReport struct {
	File       string           `yaml:"file"`
	Header     modelfile.Header `yaml:"header"`
	Expected   string           `yaml:"expected_arch"`
	Compatible bool             `yaml:"compatible"`
	Problem    string           `yaml:"problem,omitempty"`
	LlamaBuilt bool             `yaml:"llama_built"`
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [PATH]",
		Short: "Print the weight file header as YAML",
		Long:  "Reads the container header of PATH (default: the configured model) and reports whether it can be served.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	target := cfg.Model
	if len(args) == 1 {
		target = args[0]
	}
	path, err := registry.Resolve(target)
	if err != nil {
		return err
	}
	rep := inspectReport{File: path, Expected: cfg.Arch, LlamaBuilt: llama.Built}
	if rep.Header, err = modelfile.Read(path); err != nil {
		return err
	}
	if _, err := modelfile.Check(path, cfg.Arch); err != nil {
		rep.Problem = err.Error()
	} else {
		rep.Compatible = true
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(rep)
}
