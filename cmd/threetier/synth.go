package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	threetier "github.com/jercatallo/aws-highly-available-three-tier-architecture"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/stack"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/template"
)

func newSynthCmd() *cobra.Command {
	var (
		flags        configFlags
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Synthesize the CloudFormation template",
		Long: `Synth loads the environment configuration document and emits the full
CloudFormation template.

Examples:
    threetier synth
    APP_ENV=prod threetier synth --format yaml
    threetier synth -c configs/dev.json -o template.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(flags, outputFormat, outputFile)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runSynth(flags configFlags, format, outputFile string) error {
	cfg, path, err := flags.load()
	if err != nil {
		return err
	}

	tmpl, err := stack.Synthesize(cfg)
	if err != nil {
		return fmt.Errorf("synthesizing %s: %w", path, err)
	}

	return writeTemplate(tmpl, format, outputFile)
}

func writeTemplate(tmpl *threetier.Template, format, outputFile string) error {
	var data []byte
	var err error

	switch format {
	case "json":
		data, err = template.ToJSON(tmpl)
	case "yaml":
		data, err = template.ToYAML(tmpl)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}

	if outputFile == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(outputFile, data, 0o644)
}
