package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/graph"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/stack"
)

func newGraphCmd() *cobra.Command {
	var (
		flags      configFlags
		format     string
		cluster    bool
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the template dependency graph",
		Long: `Graph synthesizes the template and renders its dependency graph.

Examples:
    threetier graph | dot -Tpng -o graph.png
    threetier graph --format mermaid
    threetier graph --cluster -o graph.dot`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(flags, format, cluster, outputFile)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVar(&cluster, "cluster", false, "Group resources by AWS service")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGraph(flags configFlags, format string, cluster bool, outputFile string) error {
	switch graph.Format(format) {
	case graph.FormatDOT, graph.FormatMermaid:
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	cfg, path, err := flags.load()
	if err != nil {
		return err
	}

	tmpl, err := stack.Synthesize(cfg)
	if err != nil {
		return fmt.Errorf("synthesizing %s: %w", path, err)
	}

	gen := &graph.Generator{
		Format:           graph.Format(format),
		ClusterByService: cluster,
	}

	if outputFile == "" {
		return gen.Generate(tmpl, os.Stdout)
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()
	return gen.Generate(tmpl, f)
}
