package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	threetier "github.com/jercatallo/aws-highly-available-three-tier-architecture"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/stack"
)

func newListCmd() *cobra.Command {
	var (
		flags      configFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the resources in the synthesized template",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(flags, jsonOutput)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")

	return cmd
}

func runList(flags configFlags, jsonOutput bool) error {
	cfg, path, err := flags.load()
	if err != nil {
		return err
	}

	tmpl, err := stack.Synthesize(cfg)
	if err != nil {
		return fmt.Errorf("synthesizing %s: %w", path, err)
	}

	result := threetier.ListResult{}
	for name, res := range tmpl.Resources {
		result.Resources = append(result.Resources, threetier.ListResource{
			Name: name,
			Type: res.Type,
		})
	}
	sort.Slice(result.Resources, func(i, j int) bool {
		return result.Resources[i].Name < result.Resources[j].Name
	})

	if jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for _, res := range result.Resources {
		fmt.Printf("%-45s %s\n", res.Name, res.Type)
	}
	fmt.Printf("\n%d resources\n", len(result.Resources))
	return nil
}
