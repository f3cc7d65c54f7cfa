package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/differ"
)

func newDiffCmd() *cobra.Command {
	var (
		ignoreOrder bool
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Compare two CloudFormation template files",
		Long: `Diff compares two template files (JSON or YAML) resource by resource and
reports added, removed, and modified resources.

Examples:
    threetier diff deployed.json template.json
    threetier diff old.yaml new.yaml --ignore-order --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args[0], args[1], ignoreOrder, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&ignoreOrder, "ignore-order", false, "Ignore array element order in comparisons")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")

	return cmd
}

func runDiff(oldPath, newPath string, ignoreOrder, jsonOutput bool) error {
	result, err := differ.CompareFiles(oldPath, newPath, differ.Options{
		IgnoreOrder: ignoreOrder,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := json.MarshalIndent(struct {
			Diff    any `json:"diff"`
			Summary any `json:"summary"`
		}{result.Diff, result.Summary}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printDiff(result)
	return nil
}

func printDiff(result *differ.Result) {
	if result.Summary.Total == 0 {
		fmt.Println("No differences")
		return
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	for _, entry := range result.Diff.Added {
		green.Printf("+ %s (%s)\n", entry.Resource, entry.Type)
	}
	for _, entry := range result.Diff.Removed {
		red.Printf("- %s (%s)\n", entry.Resource, entry.Type)
	}
	for _, entry := range result.Diff.Modified {
		yellow.Printf("~ %s (%s)\n", entry.Resource, entry.Type)
		for _, change := range entry.Changes {
			fmt.Printf("    %s\n", change)
		}
	}

	fmt.Printf("\n%d added, %d removed, %d modified\n",
		result.Summary.Added, result.Summary.Removed, result.Summary.Modified)
}
