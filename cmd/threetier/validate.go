package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	threetier "github.com/jercatallo/aws-highly-available-three-tier-architecture"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/stack"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/validation"
)

func newValidateCmd() *cobra.Command {
	var (
		flags      configFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and lint the synthesized template",
		Long: `Validate loads the environment configuration document, synthesizes the
template, and runs cfn-lint against the result. Warnings are acceptable;
errors fail validation.

Examples:
    threetier validate
    APP_ENV=staging threetier validate --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(flags, jsonOutput)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")

	return cmd
}

func runValidate(flags configFlags, jsonOutput bool) error {
	cfg, path, err := flags.load()
	if err != nil {
		return err
	}

	tmpl, err := stack.Synthesize(cfg)
	if err != nil {
		return fmt.Errorf("synthesizing %s: %w", path, err)
	}

	lint, err := validation.LintTemplate(tmpl)
	if err != nil {
		return err
	}

	result := threetier.ValidateResult{
		Success:   lint.Passed,
		Resources: len(tmpl.Resources),
		Errors:    lint.Errors,
		Warnings:  lint.Warnings,
	}

	if jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		fmt.Printf("Configuration: %s\n", path)
		fmt.Printf("Resources:     %d\n", result.Resources)
		for _, e := range result.Errors {
			fmt.Printf("error: %s\n", e)
		}
		for _, w := range result.Warnings {
			fmt.Printf("warning: %s\n", w)
		}
	}

	if !result.Success {
		return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
	}
	if !jsonOutput {
		fmt.Println("Validation passed")
	}
	return nil
}
