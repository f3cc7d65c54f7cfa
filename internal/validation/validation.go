// Package validation lints synthesized CloudFormation templates.
//
// cfn-lint-go is used as a library dependency for guaranteed version control;
// templates pass validation when the linter reports no errors (warnings are
// acceptable).
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lex00/cfn-lint-go/pkg/lint"

	threetier "github.com/jercatallo/aws-highly-available-three-tier-architecture"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/template"
)

// Result contains the outcome of linting one template.
type Result struct {
	Passed        bool     `json:"passed"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	Informational []string `json:"informational"`
}

// TotalIssues returns the total number of issues found.
func (r Result) TotalIssues() int {
	return len(r.Errors) + len(r.Warnings) + len(r.Informational)
}

// LintFile lints a template file on disk.
func LintFile(path string) (*Result, error) {
	if _, err := os.Stat(path); err != nil {
		return &Result{
			Passed: false,
			Errors: []string{fmt.Sprintf("template file not found: %s", path)},
		}, nil
	}

	linter := lint.New(lint.Options{})
	matches, err := linter.LintFile(path)
	if err != nil {
		return &Result{
			Passed: false,
			Errors: []string{fmt.Sprintf("linter error: %v", err)},
		}, nil
	}

	result := &Result{
		Errors:        []string{},
		Warnings:      []string{},
		Informational: []string{},
	}

	for _, match := range matches {
		formatted := formatMatch(match)
		switch match.Level {
		case "Error":
			result.Errors = append(result.Errors, formatted)
		case "Warning":
			result.Warnings = append(result.Warnings, formatted)
		default:
			result.Informational = append(result.Informational, formatted)
		}
	}

	result.Passed = len(result.Errors) == 0
	return result, nil
}

// LintTemplate lints an in-memory template by writing it to a temporary file,
// since the linter operates on paths.
func LintTemplate(tmpl *threetier.Template) (*Result, error) {
	data, err := template.ToJSON(tmpl)
	if err != nil {
		return nil, fmt.Errorf("serializing template: %w", err)
	}

	dir, err := os.MkdirTemp("", "threetier-lint")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "template.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}

	return LintFile(path)
}

// formatMatch formats a cfn-lint-go match for display.
func formatMatch(match lint.Match) string {
	pathStr := ""
	if len(match.Location.Path) > 0 {
		parts := make([]string, len(match.Location.Path))
		for i, p := range match.Location.Path {
			parts[i] = fmt.Sprintf("%v", p)
		}
		pathStr = strings.Join(parts, "/")
	}

	if pathStr != "" {
		return fmt.Sprintf("%s: %s (at %s)", match.Rule.ID, match.Message, pathStr)
	}
	return fmt.Sprintf("%s: %s", match.Rule.ID, match.Message)
}
