// Package differ provides semantic comparison of CloudFormation templates.
//
// Comparison is resource-level: a resource present in only one template is
// added or removed, and a resource present in both with differing type,
// properties, or DependsOn is modified, with one change string per property
// path.
package differ

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"

	threetier "github.com/jercatallo/aws-highly-available-three-tier-architecture"
)

// Options configures the comparison.
type Options struct {
	// IgnoreOrder ignores array element order when comparing property values.
	IgnoreOrder bool
}

// Result is a computed template difference with its summary counts.
type Result struct {
	Diff    threetier.TemplateDiff
	Summary threetier.DiffSummary
}

// Compare diffs two templates, treating old as the baseline.
func Compare(old, new *threetier.Template, opts Options) *Result {
	result := &Result{}

	for name, def := range new.Resources {
		if _, exists := old.Resources[name]; !exists {
			result.Diff.Added = append(result.Diff.Added, threetier.DiffEntry{
				Resource: name,
				Type:     def.Type,
			})
		}
	}

	for name, def := range old.Resources {
		if _, exists := new.Resources[name]; !exists {
			result.Diff.Removed = append(result.Diff.Removed, threetier.DiffEntry{
				Resource: name,
				Type:     def.Type,
			})
			continue
		}

		changes := compareResources(def, new.Resources[name], opts)
		if len(changes) > 0 {
			result.Diff.Modified = append(result.Diff.Modified, threetier.DiffEntry{
				Resource: name,
				Type:     def.Type,
				Changes:  changes,
			})
		}
	}

	sortEntries(result.Diff.Added)
	sortEntries(result.Diff.Removed)
	sortEntries(result.Diff.Modified)

	result.Summary = threetier.DiffSummary{
		Added:    len(result.Diff.Added),
		Removed:  len(result.Diff.Removed),
		Modified: len(result.Diff.Modified),
	}
	result.Summary.Total = result.Summary.Added + result.Summary.Removed + result.Summary.Modified

	return result
}

// CompareFiles diffs two template files.
func CompareFiles(oldPath, newPath string, opts Options) (*Result, error) {
	old, err := LoadTemplate(oldPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", oldPath, err)
	}

	new, err := LoadTemplate(newPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", newPath, err)
	}

	return Compare(old, new, opts), nil
}

// LoadTemplate reads a JSON or YAML template file.
func LoadTemplate(path string) (*threetier.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tmpl threetier.Template
	if err := json.Unmarshal(data, &tmpl); err != nil {
		if err := yaml.Unmarshal(data, &tmpl); err != nil {
			return nil, fmt.Errorf("parsing %s as JSON or YAML: %w", path, err)
		}
	}

	return &tmpl, nil
}

func compareResources(old, new threetier.ResourceDef, opts Options) []string {
	var changes []string

	if old.Type != new.Type {
		changes = append(changes, fmt.Sprintf("Type changed: %s to %s", old.Type, new.Type))
	}

	changes = append(changes, compareProperties("", old.Properties, new.Properties, opts)...)

	if !equalStringSlices(old.DependsOn, new.DependsOn) {
		changes = append(changes, "DependsOn changed")
	}

	return changes
}

// compareProperties walks both property maps and reports one change per
// top-level path: added, removed, or modified.
func compareProperties(prefix string, old, new map[string]any, opts Options) []string {
	var changes []string

	path := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + "." + key
	}

	for key, newVal := range new {
		oldVal, exists := old[key]
		if !exists {
			changes = append(changes, path(key)+" added")
			continue
		}
		if !valuesEqual(oldVal, newVal, opts) {
			changes = append(changes, path(key)+" modified")
		}
	}

	for key := range old {
		if _, exists := new[key]; !exists {
			changes = append(changes, path(key)+" removed")
		}
	}

	sort.Strings(changes)
	return changes
}

func valuesEqual(a, b any, opts Options) bool {
	if opts.IgnoreOrder {
		a = normalize(a)
		b = normalize(b)
	}
	return reflect.DeepEqual(a, b)
}

// normalize rewrites slices into a canonical order so IgnoreOrder comparisons
// are stable. Elements are ordered by their JSON encoding.
func normalize(v any) any {
	switch val := v.(type) {
	case []any:
		result := make([]any, len(val))
		for i, elem := range val {
			result[i] = normalize(elem)
		}
		sort.Slice(result, func(i, j int) bool {
			a, _ := json.Marshal(result[i])
			b, _ := json.Marshal(result[j])
			return string(a) < string(b)
		})
		return result
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, elem := range val {
			result[k] = normalize(elem)
		}
		return result
	default:
		return v
	}
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortEntries(entries []threetier.DiffEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Resource < entries[j].Resource
	})
}
