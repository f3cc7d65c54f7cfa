// Package template assembles CloudFormation templates from typed resource structs.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	threetier "github.com/jercatallo/aws-highly-available-three-tier-architecture"
)

// Builder collects resources and outputs keyed by logical name and assembles
// them into a CloudFormation template. References between resources are
// expressed with Ref/Fn::GetAtt intrinsics; Build infers the dependency graph
// from them, rejects references to undeclared names, and reports cycles.
type Builder struct {
	description string
	resources   map[string]threetier.Resource
	dependsOn   map[string][]string
	outputs     map[string]threetier.Output
	deps        map[string][]string // populated by Build
}

// NewBuilder creates an empty template builder.
func NewBuilder(description string) *Builder {
	return &Builder{
		description: description,
		resources:   make(map[string]threetier.Resource),
		dependsOn:   make(map[string][]string),
		outputs:     make(map[string]threetier.Output),
	}
}

// Add registers a resource under its logical name.
// Duplicate logical names are an assembly error.
func (b *Builder) Add(name string, res threetier.Resource) error {
	if _, exists := b.resources[name]; exists {
		return fmt.Errorf("duplicate logical name: %s", name)
	}
	b.resources[name] = res
	return nil
}

// AddDependsOn registers a resource with an explicit DependsOn list, for
// orderings CloudFormation cannot infer from references (e.g., a route that
// needs the gateway attachment complete).
func (b *Builder) AddDependsOn(name string, res threetier.Resource, deps ...string) error {
	if err := b.Add(name, res); err != nil {
		return err
	}
	b.dependsOn[name] = deps
	return nil
}

// AddOutput registers a template output.
func (b *Builder) AddOutput(name string, out threetier.Output) {
	b.outputs[name] = out
}

// Len returns the number of registered resources.
func (b *Builder) Len() int {
	return len(b.resources)
}

// Names returns the registered logical names in sorted order.
func (b *Builder) Names() []string {
	names := make([]string, 0, len(b.resources))
	for name := range b.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dependencies returns the inferred dependency list for a logical name.
// Only valid after a successful Build.
func (b *Builder) Dependencies(name string) []string {
	return b.deps[name]
}

// Build assembles and validates the CloudFormation template.
func (b *Builder) Build() (*threetier.Template, error) {
	tmpl := &threetier.Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Description:              b.description,
		Resources:                make(map[string]threetier.ResourceDef, len(b.resources)),
	}

	b.deps = make(map[string][]string, len(b.resources))

	for _, name := range b.Names() {
		res := b.resources[name]

		props, err := serializeProperties(res)
		if err != nil {
			return nil, fmt.Errorf("serializing %s: %w", name, err)
		}

		refs := collectRefs(props)
		sort.Strings(refs)
		for _, ref := range refs {
			if strings.HasPrefix(ref, "AWS::") {
				continue // pseudo-parameter
			}
			if _, exists := b.resources[ref]; !exists {
				return nil, fmt.Errorf("%s references undeclared resource %s", name, ref)
			}
			b.deps[name] = append(b.deps[name], ref)
		}

		for _, dep := range b.dependsOn[name] {
			if _, exists := b.resources[dep]; !exists {
				return nil, fmt.Errorf("%s depends on undeclared resource %s", name, dep)
			}
			b.deps[name] = append(b.deps[name], dep)
		}

		tmpl.Resources[name] = threetier.ResourceDef{
			Type:       res.ResourceType(),
			Properties: props,
			DependsOn:  b.dependsOn[name],
		}
	}

	if _, err := b.topologicalSort(); err != nil {
		return nil, err
	}

	if len(b.outputs) > 0 {
		tmpl.Outputs = make(map[string]threetier.Output, len(b.outputs))
		for name, out := range b.outputs {
			tmpl.Outputs[name] = out
		}
	}

	return tmpl, nil
}

// serializeProperties converts a resource struct to CloudFormation properties
// via a JSON round trip, which also applies the intrinsic MarshalJSON hooks.
func serializeProperties(res threetier.Resource) (map[string]any, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}

	var props map[string]any
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// collectRefs walks serialized properties and gathers the logical names
// referenced through Ref and Fn::GetAtt intrinsics.
func collectRefs(value any) []string {
	seen := make(map[string]bool)
	walkRefs(value, seen)

	refs := make([]string, 0, len(seen))
	for name := range seen {
		refs = append(refs, name)
	}
	return refs
}

func walkRefs(value any, seen map[string]bool) {
	switch v := value.(type) {
	case map[string]any:
		if ref, ok := v["Ref"].(string); ok && len(v) == 1 {
			seen[ref] = true
			return
		}
		if att, ok := v["Fn::GetAtt"]; ok && len(v) == 1 {
			if parts, ok := att.([]any); ok && len(parts) == 2 {
				if name, ok := parts[0].(string); ok {
					seen[name] = true
				}
			}
			return
		}
		for _, val := range v {
			walkRefs(val, seen)
		}

	case []any:
		for _, elem := range v {
			walkRefs(elem, seen)
		}
	}
}

// topologicalSort returns resources in dependency order.
func (b *Builder) topologicalSort() ([]string, error) {
	graph := make(map[string][]string)
	inDegree := make(map[string]int)

	for name := range b.resources {
		graph[name] = nil
		inDegree[name] = 0
	}

	for name, deps := range b.deps {
		for _, dep := range deps {
			graph[dep] = append(graph[dep], name)
			inDegree[name]++
		}
	}

	// Kahn's algorithm with a sorted queue for deterministic order
	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range graph[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(b.resources) {
		return nil, b.detectCycle()
	}

	return result, nil
}

// detectCycle finds and reports a cycle in the dependency graph.
func (b *Builder) detectCycle() error {
	visited := make(map[string]bool)
	path := make(map[string]bool)

	var cycle []string
	var findCycle func(node string) bool
	findCycle = func(node string) bool {
		visited[node] = true
		path[node] = true

		for _, dep := range b.deps[node] {
			if !visited[dep] {
				if findCycle(dep) {
					cycle = append([]string{node}, cycle...)
					return true
				}
			} else if path[dep] {
				cycle = append([]string{dep, node}, cycle...)
				return true
			}
		}

		path[node] = false
		return false
	}

	for _, name := range b.Names() {
		if !visited[name] {
			if findCycle(name) {
				break
			}
		}
	}

	if len(cycle) > 0 {
		msg := "circular dependency detected:\n"
		for i, name := range cycle {
			msg += "  " + name
			if i < len(cycle)-1 {
				msg += "\n    → "
			}
		}
		return errors.New(msg)
	}

	return errors.New("circular dependency detected")
}

// ToJSON serializes the template to JSON.
func ToJSON(t *threetier.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *threetier.Template) ([]byte, error) {
	return yaml.Marshal(t)
}
