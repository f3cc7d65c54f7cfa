// Package graph renders template dependency graphs in DOT and Mermaid format.
//
// Edges are inferred from the template itself: every Ref and Fn::GetAtt in a
// resource's properties, plus its explicit DependsOn list, becomes an edge to
// the referenced resource. GetAtt edges are drawn in blue.
package graph

import (
	"io"
	"strings"

	"github.com/emicklei/dot"

	threetier "github.com/jercatallo/aws-highly-available-three-tier-architecture"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator renders dependency graphs from templates.
type Generator struct {
	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByService groups resources by AWS service (EC2, RDS, ...).
	ClusterByService bool
}

// Generate renders the template's dependency graph to w.
func (g *Generator) Generate(tmpl *threetier.Template, w io.Writer) error {
	graph := g.buildGraph(tmpl)

	format := g.Format
	if format == "" {
		format = FormatDOT
	}

	var output string
	if format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := w.Write([]byte(output))
	return err
}

// GenerateString renders the graph as a string.
func (g *Generator) GenerateString(tmpl *threetier.Template) (string, error) {
	var sb strings.Builder
	if err := g.Generate(tmpl, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) buildGraph(tmpl *threetier.Template) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})
	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	if g.ClusterByService {
		g.addClusteredNodes(graph, tmpl)
	} else {
		for name, res := range tmpl.Resources {
			graph.Node(name).Label(name + "\\n[" + res.Type + "]")
		}
	}

	for name, res := range tmpl.Resources {
		refs, getAtts := references(res)
		for _, dep := range refs {
			if _, exists := tmpl.Resources[dep]; !exists {
				continue
			}
			e := graph.Edge(graph.Node(name), graph.Node(dep))
			if getAtts[dep] {
				e.Attr("color", "blue")
			}
		}
	}

	return graph
}

// addClusteredNodes groups resources into one subgraph per AWS service.
func (g *Generator) addClusteredNodes(graph *dot.Graph, tmpl *threetier.Template) {
	byService := make(map[string][]string)
	for name, res := range tmpl.Resources {
		service := extractService(res.Type)
		byService[service] = append(byService[service], name)
	}

	for service, names := range byService {
		if len(names) < 2 {
			for _, name := range names {
				graph.Node(name).Label(name + "\\n[" + tmpl.Resources[name].Type + "]")
			}
			continue
		}

		cluster := graph.Subgraph("cluster_"+service, dot.ClusterOption{})
		cluster.Attr("label", service)
		cluster.Attr("style", "rounded")
		cluster.Attr("bgcolor", "lightyellow")
		for _, name := range names {
			cluster.Node(name).Label(name + "\\n[" + tmpl.Resources[name].Type + "]")
		}
	}
}

// references gathers the logical names a resource points at, and flags which
// of them are GetAtt references.
func references(res threetier.ResourceDef) ([]string, map[string]bool) {
	seen := make(map[string]bool)
	getAtts := make(map[string]bool)
	walk(res.Properties, seen, getAtts)

	for _, dep := range res.DependsOn {
		seen[dep] = true
	}

	refs := make([]string, 0, len(seen))
	for name := range seen {
		if strings.HasPrefix(name, "AWS::") {
			continue
		}
		refs = append(refs, name)
	}
	return refs, getAtts
}

func walk(value any, seen, getAtts map[string]bool) {
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
					getAtts[name] = true
				}
			}
			return
		}
		for _, val := range v {
			walk(val, seen, getAtts)
		}
	case []any:
		for _, elem := range v {
			walk(elem, seen, getAtts)
		}
	}
}

// extractService extracts the service segment from a CloudFormation type.
// e.g., "AWS::EC2::VPC" -> "EC2"
func extractService(cfType string) string {
	parts := strings.Split(cfType, "::")
	if len(parts) == 3 {
		return parts[1]
	}
	return "Other"
}
