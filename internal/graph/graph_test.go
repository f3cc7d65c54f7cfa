package graph

import (
	"strings"
	"testing"

	threetier "github.com/jercatallo/aws-highly-available-three-tier-architecture"
)

func testTemplate() *threetier.Template {
	return &threetier.Template{
		Resources: map[string]threetier.ResourceDef{
			"Vpc": {Type: "AWS::EC2::VPC"},
			"PublicSubnet1": {
				Type: "AWS::EC2::Subnet",
				Properties: map[string]any{
					"VpcId": map[string]any{"Ref": "Vpc"},
				},
			},
			"NatGateway1": {
				Type: "AWS::EC2::NatGateway",
				Properties: map[string]any{
					"AllocationId": map[string]any{"Fn::GetAtt": []any{"NatEip1", "AllocationId"}},
					"SubnetId":     map[string]any{"Ref": "PublicSubnet1"},
				},
			},
			"NatEip1": {Type: "AWS::EC2::EIP"},
		},
	}
}

func TestGenerator_Generate_DOT(t *testing.T) {
	gen := &Generator{}
	output, err := gen.GenerateString(testTemplate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(output, "digraph") {
		t.Error("expected digraph declaration")
	}
	for _, node := range []string{"Vpc", "PublicSubnet1", "NatGateway1", "NatEip1"} {
		if !strings.Contains(output, node) {
			t.Errorf("expected %s node", node)
		}
	}
	// GetAtt edges are styled.
	if !strings.Contains(output, "blue") {
		t.Error("expected blue GetAtt edge")
	}
}

func TestGenerator_Generate_Mermaid(t *testing.T) {
	gen := &Generator{Format: FormatMermaid}
	output, err := gen.GenerateString(testTemplate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mermaid renders as a flowchart or graph declaration.
	if !strings.Contains(output, "graph") && !strings.Contains(output, "flowchart") {
		t.Errorf("expected mermaid graph/flowchart, got:\n%s", output)
	}
	if strings.Contains(output, "digraph") {
		t.Error("mermaid output should not contain DOT syntax")
	}
}

func TestGenerator_Generate_Clustered(t *testing.T) {
	gen := &Generator{ClusterByService: true}
	output, err := gen.GenerateString(testTemplate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(output, "cluster_EC2") {
		t.Error("expected EC2 cluster")
	}
}

func TestGenerator_SkipsDanglingReferences(t *testing.T) {
	tmpl := &threetier.Template{
		Resources: map[string]threetier.ResourceDef{
			"Subnet": {
				Type: "AWS::EC2::Subnet",
				Properties: map[string]any{
					"VpcId": map[string]any{"Fn::ImportValue": "shared-vpc"},
					"Tags": []any{
						map[string]any{"Key": "Name", "Value": map[string]any{"Ref": "AWS::StackName"}},
					},
				},
			},
		},
	}

	gen := &Generator{}
	output, err := gen.GenerateString(tmpl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(output, "AWS::StackName") {
		t.Error("pseudo-parameters should not become nodes")
	}
}

func TestExtractService(t *testing.T) {
	if got := extractService("AWS::EC2::VPC"); got != "EC2" {
		t.Errorf("extractService = %q, want EC2", got)
	}
	if got := extractService("Custom"); got != "Other" {
		t.Errorf("extractService = %q, want Other", got)
	}
}
