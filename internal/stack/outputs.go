package stack

import (
	threetier "github.com/jercatallo/aws-highly-available-three-tier-architecture"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/config"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/template"
	. "github.com/jercatallo/aws-highly-available-three-tier-architecture/intrinsics"
)

// addOutputs declares the template outputs, each exported under a
// stack-scoped name so dependent stacks can import them.
func addOutputs(b *template.Builder, cfg *config.Config) {
	outputs := []struct {
		name        string
		description string
		value       any
	}{
		{"VpcId", "VPC identifier", Ref{LogicalName: "Vpc"}},
		{"VpcCidr", "VPC CIDR block", cfg.Network.CidrBlock},
		{"LoadBalancerDNSName", "Public DNS name of the load balancer",
			GetAtt{LogicalName: "LoadBalancer", Attribute: "DNSName"}},
		{"LoadBalancerArn", "ARN of the load balancer",
			Ref{LogicalName: "LoadBalancer"}},
		{"PresentationAsgName", "Presentation tier auto-scaling group",
			Ref{LogicalName: "PresentationAutoScalingGroup"}},
		{"ApplicationAsgName", "Application tier auto-scaling group",
			Ref{LogicalName: "ApplicationAutoScalingGroup"}},
		{"DatabaseEndpointAddress", "Database endpoint hostname",
			GetAtt{LogicalName: "DatabaseInstance", Attribute: "Endpoint.Address"}},
		{"DatabaseEndpointPort", "Database endpoint port",
			GetAtt{LogicalName: "DatabaseInstance", Attribute: "Endpoint.Port"}},
		{"DatabaseSecretArn", "ARN of the master credential secret",
			Ref{LogicalName: "DatabaseSecret"}},
	}

	for _, out := range outputs {
		b.AddOutput(out.name, threetier.ExportedOutput(
			out.description,
			out.value,
			Sub{String: "${AWS::StackName}-" + out.name},
		))
	}
}
