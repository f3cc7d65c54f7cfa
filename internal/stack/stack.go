// Package stack synthesizes the three-tier architecture template from a
// validated configuration document.
//
// Synthesize is a pure function: the same Config always yields the same
// template. Components are assembled in dependency order (network, perimeter,
// load balancer, compute tiers, database, outputs), each wiring the previous
// component's logical names into its own declarations.
package stack

import (
	"fmt"
	"sort"

	threetier "github.com/jercatallo/aws-highly-available-three-tier-architecture"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/config"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/policy"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/template"
	. "github.com/jercatallo/aws-highly-available-three-tier-architecture/intrinsics"
)

// ListenerPort is the port the load balancer accepts internet traffic on.
const ListenerPort = 80

// Tier names used across components. The chain order is the only permitted
// call path: internet -> edge -> presentation -> application -> data.
const (
	TierEdge         = "edge"
	TierPresentation = "presentation"
	TierApplication  = "application"
	TierData         = "data"
)

// securityGroupNames maps tier names to security-group logical names.
var securityGroupNames = map[string]string{
	TierEdge:         "EdgeSecurityGroup",
	TierPresentation: "PresentationSecurityGroup",
	TierApplication:  "ApplicationSecurityGroup",
	TierData:         "DatabaseSecurityGroup",
}

// Synthesize derives the full CloudFormation template from cfg.
func Synthesize(cfg *config.Config) (*threetier.Template, error) {
	chain, err := tierChain(cfg)
	if err != nil {
		return nil, err
	}

	b := template.NewBuilder(fmt.Sprintf(
		"Highly available three-tier architecture (%s)", cfg.Environment))

	if err := addNetwork(b, cfg); err != nil {
		return nil, fmt.Errorf("network: %w", err)
	}
	if err := addPerimeter(b, cfg, chain); err != nil {
		return nil, fmt.Errorf("perimeter: %w", err)
	}
	if err := addLoadBalancer(b, cfg); err != nil {
		return nil, fmt.Errorf("load balancer: %w", err)
	}
	if err := addComputeTier(b, cfg, TierPresentation, &cfg.Presentation); err != nil {
		return nil, fmt.Errorf("presentation tier: %w", err)
	}
	if err := addComputeTier(b, cfg, TierApplication, &cfg.Application); err != nil {
		return nil, fmt.Errorf("application tier: %w", err)
	}
	if err := addDatabase(b, cfg); err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	addOutputs(b, cfg)

	return b.Build()
}

// tierChain builds the perimeter chain from the configured tier ports and
// grants the compute tiers HTTPS/HTTP internet egress for package retrieval.
func tierChain(cfg *config.Config) (*policy.Chain, error) {
	chain, err := policy.NewChain(
		policy.Tier{Name: TierEdge, Port: ListenerPort},
		policy.Tier{Name: TierPresentation, Port: cfg.Presentation.Port},
		policy.Tier{Name: TierApplication, Port: cfg.Application.Port},
		policy.Tier{Name: TierData, Port: cfg.Database.Port},
	)
	if err != nil {
		return nil, err
	}

	for _, tier := range []string{TierPresentation, TierApplication} {
		if err := chain.AllowInternetEgress(tier, 80, 443); err != nil {
			return nil, err
		}
	}

	return chain, nil
}

// nameTag derives the stack-scoped Name tag for a resource.
func nameTag(suffix string) Tag {
	return Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-" + suffix}}
}

// resourceTags returns the Name tag plus the configured tag map, sorted by
// key for deterministic output.
func resourceTags(cfg *config.Config, suffix string) []any {
	tags := []any{nameTag(suffix)}

	keys := make([]string, 0, len(cfg.Tags))
	for k := range cfg.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		tags = append(tags, Tag{Key: k, Value: cfg.Tags[k]})
	}
	return tags
}
