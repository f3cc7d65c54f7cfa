package stack

import (
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/config"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/policy"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/template"
	. "github.com/jercatallo/aws-highly-available-three-tier-architecture/intrinsics"
	elbv2 "github.com/jercatallo/aws-highly-available-three-tier-architecture/resources/elasticloadbalancingv2"
)

// Health-check settings applied to the presentation target group.
const (
	healthCheckPath     = "/health"
	healthCheckInterval = 30
	healthCheckTimeout  = 5
	healthyThreshold    = 2
	unhealthyThreshold  = 3
)

// addLoadBalancer declares the internet-facing edge: the application load
// balancer in the public subnets, the presentation target group, and the
// HTTP listener forwarding into it.
func addLoadBalancer(b *template.Builder, cfg *config.Config) error {
	var name any
	if cfg.Names.LoadBalancer != "" {
		name = cfg.Names.LoadBalancer
	}

	if err := b.Add("LoadBalancer", elbv2.LoadBalancer{
		Name:           name,
		Type:           "application",
		Scheme:         "internet-facing",
		IpAddressType:  "ipv4",
		Subnets:        subnetRefs(policy.SubnetPublic, cfg.Network.AzCount),
		SecurityGroups: []any{GetAtt{LogicalName: securityGroupNames[TierEdge], Attribute: "GroupId"}},
		LoadBalancerAttributes: []elbv2.LoadBalancer_Attribute{
			{Key: "idle_timeout.timeout_seconds", Value: "60"},
		},
		Tags: resourceTags(cfg, "alb"),
	}); err != nil {
		return err
	}

	if err := b.Add("PresentationTargetGroup", elbv2.TargetGroup{
		VpcId:                      Ref{LogicalName: "Vpc"},
		Port:                       cfg.Presentation.Port,
		Protocol:                   "HTTP",
		TargetType:                 "instance",
		HealthCheckPath:            healthCheckPath,
		HealthCheckProtocol:        "HTTP",
		HealthCheckIntervalSeconds: healthCheckInterval,
		HealthCheckTimeoutSeconds:  healthCheckTimeout,
		HealthyThresholdCount:      healthyThreshold,
		UnhealthyThresholdCount:    unhealthyThreshold,
		Matcher:                    &elbv2.TargetGroup_Matcher{HttpCode: "200-299"},
		TargetGroupAttributes: []elbv2.TargetGroup_Attribute{
			{Key: "deregistration_delay.timeout_seconds", Value: "30"},
		},
		Tags: resourceTags(cfg, "presentation-tg"),
	}); err != nil {
		return err
	}

	return b.Add("HttpListener", elbv2.Listener{
		LoadBalancerArn: Ref{LogicalName: "LoadBalancer"},
		Port:            ListenerPort,
		Protocol:        "HTTP",
		DefaultActions: []elbv2.Listener_Action{
			{Type: "forward", TargetGroupArn: Ref{LogicalName: "PresentationTargetGroup"}},
		},
	})
}
