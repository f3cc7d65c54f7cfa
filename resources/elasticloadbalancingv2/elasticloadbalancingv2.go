// Package elasticloadbalancingv2 provides Go types for
// AWS::ElasticLoadBalancingV2 CloudFormation resources.
package elasticloadbalancingv2

// LoadBalancer represents AWS::ElasticLoadBalancingV2::LoadBalancer.
type LoadBalancer struct {
	Name                   any                          `json:"Name,omitempty"`
	Type                   any                          `json:"Type,omitempty"`
	Scheme                 any                          `json:"Scheme,omitempty"`
	IpAddressType          any                          `json:"IpAddressType,omitempty"`
	Subnets                []any                        `json:"Subnets,omitempty"`
	SecurityGroups         []any                        `json:"SecurityGroups,omitempty"`
	LoadBalancerAttributes []LoadBalancer_Attribute     `json:"LoadBalancerAttributes,omitempty"`
	Tags                   []any                        `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (LoadBalancer) ResourceType() string { return "AWS::ElasticLoadBalancingV2::LoadBalancer" }

// LoadBalancer_Attribute is a single load balancer attribute.
type LoadBalancer_Attribute struct {
	Key   any `json:"Key,omitempty"`
	Value any `json:"Value,omitempty"`
}

// TargetGroup represents AWS::ElasticLoadBalancingV2::TargetGroup.
type TargetGroup struct {
	Name                       any                     `json:"Name,omitempty"`
	VpcId                      any                     `json:"VpcId,omitempty"`
	Port                       int                     `json:"Port,omitempty"`
	Protocol                   any                     `json:"Protocol,omitempty"`
	TargetType                 any                     `json:"TargetType,omitempty"`
	HealthCheckPath            any                     `json:"HealthCheckPath,omitempty"`
	HealthCheckProtocol        any                     `json:"HealthCheckProtocol,omitempty"`
	HealthCheckIntervalSeconds int                     `json:"HealthCheckIntervalSeconds,omitempty"`
	HealthCheckTimeoutSeconds  int                     `json:"HealthCheckTimeoutSeconds,omitempty"`
	HealthyThresholdCount      int                     `json:"HealthyThresholdCount,omitempty"`
	UnhealthyThresholdCount    int                     `json:"UnhealthyThresholdCount,omitempty"`
	Matcher                    *TargetGroup_Matcher    `json:"Matcher,omitempty"`
	TargetGroupAttributes      []TargetGroup_Attribute `json:"TargetGroupAttributes,omitempty"`
	Tags                       []any                   `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (TargetGroup) ResourceType() string { return "AWS::ElasticLoadBalancingV2::TargetGroup" }

// TargetGroup_Matcher is the HTTP code matcher for health checks.
type TargetGroup_Matcher struct {
	HttpCode any `json:"HttpCode,omitempty"`
}

// TargetGroup_Attribute is a single target group attribute.
type TargetGroup_Attribute struct {
	Key   any `json:"Key,omitempty"`
	Value any `json:"Value,omitempty"`
}

// Listener represents AWS::ElasticLoadBalancingV2::Listener.
type Listener struct {
	LoadBalancerArn any               `json:"LoadBalancerArn,omitempty"`
	Port            int               `json:"Port,omitempty"`
	Protocol        any               `json:"Protocol,omitempty"`
	DefaultActions  []Listener_Action `json:"DefaultActions,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (Listener) ResourceType() string { return "AWS::ElasticLoadBalancingV2::Listener" }

// Listener_Action is a listener default action.
type Listener_Action struct {
	Type           any `json:"Type,omitempty"`
	TargetGroupArn any `json:"TargetGroupArn,omitempty"`
}
