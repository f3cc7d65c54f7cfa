// Package autoscaling provides Go types for AWS::AutoScaling CloudFormation resources.
package autoscaling

// AutoScalingGroup represents AWS::AutoScaling::AutoScalingGroup.
// Capacity fields are strings in CloudFormation; they accept intrinsics too.
type AutoScalingGroup struct {
	AutoScalingGroupName    any                               `json:"AutoScalingGroupName,omitempty"`
	MinSize                 any                               `json:"MinSize,omitempty"`
	MaxSize                 any                               `json:"MaxSize,omitempty"`
	DesiredCapacity         any                               `json:"DesiredCapacity,omitempty"`
	VPCZoneIdentifier       []any                             `json:"VPCZoneIdentifier,omitempty"`
	LaunchTemplate          *AutoScalingGroup_LaunchTemplate  `json:"LaunchTemplate,omitempty"`
	TargetGroupARNs         []any                             `json:"TargetGroupARNs,omitempty"`
	HealthCheckType         any                               `json:"HealthCheckType,omitempty"`
	HealthCheckGracePeriod  int                               `json:"HealthCheckGracePeriod,omitempty"`
	Cooldown                any                               `json:"Cooldown,omitempty"`
	MetricsCollection       []AutoScalingGroup_MetricsCollection `json:"MetricsCollection,omitempty"`
	Tags                    []AutoScalingGroup_TagProperty    `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (AutoScalingGroup) ResourceType() string { return "AWS::AutoScaling::AutoScalingGroup" }

// AutoScalingGroup_LaunchTemplate references a launch template and version.
type AutoScalingGroup_LaunchTemplate struct {
	LaunchTemplateId any `json:"LaunchTemplateId,omitempty"`
	Version          any `json:"Version,omitempty"`
}

// AutoScalingGroup_MetricsCollection enables group-level CloudWatch metrics.
type AutoScalingGroup_MetricsCollection struct {
	Granularity any   `json:"Granularity,omitempty"`
	Metrics     []any `json:"Metrics,omitempty"`
}

// AutoScalingGroup_TagProperty is an ASG tag; PropagateAtLaunch copies it to instances.
type AutoScalingGroup_TagProperty struct {
	Key               any  `json:"Key,omitempty"`
	Value             any  `json:"Value,omitempty"`
	PropagateAtLaunch bool `json:"PropagateAtLaunch"`
}

// ScalingPolicy represents AWS::AutoScaling::ScalingPolicy.
type ScalingPolicy struct {
	AutoScalingGroupName        any                                          `json:"AutoScalingGroupName,omitempty"`
	PolicyType                  any                                          `json:"PolicyType,omitempty"`
	TargetTrackingConfiguration *ScalingPolicy_TargetTrackingConfiguration   `json:"TargetTrackingConfiguration,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (ScalingPolicy) ResourceType() string { return "AWS::AutoScaling::ScalingPolicy" }

// ScalingPolicy_TargetTrackingConfiguration holds the target metric value.
type ScalingPolicy_TargetTrackingConfiguration struct {
	PredefinedMetricSpecification *ScalingPolicy_PredefinedMetricSpecification `json:"PredefinedMetricSpecification,omitempty"`
	TargetValue                   float64                                      `json:"TargetValue,omitempty"`
	DisableScaleIn                bool                                         `json:"DisableScaleIn,omitempty"`
}

// ScalingPolicy_PredefinedMetricSpecification names a predefined group metric.
type ScalingPolicy_PredefinedMetricSpecification struct {
	PredefinedMetricType any `json:"PredefinedMetricType,omitempty"`
}
