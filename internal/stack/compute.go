package stack

import (
	"strconv"

	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/config"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/policy"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/template"
	. "github.com/jercatallo/aws-highly-available-three-tier-architecture/intrinsics"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/resources/autoscaling"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/resources/ec2"
)

// addComputeTier declares one auto-scaling tier: launch template, group, and
// CPU target-tracking policy. Instances live in the private subnets; only the
// presentation tier registers with the load balancer's target group.
func addComputeTier(b *template.Builder, cfg *config.Config, tier string, tc *config.TierConfig) error {
	title := tierTitles[tier]
	launchTemplate := title + "LaunchTemplate"
	group := title + "AutoScalingGroup"

	var keyName any
	if tc.KeyName != "" {
		keyName = tc.KeyName
	}

	if err := b.Add(launchTemplate, ec2.LaunchTemplate{
		LaunchTemplateName: Sub{String: "${AWS::StackName}-" + tier + "-lt"},
		LaunchTemplateData: &ec2.LaunchTemplate_LaunchTemplateData{
			ImageId:      tc.AmiId,
			InstanceType: tc.InstanceType,
			KeyName:      keyName,
			SecurityGroupIds: []any{
				GetAtt{LogicalName: securityGroupNames[tier], Attribute: "GroupId"},
			},
			UserData: Base64{Value: tc.UserData},
			BlockDeviceMappings: []ec2.LaunchTemplate_BlockDeviceMapping{
				{
					DeviceName: "/dev/xvda",
					Ebs: &ec2.LaunchTemplate_Ebs{
						VolumeSize:          tc.Volume.SizeGiB,
						VolumeType:          tc.Volume.Type,
						Encrypted:           *tc.Volume.Encrypted,
						DeleteOnTermination: true,
					},
				},
			},
			// IMDSv2 only.
			MetadataOptions: &ec2.LaunchTemplate_MetadataOptions{
				HttpTokens:              "required",
				HttpPutResponseHopLimit: 1,
			},
			Monitoring: &ec2.LaunchTemplate_Monitoring{Enabled: true},
			TagSpecifications: []ec2.LaunchTemplate_TagSpecification{
				{ResourceType_: "instance", Tags: resourceTags(cfg, tier)},
			},
		},
	}); err != nil {
		return err
	}

	var targetGroups []any
	if tier == TierPresentation {
		targetGroups = []any{Ref{LogicalName: "PresentationTargetGroup"}}
	}

	if err := b.Add(group, autoscaling.AutoScalingGroup{
		AutoScalingGroupName: asgName(cfg, tier),
		MinSize:              strconv.Itoa(tc.MinCapacity),
		MaxSize:              strconv.Itoa(tc.MaxCapacity),
		DesiredCapacity:      strconv.Itoa(tc.DesiredCapacity),
		VPCZoneIdentifier:    subnetRefs(policy.SubnetPrivate, cfg.Network.AzCount),
		LaunchTemplate: &autoscaling.AutoScalingGroup_LaunchTemplate{
			LaunchTemplateId: Ref{LogicalName: launchTemplate},
			Version:          GetAtt{LogicalName: launchTemplate, Attribute: "LatestVersionNumber"},
		},
		TargetGroupARNs:        targetGroups,
		HealthCheckType:        tc.HealthCheckType,
		HealthCheckGracePeriod: tc.HealthCheckGracePeriodSeconds,
		Cooldown:               strconv.Itoa(tc.CooldownSeconds),
		MetricsCollection: []autoscaling.AutoScalingGroup_MetricsCollection{
			{Granularity: "1Minute"},
		},
		Tags: asgTags(cfg, tier),
	}); err != nil {
		return err
	}

	return b.Add(title+"ScalingPolicy", autoscaling.ScalingPolicy{
		AutoScalingGroupName: Ref{LogicalName: group},
		PolicyType:           "TargetTrackingScaling",
		TargetTrackingConfiguration: &autoscaling.ScalingPolicy_TargetTrackingConfiguration{
			PredefinedMetricSpecification: &autoscaling.ScalingPolicy_PredefinedMetricSpecification{
				PredefinedMetricType: "ASGAverageCPUUtilization",
			},
			TargetValue: tc.TargetCpuUtilization,
		},
	})
}

// asgName resolves the group name, honoring the configured override.
func asgName(cfg *config.Config, tier string) any {
	override := map[string]string{
		TierPresentation: cfg.Names.PresentationAsg,
		TierApplication:  cfg.Names.ApplicationAsg,
	}[tier]
	if override != "" {
		return override
	}
	return Sub{String: "${AWS::StackName}-" + tier + "-asg"}
}

// asgTags mirrors resourceTags as ASG tag properties, propagated to launched
// instances.
func asgTags(cfg *config.Config, tier string) []autoscaling.AutoScalingGroup_TagProperty {
	var out []autoscaling.AutoScalingGroup_TagProperty
	for _, t := range resourceTags(cfg, tier) {
		tag := t.(Tag)
		out = append(out, autoscaling.AutoScalingGroup_TagProperty{
			Key:               tag.Key,
			Value:             tag.Value,
			PropagateAtLaunch: true,
		})
	}
	return out
}
