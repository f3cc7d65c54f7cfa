package stack

import (
	"fmt"
	"net"

	gocidr "github.com/apparentlymart/go-cidr/cidr"

	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/config"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/policy"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/template"
	. "github.com/jercatallo/aws-highly-available-three-tier-architecture/intrinsics"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/resources/ec2"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/resources/iam"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/resources/logs"
)

// subnetName returns the logical name of the i-th subnet of a tier (1-based).
func subnetName(tier policy.SubnetTier, i int) string {
	switch tier {
	case policy.SubnetPublic:
		return fmt.Sprintf("PublicSubnet%d", i)
	case policy.SubnetPrivate:
		return fmt.Sprintf("PrivateSubnet%d", i)
	default:
		return fmt.Sprintf("IsolatedSubnet%d", i)
	}
}

// subnetNames returns the logical names of all subnets of a tier.
func subnetNames(tier policy.SubnetTier, azCount int) []string {
	names := make([]string, azCount)
	for i := range names {
		names[i] = subnetName(tier, i+1)
	}
	return names
}

// subnetRefs returns Refs to all subnets of a tier.
func subnetRefs(tier policy.SubnetTier, azCount int) []any {
	refs := make([]any, azCount)
	for i, name := range subnetNames(tier, azCount) {
		refs[i] = Ref{LogicalName: name}
	}
	return refs
}

// subnetCidrs carves one CIDR block per subnet out of the VPC block.
// Tiers are laid out contiguously: public, then private, then isolated,
// azCount blocks each.
func subnetCidrs(cfg *config.NetworkConfig) (map[policy.SubnetTier][]string, error) {
	_, vpcNet, err := net.ParseCIDR(cfg.CidrBlock)
	if err != nil {
		return nil, fmt.Errorf("network.cidrBlock: %w", err)
	}

	cidrs := make(map[policy.SubnetTier][]string, len(policy.SubnetTiers))
	index := 0
	for _, tier := range policy.SubnetTiers {
		for az := 0; az < cfg.AzCount; az++ {
			block, err := gocidr.Subnet(vpcNet, cfg.SubnetNewBits, index)
			if err != nil {
				return nil, fmt.Errorf("carving subnet %d from %s: %w", index, cfg.CidrBlock, err)
			}
			cidrs[tier] = append(cidrs[tier], block.String())
			index++
		}
	}

	return cidrs, nil
}

// addNetwork declares the VPC, three subnet tiers across all availability
// zones, internet and NAT egress, route tables, and traffic-flow logging.
func addNetwork(b *template.Builder, cfg *config.Config) error {
	net := &cfg.Network

	if err := b.Add("Vpc", ec2.VPC{
		CidrBlock:          net.CidrBlock,
		EnableDnsHostnames: true,
		EnableDnsSupport:   true,
		InstanceTenancy:    "default",
		Tags:               resourceTags(cfg, "vpc"),
	}); err != nil {
		return err
	}

	if err := b.Add("InternetGateway", ec2.InternetGateway{
		Tags: resourceTags(cfg, "igw"),
	}); err != nil {
		return err
	}
	if err := b.Add("GatewayAttachment", ec2.VPCGatewayAttachment{
		VpcId:             Ref{LogicalName: "Vpc"},
		InternetGatewayId: Ref{LogicalName: "InternetGateway"},
	}); err != nil {
		return err
	}

	cidrs, err := subnetCidrs(net)
	if err != nil {
		return err
	}

	// Every subnet tier is represented in every availability zone.
	for _, tier := range policy.SubnetTiers {
		for az := 0; az < net.AzCount; az++ {
			name := subnetName(tier, az+1)
			if err := b.Add(name, ec2.Subnet{
				VpcId:               Ref{LogicalName: "Vpc"},
				CidrBlock:           cidrs[tier][az],
				AvailabilityZone:    Select{Index: az, List: GetAZs{}},
				MapPublicIpOnLaunch: tier == policy.SubnetPublic,
				Tags:                resourceTags(cfg, fmt.Sprintf("%s-%d", tier, az+1)),
			}); err != nil {
				return err
			}
		}
	}

	// One NAT gateway per zone so a zone outage cannot strand the private
	// subnets of the surviving zones.
	for az := 1; az <= net.AzCount; az++ {
		eip := fmt.Sprintf("NatEip%d", az)
		nat := fmt.Sprintf("NatGateway%d", az)

		if err := b.Add(eip, ec2.EIP{
			Domain: "vpc",
			Tags:   resourceTags(cfg, fmt.Sprintf("nat-eip-%d", az)),
		}); err != nil {
			return err
		}
		if err := b.Add(nat, ec2.NatGateway{
			AllocationId: GetAtt{LogicalName: eip, Attribute: "AllocationId"},
			SubnetId:     Ref{LogicalName: subnetName(policy.SubnetPublic, az)},
			Tags:         resourceTags(cfg, fmt.Sprintf("nat-%d", az)),
		}); err != nil {
			return err
		}
	}

	if err := addRouting(b, cfg); err != nil {
		return err
	}

	if net.FlowLogs.Enabled {
		if err := addFlowLogs(b, cfg); err != nil {
			return err
		}
	}

	return nil
}

// addRouting declares the route tables: one shared public table routing
// through the internet gateway, one private table per zone routing through
// that zone's NAT gateway, and one isolated table with no routes at all.
func addRouting(b *template.Builder, cfg *config.Config) error {
	azCount := cfg.Network.AzCount

	if err := b.Add("PublicRouteTable", ec2.RouteTable{
		VpcId: Ref{LogicalName: "Vpc"},
		Tags:  resourceTags(cfg, "public-rt"),
	}); err != nil {
		return err
	}
	if err := b.AddDependsOn("PublicRoute", ec2.Route{
		RouteTableId:         Ref{LogicalName: "PublicRouteTable"},
		DestinationCidrBlock: policy.InternetCidr,
		GatewayId:            Ref{LogicalName: "InternetGateway"},
	}, "GatewayAttachment"); err != nil {
		return err
	}

	for az := 1; az <= azCount; az++ {
		assoc := fmt.Sprintf("PublicSubnet%dRouteTableAssociation", az)
		if err := b.Add(assoc, ec2.SubnetRouteTableAssociation{
			SubnetId:     Ref{LogicalName: subnetName(policy.SubnetPublic, az)},
			RouteTableId: Ref{LogicalName: "PublicRouteTable"},
		}); err != nil {
			return err
		}

		rt := fmt.Sprintf("PrivateRouteTable%d", az)
		if err := b.Add(rt, ec2.RouteTable{
			VpcId: Ref{LogicalName: "Vpc"},
			Tags:  resourceTags(cfg, fmt.Sprintf("private-rt-%d", az)),
		}); err != nil {
			return err
		}
		if err := b.Add(fmt.Sprintf("PrivateRoute%d", az), ec2.Route{
			RouteTableId:         Ref{LogicalName: rt},
			DestinationCidrBlock: policy.InternetCidr,
			NatGatewayId:         Ref{LogicalName: fmt.Sprintf("NatGateway%d", az)},
		}); err != nil {
			return err
		}
		if err := b.Add(fmt.Sprintf("PrivateSubnet%dRouteTableAssociation", az), ec2.SubnetRouteTableAssociation{
			SubnetId:     Ref{LogicalName: subnetName(policy.SubnetPrivate, az)},
			RouteTableId: Ref{LogicalName: rt},
		}); err != nil {
			return err
		}
	}

	// Isolated subnets get a dedicated table with only the implicit local
	// route, so nothing can add an internet path to the data tier by
	// touching a shared table.
	if err := b.Add("IsolatedRouteTable", ec2.RouteTable{
		VpcId: Ref{LogicalName: "Vpc"},
		Tags:  resourceTags(cfg, "isolated-rt"),
	}); err != nil {
		return err
	}
	for az := 1; az <= azCount; az++ {
		if err := b.Add(fmt.Sprintf("IsolatedSubnet%dRouteTableAssociation", az), ec2.SubnetRouteTableAssociation{
			SubnetId:     Ref{LogicalName: subnetName(policy.SubnetIsolated, az)},
			RouteTableId: Ref{LogicalName: "IsolatedRouteTable"},
		}); err != nil {
			return err
		}
	}

	return nil
}

// addFlowLogs declares the VPC flow log, its log group, and the delivery role.
func addFlowLogs(b *template.Builder, cfg *config.Config) error {
	if err := b.Add("FlowLogGroup", logs.LogGroup{
		LogGroupName:    Sub{String: "/vpc/${AWS::StackName}/flow-logs"},
		RetentionInDays: cfg.Network.FlowLogs.RetentionDays,
	}); err != nil {
		return err
	}

	if err := b.Add("FlowLogRole", iam.Role{
		AssumeRolePolicyDocument: NewPolicyDocument(PolicyStatement{
			Effect:    "Allow",
			Principal: ServicePrincipal{"vpc-flow-logs.amazonaws.com"},
			Action:    "sts:AssumeRole",
		}),
		Policies: []iam.Role_Policy{
			{
				PolicyName: "flow-log-delivery",
				PolicyDocument: NewPolicyDocument(PolicyStatement{
					Effect: "Allow",
					Action: []any{
						"logs:CreateLogStream",
						"logs:PutLogEvents",
						"logs:DescribeLogGroups",
						"logs:DescribeLogStreams",
					},
					Resource: GetAtt{LogicalName: "FlowLogGroup", Attribute: "Arn"},
				}),
			},
		},
		Tags: resourceTags(cfg, "flow-log-role"),
	}); err != nil {
		return err
	}

	return b.Add("VpcFlowLog", ec2.FlowLog{
		ResourceId:               Ref{LogicalName: "Vpc"},
		ResourceType_:            "VPC",
		TrafficType:              "ALL",
		LogDestinationType:       "cloud-watch-logs",
		LogGroupName:             Ref{LogicalName: "FlowLogGroup"},
		DeliverLogsPermissionArn: GetAtt{LogicalName: "FlowLogRole", Attribute: "Arn"},
		Tags:                     resourceTags(cfg, "flow-log"),
	})
}
