package stack

import (
	"fmt"

	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/config"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/policy"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/template"
	. "github.com/jercatallo/aws-highly-available-three-tier-architecture/intrinsics"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/resources/ec2"
)

// tierTitles gives each tier its logical-name prefix.
var tierTitles = map[string]string{
	TierEdge:         "Edge",
	TierPresentation: "Presentation",
	TierApplication:  "Application",
	TierData:         "Database",
}

// disallowAllEgress overrides the group's implicit allow-all egress rule.
// Real egress is declared through standalone SecurityGroupEgress resources,
// which avoids the reference cycle between adjacent tier groups.
var disallowAllEgress = ec2.SecurityGroup_Egress{
	Description: "Disallow all traffic",
	IpProtocol:  "icmp",
	FromPort:    252,
	ToPort:      86,
	CidrIp:      "255.255.255.255/32",
}

// addPerimeter declares the per-tier security groups and the per-subnet-tier
// network ACLs derived from the chain.
func addPerimeter(b *template.Builder, cfg *config.Config, chain *policy.Chain) error {
	groups, err := chain.Groups(policy.InternetCidr)
	if err != nil {
		return err
	}

	for _, g := range groups {
		if err := addSecurityGroup(b, cfg, g); err != nil {
			return err
		}
	}
	for _, g := range groups {
		if err := addStandaloneEgress(b, g); err != nil {
			return err
		}
	}

	return addNetworkAcls(b, cfg, chain)
}

func addSecurityGroup(b *template.Builder, cfg *config.Config, g policy.GroupSpec) error {
	sg := ec2.SecurityGroup{
		GroupDescription: fmt.Sprintf("%s tier security group", tierTitles[g.Tier]),
		VpcId:            Ref{LogicalName: "Vpc"},
		SecurityGroupEgress: []any{
			disallowAllEgress,
		},
		Tags: resourceTags(cfg, g.Tier+"-sg"),
	}

	for _, rule := range g.Ingress {
		in := ec2.SecurityGroup_Ingress{
			Description: rule.Description,
			IpProtocol:  rule.Protocol,
			FromPort:    rule.Port,
			ToPort:      rule.Port,
		}
		if rule.PeerTier != "" {
			in.SourceSecurityGroupId = GetAtt{
				LogicalName: securityGroupNames[rule.PeerTier],
				Attribute:   "GroupId",
			}
		} else {
			in.CidrIp = rule.PeerCidr
		}
		sg.SecurityGroupIngress = append(sg.SecurityGroupIngress, in)
	}

	return b.Add(securityGroupNames[g.Tier], sg)
}

// addStandaloneEgress declares the group's egress rules as separate resources.
// Runs after all groups exist so forward references resolve.
func addStandaloneEgress(b *template.Builder, g policy.GroupSpec) error {
	for _, rule := range g.Egress {
		out := ec2.SecurityGroupEgress{
			GroupId:     GetAtt{LogicalName: securityGroupNames[g.Tier], Attribute: "GroupId"},
			Description: rule.Description,
			IpProtocol:  rule.Protocol,
			FromPort:    rule.Port,
			ToPort:      rule.Port,
		}

		var name string
		if rule.PeerTier != "" {
			out.DestinationSecurityGroupId = GetAtt{
				LogicalName: securityGroupNames[rule.PeerTier],
				Attribute:   "GroupId",
			}
			name = fmt.Sprintf("%sTo%sEgress", tierTitles[g.Tier], tierTitles[rule.PeerTier])
		} else {
			out.CidrIp = rule.PeerCidr
			name = fmt.Sprintf("%sInternetEgress%d", tierTitles[g.Tier], rule.Port)
		}

		if err := b.Add(name, out); err != nil {
			return err
		}
	}
	return nil
}

// aclProtocol maps the policy protocol name to the numeric wire value.
func aclProtocol(p string) int {
	if p == "tcp" {
		return 6
	}
	return -1
}

// subnetTierTitles gives each subnet tier its logical-name prefix.
var subnetTierTitles = map[policy.SubnetTier]string{
	policy.SubnetPublic:   "Public",
	policy.SubnetPrivate:  "Private",
	policy.SubnetIsolated: "Isolated",
}

// addNetworkAcls declares one ACL per subnet tier with the chain's ordered
// stateless entry lists, and associates every subnet with its tier's ACL.
func addNetworkAcls(b *template.Builder, cfg *config.Config, chain *policy.Chain) error {
	cidrs, err := subnetCidrs(&cfg.Network)
	if err != nil {
		return err
	}

	rules, err := chain.SubnetRules(cfg.Network.CidrBlock, cidrs[policy.SubnetPrivate])
	if err != nil {
		return err
	}

	for _, tier := range policy.SubnetTiers {
		title := subnetTierTitles[tier]
		acl := title + "NetworkAcl"

		if err := b.Add(acl, ec2.NetworkAcl{
			VpcId: Ref{LogicalName: "Vpc"},
			Tags:  resourceTags(cfg, string(tier)+"-nacl"),
		}); err != nil {
			return err
		}

		for _, entry := range rules[tier] {
			direction := "Ingress"
			if entry.Egress {
				direction = "Egress"
			}
			name := fmt.Sprintf("%sAcl%s%d", title, direction, entry.RuleNumber)

			if err := b.Add(name, ec2.NetworkAclEntry{
				NetworkAclId: Ref{LogicalName: acl},
				RuleNumber:   entry.RuleNumber,
				Protocol:     aclProtocol(entry.Protocol),
				RuleAction:   entry.Action,
				Egress:       entry.Egress,
				CidrBlock:    entry.Cidr,
				PortRange: &ec2.NetworkAclEntry_PortRange{
					From: entry.PortFrom,
					To:   entry.PortTo,
				},
			}); err != nil {
				return err
			}
		}

		for az := 1; az <= cfg.Network.AzCount; az++ {
			name := fmt.Sprintf("%sNetworkAclAssociation", subnetName(tier, az))
			if err := b.Add(name, ec2.SubnetNetworkAclAssociation{
				SubnetId:     Ref{LogicalName: subnetName(tier, az)},
				NetworkAclId: Ref{LogicalName: acl},
			}); err != nil {
				return err
			}
		}
	}

	return nil
}
