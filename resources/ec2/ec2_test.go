package ec2

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	threetier "github.com/jercatallo/aws-highly-available-three-tier-architecture"
)

// TestResourceTypes verifies the EC2 types return correct CloudFormation types.
func TestResourceTypes(t *testing.T) {
	tests := []struct {
		name     string
		resource threetier.Resource
		expected string
	}{
		{"VPC", VPC{}, "AWS::EC2::VPC"},
		{"Subnet", Subnet{}, "AWS::EC2::Subnet"},
		{"InternetGateway", InternetGateway{}, "AWS::EC2::InternetGateway"},
		{"VPCGatewayAttachment", VPCGatewayAttachment{}, "AWS::EC2::VPCGatewayAttachment"},
		{"EIP", EIP{}, "AWS::EC2::EIP"},
		{"NatGateway", NatGateway{}, "AWS::EC2::NatGateway"},
		{"RouteTable", RouteTable{}, "AWS::EC2::RouteTable"},
		{"Route", Route{}, "AWS::EC2::Route"},
		{"SubnetRouteTableAssociation", SubnetRouteTableAssociation{}, "AWS::EC2::SubnetRouteTableAssociation"},
		{"SecurityGroup", SecurityGroup{}, "AWS::EC2::SecurityGroup"},
		{"SecurityGroupEgress", SecurityGroupEgress{}, "AWS::EC2::SecurityGroupEgress"},
		{"NetworkAcl", NetworkAcl{}, "AWS::EC2::NetworkAcl"},
		{"NetworkAclEntry", NetworkAclEntry{}, "AWS::EC2::NetworkAclEntry"},
		{"SubnetNetworkAclAssociation", SubnetNetworkAclAssociation{}, "AWS::EC2::SubnetNetworkAclAssociation"},
		{"FlowLog", FlowLog{}, "AWS::EC2::FlowLog"},
		{"LaunchTemplate", LaunchTemplate{}, "AWS::EC2::LaunchTemplate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.resource.ResourceType())
		})
	}
}

// TestSecurityGroupSerialization tests that a SecurityGroup with inline rules
// serializes to the CloudFormation property shape.
func TestSecurityGroupSerialization(t *testing.T) {
	sg := SecurityGroup{
		GroupDescription: "business tier",
		VpcId:            map[string]string{"Ref": "Vpc"},
		SecurityGroupIngress: []any{
			SecurityGroup_Ingress{
				Description:           "from presentation tier",
				IpProtocol:            "tcp",
				FromPort:              8080,
				ToPort:                8080,
				SourceSecurityGroupId: map[string][]string{"Fn::GetAtt": {"PresentationSecurityGroup", "GroupId"}},
			},
		},
	}

	data, err := json.Marshal(sg)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, "business tier", parsed["GroupDescription"])
	ingress := parsed["SecurityGroupIngress"].([]any)
	require.Len(t, ingress, 1)
	rule := ingress[0].(map[string]any)
	assert.Equal(t, float64(8080), rule["FromPort"])
	assert.NotContains(t, rule, "CidrIp")
}

// TestNetworkAclEntrySerialization verifies Protocol 0 survives serialization.
// Protocol has no omitempty tag: -1 (all) and 0 are both meaningful values.
func TestNetworkAclEntrySerialization(t *testing.T) {
	entry := NetworkAclEntry{
		RuleNumber: 100,
		Protocol:   6,
		RuleAction: "allow",
		CidrBlock:  "0.0.0.0/0",
		PortRange:  &NetworkAclEntry_PortRange{From: 443, To: 443},
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, float64(6), parsed["Protocol"])
	pr := parsed["PortRange"].(map[string]any)
	assert.Equal(t, float64(443), pr["From"])
}
