package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jercatallo/aws-highly-available-three-tier-architecture/intrinsics"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/resources/ec2"
)

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder("test stack")

	require.NoError(t, b.Add("Vpc", ec2.VPC{
		CidrBlock:        "10.0.0.0/16",
		EnableDnsSupport: true,
	}))
	require.NoError(t, b.Add("PublicSubnet1", ec2.Subnet{
		VpcId:     intrinsics.Ref{LogicalName: "Vpc"},
		CidrBlock: "10.0.0.0/24",
	}))

	tmpl, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "2010-09-09", tmpl.AWSTemplateFormatVersion)
	assert.Equal(t, "test stack", tmpl.Description)
	require.Len(t, tmpl.Resources, 2)
	assert.Equal(t, "AWS::EC2::VPC", tmpl.Resources["Vpc"].Type)
	assert.Equal(t, "10.0.0.0/16", tmpl.Resources["Vpc"].Properties["CidrBlock"])
	assert.Equal(t, []string{"Vpc"}, b.Dependencies("PublicSubnet1"))
}

func TestBuilder_DuplicateName(t *testing.T) {
	b := NewBuilder("test")
	require.NoError(t, b.Add("Vpc", ec2.VPC{}))

	err := b.Add("Vpc", ec2.VPC{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate logical name: Vpc")
}

func TestBuilder_UndeclaredReference(t *testing.T) {
	b := NewBuilder("test")
	require.NoError(t, b.Add("PublicSubnet1", ec2.Subnet{
		VpcId: intrinsics.Ref{LogicalName: "Vpc"},
	}))

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PublicSubnet1 references undeclared resource Vpc")
}

func TestBuilder_PseudoParameterReference(t *testing.T) {
	b := NewBuilder("test")
	require.NoError(t, b.Add("Vpc", ec2.VPC{
		Tags: []any{intrinsics.Tag{Key: "Name", Value: intrinsics.Ref{LogicalName: "AWS::StackName"}}},
	}))

	_, err := b.Build()
	require.NoError(t, err)
}

func TestBuilder_GetAttDependency(t *testing.T) {
	b := NewBuilder("test")
	require.NoError(t, b.Add("EdgeSecurityGroup", ec2.SecurityGroup{
		GroupDescription: "edge",
	}))
	require.NoError(t, b.Add("PresentationSecurityGroup", ec2.SecurityGroup{
		GroupDescription: "presentation",
		SecurityGroupIngress: []any{
			ec2.SecurityGroup_Ingress{
				IpProtocol:            "tcp",
				FromPort:              3000,
				ToPort:                3000,
				SourceSecurityGroupId: intrinsics.GetAtt{LogicalName: "EdgeSecurityGroup", Attribute: "GroupId"},
			},
		},
	}))

	_, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"EdgeSecurityGroup"}, b.Dependencies("PresentationSecurityGroup"))
}

func TestBuilder_ExplicitDependsOn(t *testing.T) {
	b := NewBuilder("test")
	require.NoError(t, b.Add("InternetGateway", ec2.InternetGateway{}))
	require.NoError(t, b.Add("GatewayAttachment", ec2.VPCGatewayAttachment{
		InternetGatewayId: intrinsics.Ref{LogicalName: "InternetGateway"},
	}))
	require.NoError(t, b.AddDependsOn("PublicRoute", ec2.Route{
		DestinationCidrBlock: "0.0.0.0/0",
		GatewayId:            intrinsics.Ref{LogicalName: "InternetGateway"},
	}, "GatewayAttachment"))

	tmpl, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"GatewayAttachment"}, tmpl.Resources["PublicRoute"].DependsOn)
}

func TestBuilder_CycleDetection(t *testing.T) {
	b := NewBuilder("test")
	require.NoError(t, b.AddDependsOn("A", ec2.VPC{}, "B"))
	require.NoError(t, b.AddDependsOn("B", ec2.VPC{}, "A"))

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular dependency detected")
	assert.Contains(t, err.Error(), "A")
	assert.Contains(t, err.Error(), "B")
}

func TestToJSON_Deterministic(t *testing.T) {
	build := func() []byte {
		b := NewBuilder("determinism")
		require.NoError(t, b.Add("Vpc", ec2.VPC{CidrBlock: "10.0.0.0/16"}))
		require.NoError(t, b.Add("PublicSubnet1", ec2.Subnet{
			VpcId:     intrinsics.Ref{LogicalName: "Vpc"},
			CidrBlock: "10.0.0.0/24",
		}))
		tmpl, err := b.Build()
		require.NoError(t, err)
		data, err := ToJSON(tmpl)
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, string(build()), string(build()))
}

func TestToYAML(t *testing.T) {
	b := NewBuilder("yaml output")
	require.NoError(t, b.Add("Vpc", ec2.VPC{CidrBlock: "10.0.0.0/16"}))

	tmpl, err := b.Build()
	require.NoError(t, err)

	data, err := ToYAML(tmpl)
	require.NoError(t, err)
	assert.Contains(t, string(data), "AWS::EC2::VPC")
}
