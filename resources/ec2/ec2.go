// Package ec2 provides Go types for AWS::EC2 CloudFormation resources.
//
// Only the types consumed by the three-tier synthesizer are maintained here;
// fields that accept intrinsic functions or resource references are typed any.
package ec2

// VPC represents AWS::EC2::VPC.
type VPC struct {
	CidrBlock          any   `json:"CidrBlock,omitempty"`
	EnableDnsHostnames bool  `json:"EnableDnsHostnames,omitempty"`
	EnableDnsSupport   bool  `json:"EnableDnsSupport,omitempty"`
	InstanceTenancy    any   `json:"InstanceTenancy,omitempty"`
	Tags               []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (VPC) ResourceType() string { return "AWS::EC2::VPC" }

// Subnet represents AWS::EC2::Subnet.
type Subnet struct {
	VpcId               any   `json:"VpcId,omitempty"`
	CidrBlock           any   `json:"CidrBlock,omitempty"`
	AvailabilityZone    any   `json:"AvailabilityZone,omitempty"`
	MapPublicIpOnLaunch bool  `json:"MapPublicIpOnLaunch,omitempty"`
	Tags                []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (Subnet) ResourceType() string { return "AWS::EC2::Subnet" }

// InternetGateway represents AWS::EC2::InternetGateway.
type InternetGateway struct {
	Tags []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (InternetGateway) ResourceType() string { return "AWS::EC2::InternetGateway" }

// VPCGatewayAttachment represents AWS::EC2::VPCGatewayAttachment.
type VPCGatewayAttachment struct {
	VpcId             any `json:"VpcId,omitempty"`
	InternetGatewayId any `json:"InternetGatewayId,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (VPCGatewayAttachment) ResourceType() string { return "AWS::EC2::VPCGatewayAttachment" }

// EIP represents AWS::EC2::EIP.
type EIP struct {
	Domain any   `json:"Domain,omitempty"`
	Tags   []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (EIP) ResourceType() string { return "AWS::EC2::EIP" }

// NatGateway represents AWS::EC2::NatGateway.
type NatGateway struct {
	AllocationId any   `json:"AllocationId,omitempty"`
	SubnetId     any   `json:"SubnetId,omitempty"`
	Tags         []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (NatGateway) ResourceType() string { return "AWS::EC2::NatGateway" }

// RouteTable represents AWS::EC2::RouteTable.
type RouteTable struct {
	VpcId any   `json:"VpcId,omitempty"`
	Tags  []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (RouteTable) ResourceType() string { return "AWS::EC2::RouteTable" }

// Route represents AWS::EC2::Route.
type Route struct {
	RouteTableId         any `json:"RouteTableId,omitempty"`
	DestinationCidrBlock any `json:"DestinationCidrBlock,omitempty"`
	GatewayId            any `json:"GatewayId,omitempty"`
	NatGatewayId         any `json:"NatGatewayId,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (Route) ResourceType() string { return "AWS::EC2::Route" }

// SubnetRouteTableAssociation represents AWS::EC2::SubnetRouteTableAssociation.
type SubnetRouteTableAssociation struct {
	SubnetId     any `json:"SubnetId,omitempty"`
	RouteTableId any `json:"RouteTableId,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (SubnetRouteTableAssociation) ResourceType() string {
	return "AWS::EC2::SubnetRouteTableAssociation"
}

// SecurityGroup represents AWS::EC2::SecurityGroup.
type SecurityGroup struct {
	GroupDescription     any   `json:"GroupDescription,omitempty"`
	VpcId                any   `json:"VpcId,omitempty"`
	SecurityGroupIngress []any `json:"SecurityGroupIngress,omitempty"`
	SecurityGroupEgress  []any `json:"SecurityGroupEgress,omitempty"`
	Tags                 []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (SecurityGroup) ResourceType() string { return "AWS::EC2::SecurityGroup" }

// SecurityGroup_Ingress is an inline ingress rule on a SecurityGroup.
type SecurityGroup_Ingress struct {
	Description           any `json:"Description,omitempty"`
	IpProtocol            any `json:"IpProtocol,omitempty"`
	FromPort              int `json:"FromPort,omitempty"`
	ToPort                int `json:"ToPort,omitempty"`
	CidrIp                any `json:"CidrIp,omitempty"`
	SourceSecurityGroupId any `json:"SourceSecurityGroupId,omitempty"`
}

// SecurityGroup_Egress is an inline egress rule on a SecurityGroup.
type SecurityGroup_Egress struct {
	Description                any `json:"Description,omitempty"`
	IpProtocol                 any `json:"IpProtocol,omitempty"`
	FromPort                   int `json:"FromPort,omitempty"`
	ToPort                     int `json:"ToPort,omitempty"`
	CidrIp                     any `json:"CidrIp,omitempty"`
	DestinationSecurityGroupId any `json:"DestinationSecurityGroupId,omitempty"`
}

// SecurityGroupEgress represents a standalone AWS::EC2::SecurityGroupEgress.
// Standalone egress rules break the reference cycle between adjacent tier
// groups (A egress→B while B ingress→A).
type SecurityGroupEgress struct {
	GroupId                    any `json:"GroupId,omitempty"`
	Description                any `json:"Description,omitempty"`
	IpProtocol                 any `json:"IpProtocol,omitempty"`
	FromPort                   int `json:"FromPort,omitempty"`
	ToPort                     int `json:"ToPort,omitempty"`
	CidrIp                     any `json:"CidrIp,omitempty"`
	DestinationSecurityGroupId any `json:"DestinationSecurityGroupId,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (SecurityGroupEgress) ResourceType() string { return "AWS::EC2::SecurityGroupEgress" }

// NetworkAcl represents AWS::EC2::NetworkAcl.
type NetworkAcl struct {
	VpcId any   `json:"VpcId,omitempty"`
	Tags  []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (NetworkAcl) ResourceType() string { return "AWS::EC2::NetworkAcl" }

// NetworkAclEntry represents AWS::EC2::NetworkAclEntry.
// Entries are evaluated by ascending RuleNumber, first match wins.
type NetworkAclEntry struct {
	NetworkAclId any                        `json:"NetworkAclId,omitempty"`
	RuleNumber   int                        `json:"RuleNumber,omitempty"`
	Protocol     int                        `json:"Protocol"`
	RuleAction   any                        `json:"RuleAction,omitempty"`
	Egress       bool                       `json:"Egress,omitempty"`
	CidrBlock    any                        `json:"CidrBlock,omitempty"`
	PortRange    *NetworkAclEntry_PortRange `json:"PortRange,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (NetworkAclEntry) ResourceType() string { return "AWS::EC2::NetworkAclEntry" }

// NetworkAclEntry_PortRange is the port range of a NetworkAclEntry.
type NetworkAclEntry_PortRange struct {
	From int `json:"From,omitempty"`
	To   int `json:"To,omitempty"`
}

// SubnetNetworkAclAssociation represents AWS::EC2::SubnetNetworkAclAssociation.
type SubnetNetworkAclAssociation struct {
	SubnetId     any `json:"SubnetId,omitempty"`
	NetworkAclId any `json:"NetworkAclId,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (SubnetNetworkAclAssociation) ResourceType() string {
	return "AWS::EC2::SubnetNetworkAclAssociation"
}

// FlowLog represents AWS::EC2::FlowLog.
type FlowLog struct {
	ResourceId               any   `json:"ResourceId,omitempty"`
	ResourceType_            any   `json:"ResourceType,omitempty"`
	TrafficType              any   `json:"TrafficType,omitempty"`
	LogDestinationType       any   `json:"LogDestinationType,omitempty"`
	LogGroupName             any   `json:"LogGroupName,omitempty"`
	DeliverLogsPermissionArn any   `json:"DeliverLogsPermissionArn,omitempty"`
	Tags                     []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (FlowLog) ResourceType() string { return "AWS::EC2::FlowLog" }
