package ec2

// LaunchTemplate represents AWS::EC2::LaunchTemplate.
type LaunchTemplate struct {
	LaunchTemplateName any                                `json:"LaunchTemplateName,omitempty"`
	LaunchTemplateData *LaunchTemplate_LaunchTemplateData `json:"LaunchTemplateData,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (LaunchTemplate) ResourceType() string { return "AWS::EC2::LaunchTemplate" }

// LaunchTemplate_LaunchTemplateData is the launch configuration of a LaunchTemplate.
type LaunchTemplate_LaunchTemplateData struct {
	ImageId             any                                 `json:"ImageId,omitempty"`
	InstanceType        any                                 `json:"InstanceType,omitempty"`
	KeyName             any                                 `json:"KeyName,omitempty"`
	SecurityGroupIds    []any                               `json:"SecurityGroupIds,omitempty"`
	UserData            any                                 `json:"UserData,omitempty"`
	BlockDeviceMappings []LaunchTemplate_BlockDeviceMapping `json:"BlockDeviceMappings,omitempty"`
	MetadataOptions     *LaunchTemplate_MetadataOptions     `json:"MetadataOptions,omitempty"`
	Monitoring          *LaunchTemplate_Monitoring          `json:"Monitoring,omitempty"`
	TagSpecifications   []LaunchTemplate_TagSpecification   `json:"TagSpecifications,omitempty"`
}

// LaunchTemplate_BlockDeviceMapping maps a device name to an EBS volume spec.
type LaunchTemplate_BlockDeviceMapping struct {
	DeviceName any                 `json:"DeviceName,omitempty"`
	Ebs        *LaunchTemplate_Ebs `json:"Ebs,omitempty"`
}

// LaunchTemplate_Ebs is the EBS volume spec of a block device mapping.
type LaunchTemplate_Ebs struct {
	VolumeSize          int  `json:"VolumeSize,omitempty"`
	VolumeType          any  `json:"VolumeType,omitempty"`
	Encrypted           bool `json:"Encrypted,omitempty"`
	DeleteOnTermination bool `json:"DeleteOnTermination,omitempty"`
}

// LaunchTemplate_MetadataOptions controls instance metadata service access.
type LaunchTemplate_MetadataOptions struct {
	HttpTokens              any `json:"HttpTokens,omitempty"`
	HttpPutResponseHopLimit int `json:"HttpPutResponseHopLimit,omitempty"`
}

// LaunchTemplate_Monitoring toggles detailed CloudWatch monitoring.
type LaunchTemplate_Monitoring struct {
	Enabled bool `json:"Enabled,omitempty"`
}

// LaunchTemplate_TagSpecification tags resources created from the template.
type LaunchTemplate_TagSpecification struct {
	ResourceType_ any   `json:"ResourceType,omitempty"`
	Tags          []any `json:"Tags,omitempty"`
}
