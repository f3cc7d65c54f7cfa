// Package iam provides Go types for AWS::IAM CloudFormation resources.
package iam

// Role represents AWS::IAM::Role.
type Role struct {
	RoleName                 any           `json:"RoleName,omitempty"`
	AssumeRolePolicyDocument any           `json:"AssumeRolePolicyDocument,omitempty"`
	Policies                 []Role_Policy `json:"Policies,omitempty"`
	ManagedPolicyArns        []any         `json:"ManagedPolicyArns,omitempty"`
	Tags                     []any         `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (Role) ResourceType() string { return "AWS::IAM::Role" }

// Role_Policy is an inline policy attached to a Role.
type Role_Policy struct {
	PolicyName     any `json:"PolicyName,omitempty"`
	PolicyDocument any `json:"PolicyDocument,omitempty"`
}
