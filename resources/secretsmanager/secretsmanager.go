// Package secretsmanager provides Go types for AWS::SecretsManager CloudFormation resources.
package secretsmanager

// Secret represents AWS::SecretsManager::Secret.
type Secret struct {
	Name                 any                          `json:"Name,omitempty"`
	Description          any                          `json:"Description,omitempty"`
	GenerateSecretString *Secret_GenerateSecretString `json:"GenerateSecretString,omitempty"`
	Tags                 []any                        `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (Secret) ResourceType() string { return "AWS::SecretsManager::Secret" }

// Secret_GenerateSecretString asks Secrets Manager to generate the credential.
type Secret_GenerateSecretString struct {
	SecretStringTemplate any `json:"SecretStringTemplate,omitempty"`
	GenerateStringKey    any `json:"GenerateStringKey,omitempty"`
	PasswordLength       int `json:"PasswordLength,omitempty"`
	ExcludeCharacters    any `json:"ExcludeCharacters,omitempty"`
}

// SecretTargetAttachment represents AWS::SecretsManager::SecretTargetAttachment.
// It completes the secret with the connection details of the target database.
type SecretTargetAttachment struct {
	SecretId   any `json:"SecretId,omitempty"`
	TargetId   any `json:"TargetId,omitempty"`
	TargetType any `json:"TargetType,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (SecretTargetAttachment) ResourceType() string {
	return "AWS::SecretsManager::SecretTargetAttachment"
}
