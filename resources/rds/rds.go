// Package rds provides Go types for AWS::RDS CloudFormation resources.
package rds

// DBSubnetGroup represents AWS::RDS::DBSubnetGroup.
type DBSubnetGroup struct {
	DBSubnetGroupName        any   `json:"DBSubnetGroupName,omitempty"`
	DBSubnetGroupDescription any   `json:"DBSubnetGroupDescription,omitempty"`
	SubnetIds                []any `json:"SubnetIds,omitempty"`
	Tags                     []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (DBSubnetGroup) ResourceType() string { return "AWS::RDS::DBSubnetGroup" }

// DBInstance represents AWS::RDS::DBInstance.
type DBInstance struct {
	DBInstanceIdentifier        any   `json:"DBInstanceIdentifier,omitempty"`
	Engine                      any   `json:"Engine,omitempty"`
	EngineVersion               any   `json:"EngineVersion,omitempty"`
	DBInstanceClass             any   `json:"DBInstanceClass,omitempty"`
	DBName                      any   `json:"DBName,omitempty"`
	AllocatedStorage            any   `json:"AllocatedStorage,omitempty"`
	MaxAllocatedStorage         int   `json:"MaxAllocatedStorage,omitempty"`
	StorageType                 any   `json:"StorageType,omitempty"`
	StorageEncrypted            bool  `json:"StorageEncrypted,omitempty"`
	MultiAZ                     bool  `json:"MultiAZ,omitempty"`
	Port                        any   `json:"Port,omitempty"`
	MasterUsername              any   `json:"MasterUsername,omitempty"`
	MasterUserPassword          any   `json:"MasterUserPassword,omitempty"`
	DBSubnetGroupName           any   `json:"DBSubnetGroupName,omitempty"`
	VPCSecurityGroups           []any `json:"VPCSecurityGroups,omitempty"`
	PubliclyAccessible          bool  `json:"PubliclyAccessible"`
	BackupRetentionPeriod       int   `json:"BackupRetentionPeriod,omitempty"`
	PreferredBackupWindow       any   `json:"PreferredBackupWindow,omitempty"`
	PreferredMaintenanceWindow  any   `json:"PreferredMaintenanceWindow,omitempty"`
	DeletionProtection          bool  `json:"DeletionProtection,omitempty"`
	AutoMinorVersionUpgrade     bool  `json:"AutoMinorVersionUpgrade,omitempty"`
	EnableCloudwatchLogsExports []any `json:"EnableCloudwatchLogsExports,omitempty"`
	Tags                        []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (DBInstance) ResourceType() string { return "AWS::RDS::DBInstance" }
