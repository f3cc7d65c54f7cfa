package stack

import (
	"fmt"
	"strconv"

	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/config"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/policy"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/template"
	. "github.com/jercatallo/aws-highly-available-three-tier-architecture/intrinsics"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/resources/rds"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/resources/secretsmanager"
)

// addDatabase declares the data tier: a generated master credential, the
// subnet group spanning the isolated subnets, and the database instance. The
// password never appears in the template; the instance resolves it from the
// secret at deploy time.
func addDatabase(b *template.Builder, cfg *config.Config) error {
	db := &cfg.Database

	var secretName any
	if cfg.Names.Secret != "" {
		secretName = cfg.Names.Secret
	}
	if err := b.Add("DatabaseSecret", secretsmanager.Secret{
		Name:        secretName,
		Description: Sub{String: "Master credential for ${AWS::StackName}"},
		GenerateSecretString: &secretsmanager.Secret_GenerateSecretString{
			SecretStringTemplate: fmt.Sprintf("{\"username\":%s}", strconv.Quote(db.Username)),
			GenerateStringKey:    "password",
			PasswordLength:       32,
			ExcludeCharacters:    "\"@/\\",
		},
		Tags: resourceTags(cfg, "db-secret"),
	}); err != nil {
		return err
	}

	if err := b.Add("DatabaseSubnetGroup", rds.DBSubnetGroup{
		DBSubnetGroupDescription: "Isolated subnets for the data tier",
		SubnetIds:                subnetRefs(policy.SubnetIsolated, cfg.Network.AzCount),
		Tags:                     resourceTags(cfg, "db-subnets"),
	}); err != nil {
		return err
	}

	var identifier any
	if cfg.Names.Database != "" {
		identifier = cfg.Names.Database
	}
	if err := b.Add("DatabaseInstance", rds.DBInstance{
		DBInstanceIdentifier: identifier,
		Engine:               db.Engine,
		EngineVersion:        db.EngineVersion,
		DBInstanceClass:      db.InstanceClass,
		DBName:               db.DatabaseName,
		AllocatedStorage:     strconv.Itoa(db.AllocatedStorageGiB),
		MaxAllocatedStorage:  db.MaxAllocatedStorageGiB,
		StorageType:          "gp3",
		StorageEncrypted:     *db.StorageEncrypted,
		MultiAZ:              db.MultiAz,
		Port:                 strconv.Itoa(db.Port),
		MasterUsername:       db.Username,
		MasterUserPassword: Sub{
			String: "{{resolve:secretsmanager:${DatabaseSecret}:SecretString:password}}",
		},
		DBSubnetGroupName: Ref{LogicalName: "DatabaseSubnetGroup"},
		VPCSecurityGroups: []any{
			GetAtt{LogicalName: securityGroupNames[TierData], Attribute: "GroupId"},
		},
		PubliclyAccessible:          false,
		BackupRetentionPeriod:       db.BackupRetentionDays,
		PreferredBackupWindow:       orNil(db.BackupWindow),
		PreferredMaintenanceWindow:  orNil(db.MaintenanceWindow),
		DeletionProtection:          db.DeletionProtection,
		AutoMinorVersionUpgrade:     true,
		EnableCloudwatchLogsExports: toAnySlice(db.CloudwatchLogsExports),
		Tags:                        resourceTags(cfg, "db"),
	}); err != nil {
		return err
	}

	return b.Add("DatabaseSecretAttachment", secretsmanager.SecretTargetAttachment{
		SecretId:   Ref{LogicalName: "DatabaseSecret"},
		TargetId:   Ref{LogicalName: "DatabaseInstance"},
		TargetType: "AWS::RDS::DBInstance",
	})
}

// orNil keeps optional string properties out of the template when unset.
func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func toAnySlice(in []string) []any {
	if len(in) == 0 {
		return nil
	}
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
