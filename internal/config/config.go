// Package config loads and validates environment-specific configuration documents.
//
// One JSON document per environment lives under configs/. Validation is
// fatal at load time: every error names the offending JSON field, and no
// required field is ever silently defaulted.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
)

// EnvVar selects the environment document when no explicit path is given.
const EnvVar = "APP_ENV"

// Environments recognized by Resolve, in ascending order of blast radius.
var Environments = []string{"dev", "staging", "prod"}

// Config is a validated configuration document.
type Config struct {
	StackName   string            `json:"stackName"`
	Environment string            `json:"environment"`
	Tags        map[string]string `json:"tags"`

	Network      NetworkConfig  `json:"network"`
	Presentation TierConfig     `json:"presentation"`
	Application  TierConfig     `json:"application"`
	Database     DatabaseConfig `json:"database"`

	// Names overrides derived resource names; empty entries keep the default.
	Names NameOverrides `json:"resourceNames"`
}

// NetworkConfig describes the VPC layout.
type NetworkConfig struct {
	CidrBlock     string        `json:"cidrBlock"`
	AzCount       int           `json:"azCount"`
	SubnetNewBits int           `json:"subnetNewBits"`
	FlowLogs      FlowLogConfig `json:"flowLogs"`
}

// FlowLogConfig toggles VPC traffic-flow logging.
type FlowLogConfig struct {
	Enabled       bool `json:"enabled"`
	RetentionDays int  `json:"retentionDays"`
}

// TierConfig describes one auto-scaling compute tier.
type TierConfig struct {
	InstanceType                  string       `json:"instanceType"`
	AmiId                         string       `json:"amiId"`
	KeyName                       string       `json:"keyName"`
	Port                          int          `json:"port"`
	MinCapacity                   int          `json:"minCapacity"`
	MaxCapacity                   int          `json:"maxCapacity"`
	DesiredCapacity               int          `json:"desiredCapacity"`
	TargetCpuUtilization          float64      `json:"targetCpuUtilization"`
	CooldownSeconds               int          `json:"cooldownSeconds"`
	HealthCheckType               string       `json:"healthCheckType"`
	HealthCheckGracePeriodSeconds int          `json:"healthCheckGracePeriodSeconds"`
	Volume                        VolumeConfig `json:"volume"`
	UserDataFile                  string       `json:"userDataFile"`

	// UserData is the bootstrap script content, read from UserDataFile at
	// load time so synthesis stays a pure function of the Config value.
	UserData string `json:"-"`
}

// VolumeConfig describes the root EBS volume of a tier.
type VolumeConfig struct {
	SizeGiB   int    `json:"sizeGib"`
	Type      string `json:"type"`
	Encrypted *bool  `json:"encrypted"`
}

// DatabaseConfig describes the managed relational database.
type DatabaseConfig struct {
	Engine                  string   `json:"engine"`
	EngineVersion           string   `json:"engineVersion"`
	InstanceClass           string   `json:"instanceClass"`
	AllocatedStorageGiB     int      `json:"allocatedStorageGib"`
	MaxAllocatedStorageGiB  int      `json:"maxAllocatedStorageGib"`
	MultiAz                 bool     `json:"multiAz"`
	Port                    int      `json:"port"`
	DatabaseName            string   `json:"databaseName"`
	Username                string   `json:"username"`
	BackupRetentionDays     int      `json:"backupRetentionDays"`
	BackupWindow            string   `json:"backupWindow"`
	MaintenanceWindow       string   `json:"maintenanceWindow"`
	DeletionProtection      bool     `json:"deletionProtection"`
	StorageEncrypted        *bool    `json:"storageEncrypted"`
	CloudwatchLogsExports   []string `json:"cloudwatchLogsExports"`
}

// NameOverrides replaces derived resource names.
type NameOverrides struct {
	LoadBalancer    string `json:"loadBalancer"`
	PresentationAsg string `json:"presentationAsg"`
	ApplicationAsg  string `json:"applicationAsg"`
	Database        string `json:"database"`
	Secret          string `json:"secret"`
}

// Resolve maps the APP_ENV selector to a document path under dir.
// An unset selector resolves to dev.
func Resolve(dir string) (string, error) {
	env := os.Getenv(EnvVar)
	if env == "" {
		env = "dev"
	}
	for _, known := range Environments {
		if env == known {
			return filepath.Join(dir, env+".json"), nil
		}
	}
	return "", fmt.Errorf("%s: unknown environment %q (want one of %s)",
		EnvVar, env, strings.Join(Environments, ", "))
}

// Load reads, defaults, and validates a configuration document.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if err := cfg.loadUserData(filepath.Dir(path)); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills optional fields that have documented defaults.
// Required fields are never defaulted here.
func (c *Config) applyDefaults() {
	if c.Network.SubnetNewBits == 0 {
		c.Network.SubnetNewBits = 8
	}
	if c.Network.FlowLogs.Enabled && c.Network.FlowLogs.RetentionDays == 0 {
		c.Network.FlowLogs.RetentionDays = 30
	}

	for _, tier := range []*TierConfig{&c.Presentation, &c.Application} {
		if tier.CooldownSeconds == 0 {
			tier.CooldownSeconds = 300
		}
		if tier.HealthCheckType == "" {
			tier.HealthCheckType = "EC2"
		}
		if tier.HealthCheckGracePeriodSeconds == 0 {
			tier.HealthCheckGracePeriodSeconds = 120
		}
		if tier.Volume.SizeGiB == 0 {
			tier.Volume.SizeGiB = 20
		}
		if tier.Volume.Type == "" {
			tier.Volume.Type = "gp3"
		}
		if tier.Volume.Encrypted == nil {
			enc := true
			tier.Volume.Encrypted = &enc
		}
	}

	if c.Database.StorageEncrypted == nil {
		enc := true
		c.Database.StorageEncrypted = &enc
	}
}

// Validate checks the document and reports every violation, each naming the
// offending field.
func (c *Config) Validate() error {
	var errs []error

	if c.StackName == "" {
		errs = append(errs, errors.New("stackName: required field missing"))
	}
	if c.Environment == "" {
		errs = append(errs, errors.New("environment: required field missing"))
	}

	errs = append(errs, c.Network.validate()...)
	errs = append(errs, c.Presentation.validate("presentation")...)
	errs = append(errs, c.Application.validate("application")...)
	errs = append(errs, c.Database.validate()...)

	return errors.Join(errs...)
}

func (n *NetworkConfig) validate() []error {
	var errs []error

	if n.CidrBlock == "" {
		errs = append(errs, errors.New("network.cidrBlock: required field missing"))
	} else if _, _, err := net.ParseCIDR(n.CidrBlock); err != nil {
		errs = append(errs, fmt.Errorf("network.cidrBlock: invalid CIDR %q", n.CidrBlock))
	}

	if n.AzCount == 0 {
		errs = append(errs, errors.New("network.azCount: required field missing"))
	} else if n.AzCount < 2 || n.AzCount > 4 {
		errs = append(errs, fmt.Errorf("network.azCount: %d outside supported range [2,4]", n.AzCount))
	}

	if n.SubnetNewBits < 1 || n.SubnetNewBits > 16 {
		errs = append(errs, fmt.Errorf("network.subnetNewBits: %d outside supported range [1,16]", n.SubnetNewBits))
	}

	if n.FlowLogs.Enabled && n.FlowLogs.RetentionDays < 1 {
		errs = append(errs, fmt.Errorf("network.flowLogs.retentionDays: must be positive, got %d", n.FlowLogs.RetentionDays))
	}

	return errs
}

func (t *TierConfig) validate(field string) []error {
	var errs []error

	if t.InstanceType == "" {
		errs = append(errs, fmt.Errorf("%s.instanceType: required field missing", field))
	}
	if t.AmiId == "" {
		errs = append(errs, fmt.Errorf("%s.amiId: required field missing", field))
	}
	if t.UserDataFile == "" {
		errs = append(errs, fmt.Errorf("%s.userDataFile: required field missing", field))
	}

	if t.Port == 0 {
		errs = append(errs, fmt.Errorf("%s.port: required field missing", field))
	} else if t.Port < 1 || t.Port > 65535 {
		errs = append(errs, fmt.Errorf("%s.port: %d outside valid range [1,65535]", field, t.Port))
	}

	if t.MinCapacity < 1 {
		errs = append(errs, fmt.Errorf("%s.minCapacity: must be at least 1, got %d", field, t.MinCapacity))
	}
	if t.MaxCapacity < t.MinCapacity {
		errs = append(errs, fmt.Errorf("%s.maxCapacity: %d below minCapacity %d", field, t.MaxCapacity, t.MinCapacity))
	}
	if t.DesiredCapacity < t.MinCapacity || t.DesiredCapacity > t.MaxCapacity {
		errs = append(errs, fmt.Errorf("%s.desiredCapacity: %d outside [minCapacity,maxCapacity] = [%d,%d]",
			field, t.DesiredCapacity, t.MinCapacity, t.MaxCapacity))
	}

	if t.TargetCpuUtilization <= 0 || t.TargetCpuUtilization > 100 {
		errs = append(errs, fmt.Errorf("%s.targetCpuUtilization: %.1f outside valid range (0,100]", field, t.TargetCpuUtilization))
	}

	switch t.HealthCheckType {
	case "EC2", "ELB":
	default:
		errs = append(errs, fmt.Errorf("%s.healthCheckType: unknown value %q (want EC2 or ELB)", field, t.HealthCheckType))
	}

	if t.Volume.SizeGiB < 8 {
		errs = append(errs, fmt.Errorf("%s.volume.sizeGib: must be at least 8, got %d", field, t.Volume.SizeGiB))
	}
	switch t.Volume.Type {
	case "gp2", "gp3", "io1", "io2":
	default:
		errs = append(errs, fmt.Errorf("%s.volume.type: unknown value %q", field, t.Volume.Type))
	}

	return errs
}

func (d *DatabaseConfig) validate() []error {
	var errs []error

	required := []struct {
		name  string
		value string
	}{
		{"database.engine", d.Engine},
		{"database.engineVersion", d.EngineVersion},
		{"database.instanceClass", d.InstanceClass},
		{"database.databaseName", d.DatabaseName},
		{"database.username", d.Username},
	}
	for _, f := range required {
		if f.value == "" {
			errs = append(errs, fmt.Errorf("%s: required field missing", f.name))
		}
	}

	if d.Port == 0 {
		errs = append(errs, errors.New("database.port: required field missing"))
	} else if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Errorf("database.port: %d outside valid range [1,65535]", d.Port))
	}

	if d.AllocatedStorageGiB < 20 {
		errs = append(errs, fmt.Errorf("database.allocatedStorageGib: must be at least 20, got %d", d.AllocatedStorageGiB))
	}
	if d.MaxAllocatedStorageGiB != 0 && d.MaxAllocatedStorageGiB < d.AllocatedStorageGiB {
		errs = append(errs, fmt.Errorf("database.maxAllocatedStorageGib: %d below allocatedStorageGib %d",
			d.MaxAllocatedStorageGiB, d.AllocatedStorageGiB))
	}

	if d.BackupRetentionDays < 0 || d.BackupRetentionDays > 35 {
		errs = append(errs, fmt.Errorf("database.backupRetentionDays: %d outside valid range [0,35]", d.BackupRetentionDays))
	}

	return errs
}

// loadUserData reads each tier's bootstrap script, resolved relative to the
// configuration document's directory.
func (c *Config) loadUserData(baseDir string) error {
	tiers := []struct {
		field string
		cfg   *TierConfig
	}{
		{"presentation", &c.Presentation},
		{"application", &c.Application},
	}

	for _, t := range tiers {
		path := t.cfg.UserDataFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%s.userDataFile: %w", t.field, err)
		}
		t.cfg.UserData = string(data)
	}

	return nil
}
