package stack

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	threetier "github.com/jercatallo/aws-highly-available-three-tier-architecture"
	"github.com/jercatallo/aws-highly-available-three-tier-architecture/internal/config"
)

func boolPtr(b bool) *bool { return &b }

func testConfig() *config.Config {
	return &config.Config{
		StackName:   "three-tier-test",
		Environment: "dev",
		Tags:        map[string]string{"Project": "three-tier"},
		Network: config.NetworkConfig{
			CidrBlock:     "10.0.0.0/16",
			AzCount:       2,
			SubnetNewBits: 8,
			FlowLogs:      config.FlowLogConfig{Enabled: true, RetentionDays: 30},
		},
		Presentation: config.TierConfig{
			InstanceType:                  "t3.micro",
			AmiId:                         "ami-0c02fb55956c7d316",
			Port:                          3000,
			MinCapacity:                   2,
			MaxCapacity:                   6,
			DesiredCapacity:               2,
			TargetCpuUtilization:          70,
			CooldownSeconds:               300,
			HealthCheckType:               "ELB",
			HealthCheckGracePeriodSeconds: 120,
			Volume:                        config.VolumeConfig{SizeGiB: 20, Type: "gp3", Encrypted: boolPtr(true)},
			UserData:                      "#!/bin/bash\necho presentation\n",
		},
		Application: config.TierConfig{
			InstanceType:                  "t3.small",
			AmiId:                         "ami-0c02fb55956c7d316",
			Port:                          8080,
			MinCapacity:                   2,
			MaxCapacity:                   4,
			DesiredCapacity:               2,
			TargetCpuUtilization:          60,
			CooldownSeconds:               300,
			HealthCheckType:               "EC2",
			HealthCheckGracePeriodSeconds: 120,
			Volume:                        config.VolumeConfig{SizeGiB: 20, Type: "gp3", Encrypted: boolPtr(true)},
			UserData:                      "#!/bin/bash\necho application\n",
		},
		Database: config.DatabaseConfig{
			Engine:                 "postgres",
			EngineVersion:          "15.4",
			InstanceClass:          "db.t3.medium",
			AllocatedStorageGiB:    20,
			MaxAllocatedStorageGiB: 100,
			MultiAz:                true,
			Port:                   5432,
			DatabaseName:           "appdb",
			Username:               "appadmin",
			BackupRetentionDays:    7,
			DeletionProtection:     true,
			StorageEncrypted:       boolPtr(true),
		},
	}
}

func resourcesOfType(t *testing.T, tmpl *threetier.Template, resourceType string) []string {
	t.Helper()
	var names []string
	for name, res := range tmpl.Resources {
		if res.Type == resourceType {
			names = append(names, name)
		}
	}
	return names
}

func TestSynthesize_ResourceCounts(t *testing.T) {
	for _, azCount := range []int{2, 3} {
		t.Run(fmt.Sprintf("azCount=%d", azCount), func(t *testing.T) {
			cfg := testConfig()
			cfg.Network.AzCount = azCount

			tmpl, err := Synthesize(cfg)
			require.NoError(t, err)

			assert.Len(t, resourcesOfType(t, tmpl, "AWS::EC2::Subnet"), 3*azCount)
			assert.Len(t, resourcesOfType(t, tmpl, "AWS::EC2::NatGateway"), azCount)
			assert.Len(t, resourcesOfType(t, tmpl, "AWS::EC2::EIP"), azCount)
			assert.Len(t, resourcesOfType(t, tmpl, "AWS::EC2::SecurityGroup"), 4)
			assert.Len(t, resourcesOfType(t, tmpl, "AWS::EC2::NetworkAcl"), 3)
			assert.Len(t, resourcesOfType(t, tmpl, "AWS::EC2::SubnetNetworkAclAssociation"), 3*azCount)
			assert.Len(t, resourcesOfType(t, tmpl, "AWS::AutoScaling::AutoScalingGroup"), 2)
			assert.Len(t, resourcesOfType(t, tmpl, "AWS::RDS::DBInstance"), 1)
		})
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	first, err := Synthesize(testConfig())
	require.NoError(t, err)
	second, err := Synthesize(testConfig())
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestSynthesize_SubnetLayout(t *testing.T) {
	tmpl, err := Synthesize(testConfig())
	require.NoError(t, err)

	// Contiguous carving: public first, then private, then isolated.
	expected := map[string]string{
		"PublicSubnet1":   "10.0.0.0/24",
		"PublicSubnet2":   "10.0.1.0/24",
		"PrivateSubnet1":  "10.0.2.0/24",
		"PrivateSubnet2":  "10.0.3.0/24",
		"IsolatedSubnet1": "10.0.4.0/24",
		"IsolatedSubnet2": "10.0.5.0/24",
	}
	for name, cidr := range expected {
		res, ok := tmpl.Resources[name]
		require.True(t, ok, "missing subnet %s", name)
		assert.Equal(t, cidr, res.Properties["CidrBlock"], name)
	}

	// Only the public subnets map public addresses.
	assert.Equal(t, true, tmpl.Resources["PublicSubnet1"].Properties["MapPublicIpOnLaunch"])
	assert.Nil(t, tmpl.Resources["PrivateSubnet1"].Properties["MapPublicIpOnLaunch"])
	assert.Nil(t, tmpl.Resources["IsolatedSubnet1"].Properties["MapPublicIpOnLaunch"])
}

func TestSynthesize_IsolatedSubnetsHaveNoInternetRoute(t *testing.T) {
	tmpl, err := Synthesize(testConfig())
	require.NoError(t, err)

	require.Contains(t, tmpl.Resources, "IsolatedRouteTable")

	for _, name := range resourcesOfType(t, tmpl, "AWS::EC2::Route") {
		props := tmpl.Resources[name].Properties
		ref, ok := props["RouteTableId"].(map[string]any)
		require.True(t, ok, "%s: unexpected RouteTableId shape", name)
		assert.NotEqual(t, "IsolatedRouteTable", ref["Ref"],
			"%s routes out of the isolated subnets", name)
	}
}

func getAttTarget(t *testing.T, v any) string {
	t.Helper()
	m, ok := v.(map[string]any)
	require.True(t, ok, "expected Fn::GetAtt map, got %T", v)
	parts, ok := m["Fn::GetAtt"].([]any)
	require.True(t, ok, "expected Fn::GetAtt list")
	require.Len(t, parts, 2)
	return parts[0].(string)
}

func TestSynthesize_SecurityGroupChain(t *testing.T) {
	tmpl, err := Synthesize(testConfig())
	require.NoError(t, err)

	// Each interior tier admits exactly the preceding tier's group.
	chain := []struct {
		group string
		peer  string
		port  float64
	}{
		{"PresentationSecurityGroup", "EdgeSecurityGroup", 3000},
		{"ApplicationSecurityGroup", "PresentationSecurityGroup", 8080},
		{"DatabaseSecurityGroup", "ApplicationSecurityGroup", 5432},
	}

	for _, link := range chain {
		props := tmpl.Resources[link.group].Properties
		ingress, ok := props["SecurityGroupIngress"].([]any)
		require.True(t, ok, "%s has no ingress", link.group)
		require.Len(t, ingress, 1)

		rule := ingress[0].(map[string]any)
		assert.Equal(t, link.peer, getAttTarget(t, rule["SourceSecurityGroupId"]))
		assert.Equal(t, link.port, rule["FromPort"])
		assert.Equal(t, link.port, rule["ToPort"])
	}

	// The edge is the only group with address-bound ingress.
	edge := tmpl.Resources["EdgeSecurityGroup"].Properties
	ingress := edge["SecurityGroupIngress"].([]any)
	require.Len(t, ingress, 1)
	assert.Equal(t, "0.0.0.0/0", ingress[0].(map[string]any)["CidrIp"])
}

func TestSynthesize_DataTierNeverEgresses(t *testing.T) {
	tmpl, err := Synthesize(testConfig())
	require.NoError(t, err)

	// The database group carries only the rule that voids the implicit
	// allow-all egress.
	props := tmpl.Resources["DatabaseSecurityGroup"].Properties
	egress, ok := props["SecurityGroupEgress"].([]any)
	require.True(t, ok)
	require.Len(t, egress, 1)
	assert.Equal(t, "Disallow all traffic", egress[0].(map[string]any)["Description"])

	// And no standalone egress rule originates from it.
	for _, name := range resourcesOfType(t, tmpl, "AWS::EC2::SecurityGroupEgress") {
		group := getAttTarget(t, tmpl.Resources[name].Properties["GroupId"])
		assert.NotEqual(t, "DatabaseSecurityGroup", group,
			"%s grants the data tier egress", name)
	}
}

func TestSynthesize_ComputeInternetEgress(t *testing.T) {
	tmpl, err := Synthesize(testConfig())
	require.NoError(t, err)

	for _, name := range []string{
		"PresentationInternetEgress80", "PresentationInternetEgress443",
		"ApplicationInternetEgress80", "ApplicationInternetEgress443",
	} {
		res, ok := tmpl.Resources[name]
		require.True(t, ok, "missing %s", name)
		assert.Equal(t, "0.0.0.0/0", res.Properties["CidrIp"])
	}
}

func TestSynthesize_CapacityPassThrough(t *testing.T) {
	tmpl, err := Synthesize(testConfig())
	require.NoError(t, err)

	asg := tmpl.Resources["PresentationAutoScalingGroup"].Properties
	assert.Equal(t, "2", asg["MinSize"])
	assert.Equal(t, "6", asg["MaxSize"])
	assert.Equal(t, "2", asg["DesiredCapacity"])
	assert.Equal(t, "ELB", asg["HealthCheckType"])

	sp := tmpl.Resources["PresentationScalingPolicy"].Properties
	tracking := sp["TargetTrackingConfiguration"].(map[string]any)
	assert.Equal(t, 70.0, tracking["TargetValue"])

	// Only the presentation tier registers with the load balancer.
	require.Contains(t, asg, "TargetGroupARNs")
	app := tmpl.Resources["ApplicationAutoScalingGroup"].Properties
	assert.NotContains(t, app, "TargetGroupARNs")
}

func TestSynthesize_LaunchTemplateHardening(t *testing.T) {
	tmpl, err := Synthesize(testConfig())
	require.NoError(t, err)

	lt := tmpl.Resources["PresentationLaunchTemplate"].Properties
	data := lt["LaunchTemplateData"].(map[string]any)

	metadata := data["MetadataOptions"].(map[string]any)
	assert.Equal(t, "required", metadata["HttpTokens"])

	mappings := data["BlockDeviceMappings"].([]any)
	require.Len(t, mappings, 1)
	ebs := mappings[0].(map[string]any)["Ebs"].(map[string]any)
	assert.Equal(t, true, ebs["Encrypted"])
	assert.Equal(t, 20.0, ebs["VolumeSize"])

	userData := data["UserData"].(map[string]any)
	assert.Contains(t, userData["Fn::Base64"], "echo presentation")
}

func TestSynthesize_DatabasePassThrough(t *testing.T) {
	tmpl, err := Synthesize(testConfig())
	require.NoError(t, err)

	db := tmpl.Resources["DatabaseInstance"].Properties
	assert.Equal(t, "postgres", db["Engine"])
	assert.Equal(t, true, db["MultiAZ"])
	assert.Equal(t, 7.0, db["BackupRetentionPeriod"])
	assert.Equal(t, true, db["DeletionProtection"])
	assert.Equal(t, false, db["PubliclyAccessible"])
	assert.Equal(t, 100.0, db["MaxAllocatedStorage"])

	// The password resolves from the secret at deploy time.
	password := db["MasterUserPassword"].(map[string]any)
	assert.Contains(t, password["Fn::Sub"], "resolve:secretsmanager:${DatabaseSecret}")

	// The instance lives in the isolated subnet group behind the data group.
	assert.Equal(t, "DatabaseSecurityGroup", getAttTarget(t, db["VPCSecurityGroups"].([]any)[0]))

	attachment := tmpl.Resources["DatabaseSecretAttachment"].Properties
	assert.Equal(t, "AWS::RDS::DBInstance", attachment["TargetType"])
}

func TestSynthesize_FlowLogsToggle(t *testing.T) {
	cfg := testConfig()
	cfg.Network.FlowLogs.Enabled = false

	tmpl, err := Synthesize(cfg)
	require.NoError(t, err)
	assert.Empty(t, resourcesOfType(t, tmpl, "AWS::EC2::FlowLog"))
	assert.NotContains(t, tmpl.Resources, "FlowLogGroup")

	cfg.Network.FlowLogs.Enabled = true
	tmpl, err = Synthesize(cfg)
	require.NoError(t, err)
	require.Contains(t, tmpl.Resources, "VpcFlowLog")
	assert.Equal(t, 30.0, tmpl.Resources["FlowLogGroup"].Properties["RetentionInDays"])
}

func TestSynthesize_NetworkAcls(t *testing.T) {
	tmpl, err := Synthesize(testConfig())
	require.NoError(t, err)

	// Isolated tier: the data port in, ephemeral out, one entry per compute
	// subnet block rather than the whole VPC.
	in := tmpl.Resources["IsolatedAclIngress100"].Properties
	assert.Equal(t, 6.0, in["Protocol"])
	assert.Equal(t, "10.0.2.0/24", in["CidrBlock"])
	assert.Equal(t, 5432.0, in["PortRange"].(map[string]any)["From"])

	in2 := tmpl.Resources["IsolatedAclIngress200"].Properties
	assert.Equal(t, "10.0.3.0/24", in2["CidrBlock"])

	out := tmpl.Resources["IsolatedAclEgress100"].Properties
	assert.Equal(t, true, out["Egress"])
	assert.Equal(t, "10.0.2.0/24", out["CidrBlock"])
	assert.Equal(t, 1024.0, out["PortRange"].(map[string]any)["From"])

	// Public tier admits edge traffic from anywhere.
	public := tmpl.Resources["PublicAclIngress100"].Properties
	assert.Equal(t, "0.0.0.0/0", public["CidrBlock"])
	assert.Equal(t, 80.0, public["PortRange"].(map[string]any)["From"])

	// NATed side-channel traffic re-enters the public tier on 443.
	side := tmpl.Resources["PublicAclIngress300"].Properties
	assert.Equal(t, "10.0.0.0/16", side["CidrBlock"])
	assert.Equal(t, 443.0, side["PortRange"].(map[string]any)["From"])
}

func TestSynthesize_OutputsExported(t *testing.T) {
	tmpl, err := Synthesize(testConfig())
	require.NoError(t, err)

	for _, name := range []string{
		"VpcId", "LoadBalancerDNSName", "PresentationAsgName",
		"ApplicationAsgName", "DatabaseEndpointAddress", "DatabaseSecretArn",
	} {
		out, ok := tmpl.Outputs[name]
		require.True(t, ok, "missing output %s", name)
		require.NotNil(t, out.Export, "output %s is not exported", name)
	}
}

func TestSynthesize_NameOverrides(t *testing.T) {
	cfg := testConfig()
	cfg.Names = config.NameOverrides{
		LoadBalancer:    "custom-alb",
		PresentationAsg: "custom-pres-asg",
		Database:        "custom-db",
		Secret:          "custom/secret",
	}

	tmpl, err := Synthesize(cfg)
	require.NoError(t, err)

	assert.Equal(t, "custom-alb", tmpl.Resources["LoadBalancer"].Properties["Name"])
	assert.Equal(t, "custom-pres-asg", tmpl.Resources["PresentationAutoScalingGroup"].Properties["AutoScalingGroupName"])
	assert.Equal(t, "custom-db", tmpl.Resources["DatabaseInstance"].Properties["DBInstanceIdentifier"])
	assert.Equal(t, "custom/secret", tmpl.Resources["DatabaseSecret"].Properties["Name"])
}

// The checked-in environment documents must load and synthesize end to end.
func TestSynthesize_FromConfigDocuments(t *testing.T) {
	for _, env := range config.Environments {
		t.Run(env, func(t *testing.T) {
			cfg, err := config.Load(filepath.Join("..", "..", "configs", env+".json"))
			require.NoError(t, err)

			tmpl, err := Synthesize(cfg)
			require.NoError(t, err)

			assert.Len(t, resourcesOfType(t, tmpl, "AWS::EC2::Subnet"), 3*cfg.Network.AzCount)
			assert.Len(t, resourcesOfType(t, tmpl, "AWS::EC2::SecurityGroup"), 4)
		})
	}
}

func TestSynthesize_PublicRouteDependsOnAttachment(t *testing.T) {
	tmpl, err := Synthesize(testConfig())
	require.NoError(t, err)

	route := tmpl.Resources["PublicRoute"]
	assert.Contains(t, route.DependsOn, "GatewayAttachment")
}
