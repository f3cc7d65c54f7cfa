package policy

import (
	"fmt"
	"net"
)

// SubnetTier names a subnet-level placement group.
type SubnetTier string

const (
	// SubnetPublic hosts the load balancer and NAT gateways.
	SubnetPublic SubnetTier = "public"
	// SubnetPrivate hosts the compute tiers, with NAT egress.
	SubnetPrivate SubnetTier = "private"
	// SubnetIsolated hosts the data tier, with no internet path.
	SubnetIsolated SubnetTier = "isolated"
)

// SubnetTiers lists the subnet tiers in the order they are carved from the
// VPC block.
var SubnetTiers = []SubnetTier{SubnetPublic, SubnetPrivate, SubnetIsolated}

// AclEntry is one stateless rule in an ordered network-ACL entry list.
// Entries are evaluated in ascending RuleNumber order, first match wins;
// anything unmatched falls through to the ACL's implicit deny.
type AclEntry struct {
	RuleNumber int
	Protocol   string // "tcp" or "all"
	PortFrom   int
	PortTo     int
	Action     string // "allow" or "deny"
	Egress     bool
	Cidr       string
}

// aclRuleStep spaces rule numbers so operators can splice rules in between.
const aclRuleStep = 100

// SubnetRules derives the ordered stateless entry lists per subnet tier.
// vpcCidr scopes intra-VPC rules, privateCidrs are the compute subnet blocks
// the data tier talks to, and the chain's ports decide what is admitted.
func (c *Chain) SubnetRules(vpcCidr string, privateCidrs []string) (map[SubnetTier][]AclEntry, error) {
	if _, _, err := net.ParseCIDR(vpcCidr); err != nil {
		return nil, fmt.Errorf("invalid VPC CIDR %q", vpcCidr)
	}
	if len(privateCidrs) == 0 {
		return nil, fmt.Errorf("no private subnet CIDRs")
	}
	for _, cidr := range privateCidrs {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return nil, fmt.Errorf("invalid private subnet CIDR %q", cidr)
		}
	}

	edge := c.Edge()
	data := c.Data()

	// Ports of the compute tiers between edge and data.
	var computePorts []int
	for _, t := range c.tiers[1 : len(c.tiers)-1] {
		computePorts = append(computePorts, t.Port)
	}

	rules := make(map[SubnetTier][]AclEntry)

	// Public: edge traffic in from anywhere, ephemeral return traffic,
	// unrestricted TCP out (the edge forwards into the VPC and the NAT
	// gateways forward out of it).
	public := []AclEntry{
		{Protocol: "tcp", PortFrom: edge.Port, PortTo: edge.Port, Action: "allow", Cidr: InternetCidr},
		{Protocol: "tcp", PortFrom: EphemeralFrom, PortTo: EphemeralTo, Action: "allow", Cidr: InternetCidr},
	}
	// Side-channel internet egress is NATed through the public subnets, so
	// the request traffic re-enters them from the private tier on the
	// registered ports before it leaves the VPC.
	for _, port := range c.internetEgressPorts() {
		if port == edge.Port {
			continue
		}
		public = append(public, AclEntry{
			Protocol: "tcp", PortFrom: port, PortTo: port, Action: "allow", Cidr: vpcCidr,
		})
	}
	public = append(public, AclEntry{
		Protocol: "tcp", PortFrom: 1, PortTo: 65535, Action: "allow", Egress: true, Cidr: InternetCidr,
	})

	// Private: compute tier ports from inside the VPC, ephemeral return
	// traffic from anywhere (NAT responses), unrestricted TCP out.
	var private []AclEntry
	for _, port := range computePorts {
		private = append(private, AclEntry{
			Protocol: "tcp", PortFrom: port, PortTo: port, Action: "allow", Cidr: vpcCidr,
		})
	}
	private = append(private,
		AclEntry{Protocol: "tcp", PortFrom: EphemeralFrom, PortTo: EphemeralTo, Action: "allow", Cidr: InternetCidr},
		AclEntry{Protocol: "tcp", PortFrom: 1, PortTo: 65535, Action: "allow", Egress: true, Cidr: InternetCidr},
	)

	// Isolated: only the data port in from the compute subnet blocks, only
	// ephemeral responses back to them, and never beyond the VPC.
	var isolated []AclEntry
	for _, cidr := range privateCidrs {
		isolated = append(isolated, AclEntry{
			Protocol: "tcp", PortFrom: data.Port, PortTo: data.Port, Action: "allow", Cidr: cidr,
		})
	}
	for _, cidr := range privateCidrs {
		isolated = append(isolated, AclEntry{
			Protocol: "tcp", PortFrom: EphemeralFrom, PortTo: EphemeralTo, Action: "allow", Egress: true, Cidr: cidr,
		})
	}

	rules[SubnetPublic] = numberEntries(public)
	rules[SubnetPrivate] = numberEntries(private)
	rules[SubnetIsolated] = numberEntries(isolated)

	return rules, nil
}

// numberEntries assigns ascending rule numbers, ingress and egress each
// getting their own sequence (they are separate ordered lists on the wire).
func numberEntries(entries []AclEntry) []AclEntry {
	nextIn, nextOut := aclRuleStep, aclRuleStep
	out := make([]AclEntry, len(entries))
	for i, e := range entries {
		if e.Egress {
			e.RuleNumber = nextOut
			nextOut += aclRuleStep
		} else {
			e.RuleNumber = nextIn
			nextIn += aclRuleStep
		}
		out[i] = e
	}
	return out
}
