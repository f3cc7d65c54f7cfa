// Package policy derives the perimeter firewall declarations for an ordered
// tier chain.
//
// The chain models the only permitted call path through the architecture:
//
//	internet -> edge (load balancer) -> presentation -> business -> data
//
// Two layers are derived from it:
//
//   - Stateful, default-deny security-group specs per tier. Each tier's
//     ingress references the preceding tier's group identity and each tier's
//     egress references the following tier's identity, so isolation holds
//     without tracking addresses. Only adjacent pairs ever get a rule.
//   - Stateless, ordered network-ACL entry lists per subnet tier, with
//     ascending rule numbers and first-match-wins evaluation.
//
// Derivation is a one-shot translation; malformed input (unknown tier,
// missing port, non-adjacent rule request) fails immediately.
package policy

import (
	"fmt"
	"net"
	"sort"
)

// InternetCidr matches any source or destination address.
const InternetCidr = "0.0.0.0/0"

// Ephemeral port range used for stateless return-traffic rules.
const (
	EphemeralFrom = 1024
	EphemeralTo   = 65535
)

// Tier is one hop in the chain. Port is the port the tier listens on.
type Tier struct {
	Name string
	Port int
}

// Chain is an ordered tier chain, edge first and data last.
type Chain struct {
	tiers          []Tier
	internetEgress map[string][]int
}

// NewChain validates and builds a tier chain.
func NewChain(tiers ...Tier) (*Chain, error) {
	if len(tiers) < 3 {
		return nil, fmt.Errorf("chain needs at least 3 tiers (edge, compute, data), got %d", len(tiers))
	}

	seen := make(map[string]bool, len(tiers))
	for _, t := range tiers {
		if t.Name == "" {
			return nil, fmt.Errorf("tier name missing")
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("duplicate tier %q", t.Name)
		}
		seen[t.Name] = true

		if t.Port < 1 || t.Port > 65535 {
			return nil, fmt.Errorf("tier %q: missing or invalid port %d", t.Name, t.Port)
		}
	}

	return &Chain{
		tiers:          tiers,
		internetEgress: make(map[string][]int),
	}, nil
}

// Tiers returns the chain in order.
func (c *Chain) Tiers() []Tier {
	return c.tiers
}

// Edge returns the first tier.
func (c *Chain) Edge() Tier {
	return c.tiers[0]
}

// Data returns the last tier.
func (c *Chain) Data() Tier {
	return c.tiers[len(c.tiers)-1]
}

func (c *Chain) index(name string) (int, error) {
	for i, t := range c.tiers {
		if t.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q", name)
}

// Rule is an allow rule between two adjacent tiers.
type Rule struct {
	From     string
	To       string
	Protocol string
	Port     int
}

// Rule returns the allow rule for the pair (from, to). Requests for unknown
// tiers or non-adjacent pairs are assembly errors.
func (c *Chain) Rule(from, to string) (Rule, error) {
	i, err := c.index(from)
	if err != nil {
		return Rule{}, err
	}
	j, err := c.index(to)
	if err != nil {
		return Rule{}, err
	}
	if j != i+1 {
		return Rule{}, fmt.Errorf("no rule permitted between non-adjacent tiers %q and %q", from, to)
	}

	return Rule{
		From:     from,
		To:       to,
		Protocol: "tcp",
		Port:     c.tiers[j].Port,
	}, nil
}

// AdjacentRules returns the full rule set: for every adjacent pair
// (Ti, Ti+1), allow Ti -> Ti+1 on Ti+1's port. Nothing else.
func (c *Chain) AdjacentRules() []Rule {
	rules := make([]Rule, 0, len(c.tiers)-1)
	for i := 0; i < len(c.tiers)-1; i++ {
		rules = append(rules, Rule{
			From:     c.tiers[i].Name,
			To:       c.tiers[i+1].Name,
			Protocol: "tcp",
			Port:     c.tiers[i+1].Port,
		})
	}
	return rules
}

// AllowInternetEgress adds a side-channel egress rule (tier -> internet on
// the given ports) for external package retrieval. The data tier must not
// initiate outbound connections, so it is refused.
func (c *Chain) AllowInternetEgress(tier string, ports ...int) error {
	i, err := c.index(tier)
	if err != nil {
		return err
	}
	if i == len(c.tiers)-1 {
		return fmt.Errorf("data tier %q must not initiate outbound connections", tier)
	}
	if len(ports) == 0 {
		return fmt.Errorf("tier %q: internet egress needs at least one port", tier)
	}
	for _, p := range ports {
		if p < 1 || p > 65535 {
			return fmt.Errorf("tier %q: invalid internet egress port %d", tier, p)
		}
	}

	c.internetEgress[tier] = append(c.internetEgress[tier], ports...)
	sort.Ints(c.internetEgress[tier])
	return nil
}

// internetEgressPorts returns the sorted union of the side-channel ports
// registered across all tiers.
func (c *Chain) internetEgressPorts() []int {
	seen := make(map[int]bool)
	var ports []int
	for _, tierPorts := range c.internetEgress {
		for _, p := range tierPorts {
			if !seen[p] {
				seen[p] = true
				ports = append(ports, p)
			}
		}
	}
	sort.Ints(ports)
	return ports
}

// RuleSpec is a single stateful group rule. Exactly one of PeerTier and
// PeerCidr is set: PeerTier references another tier's group identity,
// PeerCidr binds the rule to an address range.
type RuleSpec struct {
	Description string
	Protocol    string
	Port        int
	PeerTier    string
	PeerCidr    string
}

// GroupSpec is the derived stateful group declaration for one tier.
type GroupSpec struct {
	Tier    string
	Ingress []RuleSpec
	Egress  []RuleSpec
}

// Groups derives the per-tier stateful group specs. ingressCidr is the
// address range admitted at the edge; it is the only address-bound ingress
// rule in the chain.
func (c *Chain) Groups(ingressCidr string) ([]GroupSpec, error) {
	if _, _, err := net.ParseCIDR(ingressCidr); err != nil {
		return nil, fmt.Errorf("invalid ingress CIDR %q", ingressCidr)
	}

	groups := make([]GroupSpec, 0, len(c.tiers))
	for i, t := range c.tiers {
		g := GroupSpec{Tier: t.Name}

		if i == 0 {
			g.Ingress = append(g.Ingress, RuleSpec{
				Description: fmt.Sprintf("Allow %s from %s", t.Name, ingressCidr),
				Protocol:    "tcp",
				Port:        t.Port,
				PeerCidr:    ingressCidr,
			})
		} else {
			prev := c.tiers[i-1]
			g.Ingress = append(g.Ingress, RuleSpec{
				Description: fmt.Sprintf("Allow %s tier on port %d", prev.Name, t.Port),
				Protocol:    "tcp",
				Port:        t.Port,
				PeerTier:    prev.Name,
			})
		}

		// The data tier never gets an egress rule.
		if i < len(c.tiers)-1 {
			next := c.tiers[i+1]
			g.Egress = append(g.Egress, RuleSpec{
				Description: fmt.Sprintf("Allow %s tier on port %d", next.Name, next.Port),
				Protocol:    "tcp",
				Port:        next.Port,
				PeerTier:    next.Name,
			})

			for _, port := range c.internetEgress[t.Name] {
				g.Egress = append(g.Egress, RuleSpec{
					Description: fmt.Sprintf("Allow internet egress on port %d", port),
					Protocol:    "tcp",
					Port:        port,
					PeerCidr:    InternetCidr,
				})
			}
		}

		groups = append(groups, g)
	}

	return groups, nil
}
