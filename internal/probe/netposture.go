package probe

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

// NetworkPostureProbe checks for an active HTTP proxy (proxy environment
// variables) or a VPN-style tunnel interface that is up. Either condition is
// reported, but this category is informational: proxies and VPNs are common
// in legitimate testing and corporate environments.
type NetworkPostureProbe struct {
	ProxyVars   []string
	VPNPrefixes []string
	// Getenv overrides os.Getenv for tests.
	Getenv func(string) string
	// Interfaces overrides net.Interfaces for tests.
	Interfaces func() ([]net.Interface, error)
}

func (p *NetworkPostureProbe) ID() string                    { return "network-posture" }
func (p *NetworkPostureProbe) Category() types.ProbeCategory { return types.CategoryNetworkProxy }

func (p *NetworkPostureProbe) Evaluate(ctx context.Context) (types.ProbeOutcome, error) {
	if err := ctx.Err(); err != nil {
		return types.ProbeOutcome{}, err
	}
	getenv := p.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	interfaces := p.Interfaces
	if interfaces == nil {
		interfaces = net.Interfaces
	}

	var indicators []string
	for _, name := range p.ProxyVars {
		if value := getenv(name); value != "" {
			indicators = append(indicators, fmt.Sprintf("proxy %s=%s", name, value))
		}
	}

	ifaces, err := interfaces()
	if err != nil {
		return types.ProbeOutcome{}, fmt.Errorf("listing network interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		name := strings.ToLower(iface.Name)
		for _, prefix := range p.VPNPrefixes {
			if strings.HasPrefix(name, prefix) {
				indicators = append(indicators, fmt.Sprintf("tunnel interface %s up", iface.Name))
				break
			}
		}
	}

	if len(indicators) > 0 {
		return outcome(p, true, fmt.Sprintf("traffic may be intercepted: %s", strings.Join(indicators, ", "))), nil
	}
	return outcome(p, false, "no proxy configured and no tunnel interface up"), nil
}
