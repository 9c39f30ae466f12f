package probe

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noInterfaces() ([]net.Interface, error) { return nil, nil }

func TestNetworkPostureProbeClean(t *testing.T) {
	p := &NetworkPostureProbe{
		ProxyVars:   []string{"HTTP_PROXY", "HTTPS_PROXY"},
		VPNPrefixes: []string{"tun", "wg"},
		Getenv:      func(string) string { return "" },
		Interfaces:  noInterfaces,
	}
	out, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Detected)
}

func TestNetworkPostureProbeDetectsProxy(t *testing.T) {
	p := &NetworkPostureProbe{
		ProxyVars:   []string{"HTTP_PROXY"},
		Getenv:      func(k string) string { return map[string]string{"HTTP_PROXY": "http://proxy:8080"}[k] },
		Interfaces:  noInterfaces,
	}
	out, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Detected)
	assert.Contains(t, out.Detail, "HTTP_PROXY=http://proxy:8080")
}

func TestNetworkPostureProbeDetectsTunnelInterface(t *testing.T) {
	p := &NetworkPostureProbe{
		VPNPrefixes: []string{"tun", "wg"},
		Getenv:      func(string) string { return "" },
		Interfaces: func() ([]net.Interface, error) {
			return []net.Interface{
				{Name: "eth0", Flags: net.FlagUp},
				{Name: "wg0", Flags: net.FlagUp},
			}, nil
		},
	}
	out, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Detected)
	assert.Contains(t, out.Detail, "wg0")
}

func TestNetworkPostureProbeIgnoresDownTunnel(t *testing.T) {
	p := &NetworkPostureProbe{
		VPNPrefixes: []string{"tun"},
		Getenv:      func(string) string { return "" },
		Interfaces: func() ([]net.Interface, error) {
			return []net.Interface{{Name: "tun0"}}, nil
		},
	}
	out, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Detected)
}
