// Package baseline manages the baseline bundle: the versioned host-input
// lists (sentinel paths, denylists, injection variables, schemes, expected
// binary digest) the probe catalog is built from. A default bundle is
// embedded in the binary; a baseline.json placed next to the executable
// overrides it and can be hot-reloaded at runtime.
package baseline

import (
	"encoding/json"
	"fmt"

	"github.com/cheng-ren/SecuScope/internal/probe"
)

// Bundle is the parsed baseline. All slices are read-only after load.
type Bundle struct {
	Version          string   `json:"version"`
	CompiledAt       string   `json:"compiled_at"`
	SentinelPaths    []string `json:"sentinel_paths"`
	OpenablePaths    []string `json:"openable_paths"`
	WritableRoots    []string `json:"writable_roots"`
	SymlinkPaths     []string `json:"symlink_paths"`
	LoaderDenylist   []string `json:"loader_denylist"`
	InjectionEnvVars []string `json:"injection_env_vars"`
	URLSchemes       []string `json:"url_schemes"`
	ProxyEnvVars     []string `json:"proxy_env_vars"`
	VPNPrefixes      []string `json:"vpn_prefixes"`
	BinaryDigest     string   `json:"binary_digest"`
}

// LoadBundleFromBytes parses and validates a baseline bundle from raw JSON.
func LoadBundleFromBytes(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline bundle: %w", err)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (b *Bundle) validate() error {
	if b.Version == "" {
		return fmt.Errorf("baseline bundle has no version")
	}
	for name, list := range map[string][]string{
		"sentinel_paths":     b.SentinelPaths,
		"loader_denylist":    b.LoaderDenylist,
		"injection_env_vars": b.InjectionEnvVars,
		"url_schemes":        b.URLSchemes,
	} {
		if len(list) == 0 {
			return fmt.Errorf("baseline bundle %s is empty", name)
		}
	}
	return nil
}

// CatalogOptions converts the bundle into the probe catalog inputs.
func (b *Bundle) CatalogOptions() probe.Options {
	return probe.Options{
		SentinelPaths:    b.SentinelPaths,
		OpenablePaths:    b.OpenablePaths,
		WritableRoots:    b.WritableRoots,
		SymlinkPaths:     b.SymlinkPaths,
		LoaderDenylist:   b.LoaderDenylist,
		InjectionEnvVars: b.InjectionEnvVars,
		URLSchemes:       b.URLSchemes,
		ProxyEnvVars:     b.ProxyEnvVars,
		VPNPrefixes:      b.VPNPrefixes,
		BinaryDigest:     b.BinaryDigest,
	}
}
