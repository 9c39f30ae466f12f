package baseline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheng-ren/SecuScope/internal/baseline/defaults"
)

const validBundleJSON = `{
	"version": "9.9.9",
	"sentinel_paths": ["/Applications/Cydia.app"],
	"openable_paths": ["/Applications/Cydia.app"],
	"writable_roots": ["/"],
	"symlink_paths": ["/Applications"],
	"loader_denylist": ["frida"],
	"injection_env_vars": ["LD_PRELOAD"],
	"url_schemes": ["cydia"],
	"proxy_env_vars": ["HTTP_PROXY"],
	"vpn_prefixes": ["tun"],
	"binary_digest": ""
}`

func TestEmbeddedDefaultsAreValid(t *testing.T) {
	bundle, err := LoadBundleFromBytes(defaults.Baseline)
	require.NoError(t, err)

	assert.NotEmpty(t, bundle.Version)
	assert.NotEmpty(t, bundle.SentinelPaths)
	assert.NotEmpty(t, bundle.LoaderDenylist)
	assert.NotEmpty(t, bundle.InjectionEnvVars)
	assert.NotEmpty(t, bundle.URLSchemes)
}

func TestEmbeddedDefaultsCleanOnStockHost(t *testing.T) {
	// The default denylist must only contain tamper artifacts, never paths
	// that ship with a stock OS install; otherwise every default-config run
	// reports the host compromised.
	bundle, err := LoadBundleFromBytes(defaults.Baseline)
	require.NoError(t, err)

	for _, path := range bundle.SentinelPaths {
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "default sentinel path exists on this host: %s", path)
	}
	for _, path := range bundle.OpenablePaths {
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "default openable path exists on this host: %s", path)
	}
}

func TestLoadBundleRejectsMalformedJSON(t *testing.T) {
	_, err := LoadBundleFromBytes([]byte(`{"version": "1.0.0",`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestLoadBundleValidation(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{"missing version", `{"sentinel_paths":["/a"],"loader_denylist":["x"],"injection_env_vars":["Y"],"url_schemes":["s"]}`},
		{"empty sentinel paths", `{"version":"1","sentinel_paths":[],"loader_denylist":["x"],"injection_env_vars":["Y"],"url_schemes":["s"]}`},
		{"empty loader denylist", `{"version":"1","sentinel_paths":["/a"],"loader_denylist":[],"injection_env_vars":["Y"],"url_schemes":["s"]}`},
		{"empty env vars", `{"version":"1","sentinel_paths":["/a"],"loader_denylist":["x"],"injection_env_vars":[],"url_schemes":["s"]}`},
		{"empty url schemes", `{"version":"1","sentinel_paths":["/a"],"loader_denylist":["x"],"injection_env_vars":["Y"],"url_schemes":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadBundleFromBytes([]byte(tc.json))
			assert.Error(t, err)
		})
	}
}

func TestCatalogOptionsMirrorBundle(t *testing.T) {
	bundle, err := LoadBundleFromBytes([]byte(validBundleJSON))
	require.NoError(t, err)

	opts := bundle.CatalogOptions()
	assert.Equal(t, bundle.SentinelPaths, opts.SentinelPaths)
	assert.Equal(t, bundle.LoaderDenylist, opts.LoaderDenylist)
	assert.Equal(t, bundle.InjectionEnvVars, opts.InjectionEnvVars)
	assert.Equal(t, bundle.URLSchemes, opts.URLSchemes)
	assert.Equal(t, bundle.VPNPrefixes, opts.VPNPrefixes)
	assert.Equal(t, bundle.BinaryDigest, opts.BinaryDigest)
}

func TestStoreFallsBackToEmbedded(t *testing.T) {
	store := NewStoreAt(t.TempDir())
	require.NoError(t, store.Load())

	assert.True(t, store.IsLoaded())
	assert.Equal(t, "embedded", store.Source())
	assert.NotEmpty(t, store.Version())
	assert.NotNil(t, store.GetBundle())
}

func TestStoreLoadsFileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, bundleFileName)
	require.NoError(t, os.WriteFile(path, []byte(validBundleJSON), 0o644))

	store := NewStoreAt(dir)
	require.NoError(t, store.Load())

	assert.Equal(t, "9.9.9", store.Version())
	assert.Equal(t, path, store.Source())
}

func TestStoreLoadFailsOnInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, bundleFileName), []byte("not json"), 0o644))

	store := NewStoreAt(dir)
	assert.Error(t, store.Load())
}

func TestStoreReloadSwapsBundle(t *testing.T) {
	dir := t.TempDir()
	store := NewStoreAt(dir)
	require.NoError(t, store.Load())
	require.Equal(t, "embedded", store.Source())

	path := filepath.Join(dir, bundleFileName)
	require.NoError(t, os.WriteFile(path, []byte(validBundleJSON), 0o644))
	require.NoError(t, store.Reload())
	assert.Equal(t, "9.9.9", store.Version())

	// Detection runs hold their own bundle reference across reloads.
	held := store.GetBundle()
	require.NoError(t, os.Remove(path))
	require.NoError(t, store.Reload())
	assert.Equal(t, "embedded", store.Source())
	assert.Equal(t, "9.9.9", held.Version)
}

func TestStoreBeforeLoad(t *testing.T) {
	store := NewStoreAt(t.TempDir())
	assert.False(t, store.IsLoaded())
	assert.Nil(t, store.GetBundle())
	assert.Empty(t, store.Version())
}
