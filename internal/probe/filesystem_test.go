package probe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

func TestSentinelPathProbe(t *testing.T) {
	dir := t.TempDir()
	cydia := filepath.Join(dir, "Applications", "Cydia.app")

	p := &SentinelPathProbe{Paths: []string{cydia, filepath.Join(dir, "usr", "sbin", "frida-server")}}

	out, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Detected)
	assert.Equal(t, "fs-sentinel", out.ProbeID)
	assert.Equal(t, types.CategoryFilesystemSentinel, out.Category)

	require.NoError(t, os.MkdirAll(cydia, 0o755))

	out, err = p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Detected)
	assert.Contains(t, out.Detail, cydia)
}

func TestSentinelPathProbeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &SentinelPathProbe{Paths: []string{"/nonexistent"}}
	_, err := p.Evaluate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenabilityProbe(t *testing.T) {
	dir := t.TempDir()
	hidden := filepath.Join(dir, "MobileSubstrate.dylib")

	p := &OpenabilityProbe{Paths: []string{hidden}}

	out, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Detected)

	require.NoError(t, os.WriteFile(hidden, []byte("x"), 0o644))

	out, err = p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Detected)
	assert.Contains(t, out.Detail, hidden)
}

func TestSymlinkProbe(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "Applications")
	require.NoError(t, os.Mkdir(plain, 0o755))

	p := &SymlinkProbe{Paths: []string{plain}}
	out, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Detected)

	linked := filepath.Join(dir, "var_lib")
	require.NoError(t, os.Symlink(plain, linked))

	p = &SymlinkProbe{Paths: []string{linked}}
	out, err = p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Detected)
	assert.Contains(t, out.Detail, linked)
	assert.Equal(t, types.CategorySymbolicLink, out.Category)
}

func TestRestrictedWriteProbeDetectsWritableRoot(t *testing.T) {
	dir := t.TempDir()
	p := &RestrictedWriteProbe{Roots: []string{dir}}

	out, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Detected)
	assert.Contains(t, out.Detail, dir)

	// The probe file must not survive, even on the detected path.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "restricted-write probe left residue behind")
}

func TestRestrictedWriteProbeRejectedRoot(t *testing.T) {
	p := &RestrictedWriteProbe{Roots: []string{filepath.Join(t.TempDir(), "does", "not", "exist")}}

	out, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Detected)
	assert.Contains(t, out.Detail, "rejected")
}

func TestRestrictedWriteProbeCancelledLeavesNoResidue(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &RestrictedWriteProbe{Roots: []string{dir}}
	_, err := p.Evaluate(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}
