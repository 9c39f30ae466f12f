package probe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLockdownProbe(t *testing.T) {
	tests := []struct {
		name         string
		state        string
		wantDetected bool
	}{
		{"not active", "[none] integrity confidentiality\n", false},
		{"integrity mode", "none [integrity] confidentiality\n", true},
		{"confidentiality mode", "none integrity [confidentiality]\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &LockdownProbe{Path: writeFixture(t, "lockdown", tt.state)}
			out, err := p.Evaluate(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantDetected, out.Detected)
		})
	}
}

func TestLockdownProbeUnavailable(t *testing.T) {
	p := &LockdownProbe{Path: filepath.Join(t.TempDir(), "missing")}
	_, err := p.Evaluate(context.Background())
	assert.Error(t, err)
}

func TestLockdownProbeMalformed(t *testing.T) {
	p := &LockdownProbe{Path: writeFixture(t, "lockdown", "garbage\n")}
	_, err := p.Evaluate(context.Background())
	assert.Error(t, err)
}

func TestEmulatorProbePhysicalHost(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	p := &EmulatorProbe{
		DMIProductPath:    writeFixture(t, "product_name", "ThinkPad X1 Carbon\n"),
		CPUInfoPath:       writeFixture(t, "cpuinfo", "processor\t: 0\nflags\t\t: fpu vme sse2\n"),
		ContainerSentinel: missing,
	}
	out, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Detected)
}

func TestEmulatorProbeDetectsQEMU(t *testing.T) {
	p := &EmulatorProbe{
		DMIProductPath:    writeFixture(t, "product_name", "QEMU Standard PC (Q35 + ICH9)\n"),
		CPUInfoPath:       writeFixture(t, "cpuinfo", "flags\t\t: fpu vme\n"),
		ContainerSentinel: filepath.Join(t.TempDir(), "nope"),
	}
	out, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Detected)
	assert.Contains(t, out.Detail, "QEMU")
}

func TestEmulatorProbeDetectsHypervisorFlag(t *testing.T) {
	p := &EmulatorProbe{
		DMIProductPath:    writeFixture(t, "product_name", "Generic Board\n"),
		CPUInfoPath:       writeFixture(t, "cpuinfo", "flags\t\t: fpu vme hypervisor sse2\n"),
		ContainerSentinel: filepath.Join(t.TempDir(), "nope"),
	}
	out, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Detected)
	assert.Contains(t, out.Detail, "hypervisor CPU flag")
}

func TestEmulatorProbeDetectsContainerSentinel(t *testing.T) {
	p := &EmulatorProbe{
		DMIProductPath:    writeFixture(t, "product_name", "Generic Board\n"),
		CPUInfoPath:       writeFixture(t, "cpuinfo", "flags\t\t: fpu\n"),
		ContainerSentinel: writeFixture(t, "dockerenv", ""),
	}
	out, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Detected)
	assert.Contains(t, out.Detail, "container sentinel")
}
