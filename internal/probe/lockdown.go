package probe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

const defaultLockdownPath = "/sys/kernel/security/lockdown"

// LockdownProbe reads the kernel-reported lockdown state. The file lists all
// modes with the active one bracketed, e.g. "none [integrity] confidentiality".
// Any active mode other than "none" is reported. Hosts without the lockdown
// LSM are inconclusive.
type LockdownProbe struct {
	// Path overrides /sys/kernel/security/lockdown for tests.
	Path string
}

func (p *LockdownProbe) ID() string                    { return "lockdown-mode" }
func (p *LockdownProbe) Category() types.ProbeCategory { return types.CategoryLockdownMode }

func (p *LockdownProbe) Evaluate(ctx context.Context) (types.ProbeOutcome, error) {
	if err := ctx.Err(); err != nil {
		return types.ProbeOutcome{}, err
	}
	path := p.Path
	if path == "" {
		path = defaultLockdownPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ProbeOutcome{}, fmt.Errorf("lockdown state unavailable: %w", err)
	}

	mode := activeLockdownMode(string(data))
	if mode == "" {
		return types.ProbeOutcome{}, fmt.Errorf("no active mode in lockdown state %q", strings.TrimSpace(string(data)))
	}
	if mode != "none" {
		return outcome(p, true, fmt.Sprintf("kernel lockdown active: %s", mode)), nil
	}
	return outcome(p, false, "kernel lockdown not active"), nil
}

// activeLockdownMode extracts the bracketed entry from a lockdown state line.
func activeLockdownMode(state string) string {
	for _, field := range strings.Fields(state) {
		if strings.HasPrefix(field, "[") && strings.HasSuffix(field, "]") {
			return strings.Trim(field, "[]")
		}
	}
	return ""
}
