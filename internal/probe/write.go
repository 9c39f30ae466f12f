package probe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

// RestrictedWriteProbe attempts to create a file inside roots that must be
// read-only on an uncompromised host. A successful write means the sandbox
// boundary is broken. The probe file is removed on every exit path,
// including cancellation and the detected-success path; a failed removal is
// surfaced in the detail so operators notice the residue.
type RestrictedWriteProbe struct {
	Roots []string
}

func (p *RestrictedWriteProbe) ID() string                    { return "restricted-write" }
func (p *RestrictedWriteProbe) Category() types.ProbeCategory { return types.CategoryRestrictedWrite }

func (p *RestrictedWriteProbe) Evaluate(ctx context.Context) (types.ProbeOutcome, error) {
	var writable []string
	var residue []string
	for _, root := range p.Roots {
		if err := ctx.Err(); err != nil {
			return types.ProbeOutcome{}, err
		}
		if ok, leftover := p.tryWrite(root); ok {
			writable = append(writable, root)
			if leftover != "" {
				residue = append(residue, leftover)
			}
		}
	}
	switch {
	case len(writable) > 0 && len(residue) > 0:
		return outcome(p, true, fmt.Sprintf("restricted root(s) writable: %s (CLEANUP FAILED, residue: %s)",
			strings.Join(writable, ", "), strings.Join(residue, ", "))), nil
	case len(writable) > 0:
		return outcome(p, true, fmt.Sprintf("restricted root(s) writable: %s (probe file removed)",
			strings.Join(writable, ", "))), nil
	default:
		return outcome(p, false, fmt.Sprintf("all %d restricted roots rejected writes", len(p.Roots))), nil
	}
}

// tryWrite creates and removes a probe file under root. The removal is a
// defer so it runs on every return path. leftover names the probe file when
// removal failed.
func (p *RestrictedWriteProbe) tryWrite(root string) (wrote bool, leftover string) {
	path := filepath.Join(root, fmt.Sprintf(".secuscope_wtest_%d", os.Getpid()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return false, ""
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil {
			leftover = path
		}
	}()
	f.WriteString("secuscope write probe")
	f.Close()
	return true, ""
}
