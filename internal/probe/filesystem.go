package probe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

// SentinelPathProbe checks a denylist of absolute paths whose presence is a
// known indicator of a modified OS install (package-manager directories,
// alternate shells, jailbreak app bundles, hooking-framework libraries,
// remote-shell daemons).
type SentinelPathProbe struct {
	Paths []string
}

func (p *SentinelPathProbe) ID() string                    { return "fs-sentinel" }
func (p *SentinelPathProbe) Category() types.ProbeCategory { return types.CategoryFilesystemSentinel }

func (p *SentinelPathProbe) Evaluate(ctx context.Context) (types.ProbeOutcome, error) {
	var found []string
	for _, path := range p.Paths {
		if err := ctx.Err(); err != nil {
			return types.ProbeOutcome{}, err
		}
		if _, err := os.Stat(path); err == nil {
			found = append(found, path)
		}
	}
	if len(found) > 0 {
		return outcome(p, true, fmt.Sprintf("sentinel path(s) present: %s", strings.Join(found, ", "))), nil
	}
	return outcome(p, false, fmt.Sprintf("none of %d sentinel paths present", len(p.Paths))), nil
}

// OpenabilityProbe attempts to open (not just stat) a subset of sentinel
// paths. Some environments hide existence from stat but fail to block open.
type OpenabilityProbe struct {
	Paths []string
}

func (p *OpenabilityProbe) ID() string                    { return "fs-openability" }
func (p *OpenabilityProbe) Category() types.ProbeCategory { return types.CategoryFilesystemSentinel }

func (p *OpenabilityProbe) Evaluate(ctx context.Context) (types.ProbeOutcome, error) {
	var opened []string
	for _, path := range p.Paths {
		if err := ctx.Err(); err != nil {
			return types.ProbeOutcome{}, err
		}
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		f.Close()
		opened = append(opened, path)
	}
	if len(opened) > 0 {
		return outcome(p, true, fmt.Sprintf("restricted path(s) openable: %s", strings.Join(opened, ", "))), nil
	}
	return outcome(p, false, fmt.Sprintf("none of %d restricted paths openable", len(p.Paths))), nil
}

// SymlinkProbe checks paths that are plain files or directories by default;
// a symbolic link there is typical of filesystem remounting during jailbreak.
type SymlinkProbe struct {
	Paths []string
}

func (p *SymlinkProbe) ID() string                    { return "fs-symlink" }
func (p *SymlinkProbe) Category() types.ProbeCategory { return types.CategorySymbolicLink }

func (p *SymlinkProbe) Evaluate(ctx context.Context) (types.ProbeOutcome, error) {
	var links []string
	for _, path := range p.Paths {
		if err := ctx.Err(); err != nil {
			return types.ProbeOutcome{}, err
		}
		fi, err := os.Lstat(path)
		if err != nil {
			continue
		}
		if fi.Mode()&os.ModeSymlink != 0 {
			links = append(links, path)
		}
	}
	if len(links) > 0 {
		return outcome(p, true, fmt.Sprintf("unexpected symlink(s): %s", strings.Join(links, ", "))), nil
	}
	return outcome(p, false, fmt.Sprintf("no unexpected symlinks among %d paths", len(p.Paths))), nil
}
