// Package probe implements the host-integrity probe catalog. Each probe is
// an independent, side-effect-bounded inspection of ambient OS state that
// yields a single ProbeOutcome per run. Probes own no persistent state and
// never abort the run: internal failures are returned as errors, which the
// engine degrades to an inconclusive (Detected=false) outcome.
package probe

import (
	"context"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

// Probe is a single host inspection. Evaluate returns either a complete
// outcome or an error meaning "inconclusive" — never both, never a panic.
type Probe interface {
	// ID returns the probe's stable identifier.
	ID() string
	// Category returns the probe's single category.
	Category() types.ProbeCategory
	// Evaluate inspects the host and returns the outcome. A returned error
	// means the inspection could not be completed; the engine converts it to
	// a Detected:false outcome carrying the error text.
	Evaluate(ctx context.Context) (types.ProbeOutcome, error)
}

// outcome builds a ProbeOutcome stamped with the probe's identity.
func outcome(p Probe, detected bool, detail string) types.ProbeOutcome {
	return types.ProbeOutcome{
		ProbeID:  p.ID(),
		Category: p.Category(),
		Detected: detected,
		Detail:   detail,
	}
}

// Options carries the host inputs every catalog probe is parameterized on.
// Production values come from the baseline bundle; tests point the fields at
// fixtures instead.
type Options struct {
	SentinelPaths    []string
	OpenablePaths    []string
	WritableRoots    []string
	SymlinkPaths     []string
	LoaderDenylist   []string
	InjectionEnvVars []string
	URLSchemes       []string
	ProxyEnvVars     []string
	VPNPrefixes      []string
	BinaryDigest     string
}

// NewCatalog builds the fixed, ordered probe catalog from the given options.
// The order is the reporting order of every run; the returned slice is never
// mutated by the engine.
func NewCatalog(opts Options) []Probe {
	return []Probe{
		&SentinelPathProbe{Paths: opts.SentinelPaths},
		&OpenabilityProbe{Paths: opts.OpenablePaths},
		&RestrictedWriteProbe{Roots: opts.WritableRoots},
		&SymlinkProbe{Paths: opts.SymlinkPaths},
		&LoaderImageProbe{Denylist: opts.LoaderDenylist},
		&InjectionEnvProbe{Vars: opts.InjectionEnvVars},
		&URLSchemeProbe{Schemes: opts.URLSchemes},
		&TraceFlagProbe{},
		&ExceptionHandlerProbe{},
		&BinaryHashProbe{ExpectedDigest: opts.BinaryDigest},
		&NetworkPostureProbe{ProxyVars: opts.ProxyEnvVars, VPNPrefixes: opts.VPNPrefixes},
		&LockdownProbe{},
		&EmulatorProbe{},
	}
}
