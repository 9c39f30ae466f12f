// Package detector classifies positive probe outcomes into typed threats
// and scores the resulting threat set.
package detector

import (
	"fmt"
	"time"

	"github.com/cheng-ren/SecuScope/internal/logger"
	"github.com/cheng-ren/SecuScope/pkg/types"
)

type classification struct {
	Kind     types.ThreatKind
	Severity types.Severity
}

// classificationTable maps every probe category to exactly one threat kind
// and severity. High-confidence compromise indicators (binary tampering,
// code injection, writable system roots, debugger attachment) classify
// critical or high; ambient indicators that are common in legitimate
// environments (emulators, proxies, lockdown) classify medium or low.
var classificationTable = map[types.ProbeCategory]classification{
	types.CategoryBinaryIntegrity:    {types.ThreatTamperedBinary, types.SeverityCritical},
	types.CategoryDynamicLoaderImage: {types.ThreatCodeInjection, types.SeverityCritical},
	types.CategoryFilesystemSentinel: {types.ThreatTamperArtifact, types.SeverityHigh},
	types.CategoryRestrictedWrite:    {types.ThreatWritableSystem, types.SeverityHigh},
	types.CategoryURLSchemeCapable:   {types.ThreatTamperTooling, types.SeverityHigh},
	types.CategoryProcessTraceFlag:   {types.ThreatDebuggerAttached, types.SeverityHigh},
	types.CategoryExceptionPort:      {types.ThreatDebuggerAttached, types.SeverityHigh},
	types.CategoryEnvironmentVar:     {types.ThreatInjectionEnvironment, types.SeverityMedium},
	types.CategorySymbolicLink:       {types.ThreatFilesystemRedirect, types.SeverityMedium},
	types.CategoryEmulatorHeuristic:  {types.ThreatEmulatedEnvironment, types.SeverityMedium},
	types.CategoryNetworkProxy:       {types.ThreatTrafficInterception, types.SeverityLow},
	types.CategoryLockdownMode:       {types.ThreatRestrictedMode, types.SeverityLow},
}

// Classification returns the threat kind and severity a positive outcome in
// the given category classifies to, and whether the category is known.
func Classification(category types.ProbeCategory) (types.ThreatKind, types.Severity, bool) {
	c, ok := classificationTable[category]
	return c.Kind, c.Severity, ok
}

// Classify maps each positive outcome to exactly one threat. Threats carry
// the run start time; they are rebuilt on every run and never stored by the
// engine. Outcomes with Detected=false contribute nothing.
func Classify(outcomes []types.ProbeOutcome, at time.Time) []types.Threat {
	var threats []types.Threat
	for _, o := range outcomes {
		if !o.Detected {
			continue
		}
		c, ok := classificationTable[o.Category]
		if !ok {
			// The table is total over the catalog; an unknown category means
			// a probe was added without a classification entry.
			logger.Warn("No classification for category %s (probe %s)", o.Category, o.ProbeID)
			continue
		}
		threat := types.Threat{
			Kind:        c.Kind,
			Severity:    c.Severity,
			Description: fmt.Sprintf("[%s] %s", o.Category, o.Detail),
			Timestamp:   at,
		}
		logger.ThreatInfo(string(threat.Kind), string(threat.Severity), threat.Description)
		threats = append(threats, threat)
	}
	return threats
}
