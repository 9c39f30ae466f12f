// Package report renders detection results into a stable, diffable text
// report. Formatting is a pure function of its inputs: the only timestamps
// rendered come from the result and threats themselves, so formatting the
// same inputs twice is byte-identical.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

const separator = "--------------------------------------------------------------------------------"
const banner = "================================================================================"

// Formatter renders detection results.
type Formatter struct{}

// New creates a Formatter.
func New() *Formatter {
	return &Formatter{}
}

// Format renders, in deterministic order: the per-probe pass/flag summary in
// catalog order, the threat list sorted severity-descending, the posture
// score, and the remediation recommendations.
func (f *Formatter) Format(result *types.DetectionResult, threats []types.Threat, score int, recommendations []string) string {
	var b strings.Builder

	b.WriteString(banner + "\n")
	b.WriteString("                    SECUSCOPE - DEVICE INTEGRITY REPORT\n")
	b.WriteString(banner + "\n\n")
	fmt.Fprintf(&b, "Run ID:     %s\n", result.RunID)
	fmt.Fprintf(&b, "Started:    %s\n", result.StartedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Duration:   %d ms\n", result.DurationMs)
	fmt.Fprintf(&b, "Host:       %s (%s/%s)\n\n", result.Host.Hostname, result.Host.OS, result.Host.Arch)

	b.WriteString(f.Comparable(result, threats, score, recommendations))
	return b.String()
}

// Comparable renders the report body without the run-stamped header, so two
// runs against an unchanged environment produce identical strings. Used by
// idempotence tests and callers diffing consecutive runs.
func (f *Formatter) Comparable(result *types.DetectionResult, threats []types.Threat, score int, recommendations []string) string {
	var b strings.Builder

	verdict := "NOT COMPROMISED"
	if result.Compromised {
		verdict = "COMPROMISED"
	}
	fmt.Fprintf(&b, "Verdict:    %s\n", verdict)
	fmt.Fprintf(&b, "Score:      %d/100\n\n", score)

	b.WriteString(separator + "\n")
	b.WriteString("PROBE SUMMARY\n")
	b.WriteString(separator + "\n")
	for _, o := range result.Outcomes {
		flag := "PASS"
		if o.Detected {
			flag = "FLAG"
		}
		fmt.Fprintf(&b, "  [%s] %-18s %-22s %s\n", flag, o.ProbeID, o.Category, o.Detail)
	}
	b.WriteString("\n")

	b.WriteString(separator + "\n")
	b.WriteString("THREATS\n")
	b.WriteString(separator + "\n")
	if len(threats) == 0 {
		b.WriteString("  No threats classified.\n")
	} else {
		for i, t := range sortThreats(threats) {
			fmt.Fprintf(&b, "  [%d] [%s] %s\n      %s\n", i+1, strings.ToUpper(string(t.Severity)), t.Kind, t.Description)
		}
	}
	b.WriteString("\n")

	b.WriteString(separator + "\n")
	b.WriteString("RECOMMENDATIONS\n")
	b.WriteString(separator + "\n")
	for _, rec := range recommendations {
		fmt.Fprintf(&b, "  - %s\n", rec)
	}

	return b.String()
}

// sortThreats orders threats severity-descending, then by kind, then by
// description, without mutating the input.
func sortThreats(threats []types.Threat) []types.Threat {
	sorted := make([]types.Threat, len(threats))
	copy(sorted, threats)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := types.SeverityRank(sorted[i].Severity), types.SeverityRank(sorted[j].Severity)
		if ri != rj {
			return ri > rj
		}
		if sorted[i].Kind != sorted[j].Kind {
			return sorted[i].Kind < sorted[j].Kind
		}
		return sorted[i].Description < sorted[j].Description
	})
	return sorted
}
