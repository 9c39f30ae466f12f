// Package types defines the core data structures for the SecuScope
// device-integrity engine and the report contract shared with the
// peripheral analyzer domains.
package types

import (
	"context"
	"time"
)

// ProbeCategory identifies the kind of host inspection a probe performs.
// Categories are stable identifiers used for filtering and reporting;
// every probe belongs to exactly one category.
type ProbeCategory string

const (
	CategoryFilesystemSentinel ProbeCategory = "filesystem-sentinel"
	CategoryProcessTraceFlag   ProbeCategory = "process-trace-flag"
	CategoryExceptionPort      ProbeCategory = "exception-port"
	CategoryDynamicLoaderImage ProbeCategory = "dynamic-loader-image"
	CategoryEnvironmentVar     ProbeCategory = "environment-variable"
	CategoryURLSchemeCapable   ProbeCategory = "url-scheme-capability"
	CategoryRestrictedWrite    ProbeCategory = "restricted-write"
	CategorySymbolicLink       ProbeCategory = "symbolic-link"
	CategoryBinaryIntegrity    ProbeCategory = "binary-integrity-hash"
	CategoryNetworkProxy       ProbeCategory = "network-proxy"
	CategoryLockdownMode       ProbeCategory = "lockdown-mode"
	CategoryEmulatorHeuristic  ProbeCategory = "emulator-heuristic"
)

// AllCategories lists every probe category in catalog order.
var AllCategories = []ProbeCategory{
	CategoryFilesystemSentinel,
	CategoryRestrictedWrite,
	CategorySymbolicLink,
	CategoryDynamicLoaderImage,
	CategoryEnvironmentVar,
	CategoryURLSchemeCapable,
	CategoryProcessTraceFlag,
	CategoryExceptionPort,
	CategoryBinaryIntegrity,
	CategoryNetworkProxy,
	CategoryLockdownMode,
	CategoryEmulatorHeuristic,
}

// ProbeOutcome is the result of a single probe evaluation. Outcomes are
// immutable once produced; one outcome is emitted per catalog probe per run,
// even when the probe fails internally (Detected stays false and Detail
// explains the inconclusive state).
type ProbeOutcome struct {
	ProbeID  string        `json:"probe_id"`
	Category ProbeCategory `json:"category"`
	Detected bool          `json:"detected"`
	Detail   string        `json:"detail"`
}

// DetectionResult is the complete outcome of one engine run. Outcomes are
// ordered by catalog position, so two runs against an unchanged environment
// report them in identical order.
type DetectionResult struct {
	RunID       string         `json:"run_id"`
	StartedAt   time.Time      `json:"started_at"`
	DurationMs  int64          `json:"duration_ms"`
	Host        HostInfo       `json:"host"`
	Compromised bool           `json:"compromised"`
	Outcomes    []ProbeOutcome `json:"outcomes"`
}

// Severity grades how strong a compromise indicator a threat is.
type Severity string

// Severity constants, ordered from least to most severe.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityRank returns a sortable rank for a severity; higher is more
// severe. Unknown severities rank below low.
func SeverityRank(severity Severity) int {
	switch severity {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ThreatKind classifies what a positive probe outcome implies about the host.
type ThreatKind string

const (
	ThreatTamperedBinary       ThreatKind = "tampered-binary"
	ThreatCodeInjection        ThreatKind = "code-injection"
	ThreatTamperArtifact       ThreatKind = "tamper-artifact"
	ThreatWritableSystem       ThreatKind = "writable-system"
	ThreatTamperTooling        ThreatKind = "tamper-tooling"
	ThreatDebuggerAttached     ThreatKind = "debugger-attached"
	ThreatInjectionEnvironment ThreatKind = "injection-environment"
	ThreatFilesystemRedirect   ThreatKind = "filesystem-redirect"
	ThreatEmulatedEnvironment  ThreatKind = "emulated-environment"
	ThreatTrafficInterception  ThreatKind = "traffic-interception"
	ThreatRestrictedMode       ThreatKind = "restricted-mode"
)

// Threat is a classified, severity-tagged finding derived from a positive
// probe outcome. Threats are ephemeral: rebuilt on every run, never stored
// by the engine.
type Threat struct {
	Kind        ThreatKind `json:"kind"`
	Severity    Severity   `json:"severity"`
	Description string     `json:"description"`
	Timestamp   time.Time  `json:"timestamp"`
}

// HostInfo describes the host the engine ran on.
type HostInfo struct {
	Hostname    string   `json:"hostname"`
	OS          string   `json:"os"`
	Arch        string   `json:"arch"`
	IPAddresses []string `json:"ip_addresses,omitempty"`
}

// Finding is one entry of the report shape shared by all analyzer domains.
type Finding struct {
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// AuditReport is the report shape every analyzer domain exposes, so a caller
// can aggregate the integrity engine and the peripheral weakness scanners
// behind one interface without knowing which produce real probe results.
type AuditReport struct {
	Domain          string    `json:"domain"`
	Findings        []Finding `json:"findings"`
	Score           int       `json:"score"`
	Recommendations []string  `json:"recommendations"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Auditor is the single interface callers aggregate analyzer domains behind.
type Auditor interface {
	// Name returns the analyzer domain name (e.g. "device-integrity").
	Name() string
	// Audit runs the analyzer and returns its report.
	Audit(ctx context.Context) (AuditReport, error)
}

// ThreatCount tallies threats by severity.
type ThreatCount struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// CountThreats tallies a threat set by severity.
func CountThreats(threats []Threat) ThreatCount {
	var c ThreatCount
	for _, t := range threats {
		switch t.Severity {
		case SeverityCritical:
			c.Critical++
		case SeverityHigh:
			c.High++
		case SeverityMedium:
			c.Medium++
		case SeverityLow:
			c.Low++
		}
	}
	return c
}

// Total returns the total number of counted threats.
func (c ThreatCount) Total() int {
	return c.Critical + c.High + c.Medium + c.Low
}
