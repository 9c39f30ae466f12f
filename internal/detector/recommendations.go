package detector

import "github.com/cheng-ren/SecuScope/pkg/types"

// remediationOrder fixes the output order of recommendations so the same
// threat set always produces the same list.
var remediationOrder = []types.ThreatKind{
	types.ThreatTamperedBinary,
	types.ThreatCodeInjection,
	types.ThreatTamperArtifact,
	types.ThreatWritableSystem,
	types.ThreatTamperTooling,
	types.ThreatDebuggerAttached,
	types.ThreatInjectionEnvironment,
	types.ThreatFilesystemRedirect,
	types.ThreatEmulatedEnvironment,
	types.ThreatTrafficInterception,
	types.ThreatRestrictedMode,
}

var remediationText = map[types.ThreatKind]string{
	types.ThreatTamperedBinary:       "Reinstall the application from a trusted source; the running binary does not match its attested digest.",
	types.ThreatCodeInjection:        "Remove injected instrumentation frameworks and restart the application from a clean environment.",
	types.ThreatTamperArtifact:       "Restore the device to a stock OS image; jailbreak/root tooling artifacts were found on the filesystem.",
	types.ThreatWritableSystem:       "Reflash or factory-reset the device; system areas that must be read-only accepted writes.",
	types.ThreatTamperTooling:        "Uninstall jailbreak management applications before handling sensitive data.",
	types.ThreatDebuggerAttached:     "Detach debuggers and instrumentation tools; do not process sensitive data while traced.",
	types.ThreatInjectionEnvironment: "Unset library-injection environment variables and restart the application.",
	types.ThreatFilesystemRedirect:   "Investigate unexpected symbolic links on system paths; they indicate filesystem remounting.",
	types.ThreatEmulatedEnvironment:  "Confirm the workload is expected to run under emulation; restrict production use to physical devices.",
	types.ThreatTrafficInterception:  "Verify the active proxy/VPN is sanctioned; traffic may be observable by an intermediary.",
	types.ThreatRestrictedMode:       "Review the kernel lockdown configuration against your deployment policy.",
}

// Recommendations returns static remediation guidance for the threat kinds
// present, in deterministic order, deduplicated across threats of one kind.
func Recommendations(threats []types.Threat) []string {
	present := make(map[types.ThreatKind]bool, len(threats))
	for _, t := range threats {
		present[t.Kind] = true
	}
	var recs []string
	for _, kind := range remediationOrder {
		if present[kind] {
			recs = append(recs, remediationText[kind])
		}
	}
	if len(recs) == 0 {
		recs = append(recs, "No threats detected. Keep the OS and application up to date and re-run checks periodically.")
	}
	return recs
}
