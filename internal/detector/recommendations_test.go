package detector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

func TestRecommendationsCleanHostFallback(t *testing.T) {
	recs := Recommendations(nil)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "No threats detected")
}

func TestRecommendationsDeduplicatePerKind(t *testing.T) {
	at := time.Now()
	threats := []types.Threat{
		{Kind: types.ThreatTamperArtifact, Severity: types.SeverityHigh, Description: "Cydia.app", Timestamp: at},
		{Kind: types.ThreatTamperArtifact, Severity: types.SeverityHigh, Description: "Sileo.app", Timestamp: at},
		{Kind: types.ThreatTamperArtifact, Severity: types.SeverityHigh, Description: "frida-server", Timestamp: at},
	}
	recs := Recommendations(threats)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "stock OS image")
}

func TestRecommendationsDeterministicOrder(t *testing.T) {
	at := time.Now()
	// Input deliberately unordered; output follows the fixed remediation order.
	threats := []types.Threat{
		{Kind: types.ThreatTrafficInterception, Severity: types.SeverityLow, Timestamp: at},
		{Kind: types.ThreatTamperedBinary, Severity: types.SeverityCritical, Timestamp: at},
		{Kind: types.ThreatDebuggerAttached, Severity: types.SeverityHigh, Timestamp: at},
	}

	first := Recommendations(threats)
	require.Len(t, first, 3)
	assert.Contains(t, first[0], "Reinstall the application")
	assert.Contains(t, first[1], "Detach debuggers")
	assert.Contains(t, first[2], "proxy/VPN")

	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Recommendations(threats))
	}
}

func TestRecommendationsCoverEveryKind(t *testing.T) {
	at := time.Now()
	for _, kind := range remediationOrder {
		recs := Recommendations([]types.Threat{{Kind: kind, Severity: types.SeverityMedium, Timestamp: at}})
		require.Len(t, recs, 1, "kind %s", kind)
		assert.NotEmpty(t, recs[0])
	}
}
