package detector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

func threatsOf(severities ...types.Severity) []types.Threat {
	at := time.Now()
	threats := make([]types.Threat, 0, len(severities))
	for _, s := range severities {
		threats = append(threats, types.Threat{Kind: types.ThreatTamperArtifact, Severity: s, Timestamp: at})
	}
	return threats
}

func TestScoreCleanHostIsFull(t *testing.T) {
	policy := DefaultScoringPolicy()
	assert.Equal(t, 100, policy.Score(nil))
	assert.Equal(t, 100, policy.Score([]types.Threat{}))
}

func TestScoreDefaultWeights(t *testing.T) {
	policy := DefaultScoringPolicy()

	assert.Equal(t, 70, policy.Score(threatsOf(types.SeverityCritical)))
	assert.Equal(t, 80, policy.Score(threatsOf(types.SeverityHigh)))
	assert.Equal(t, 90, policy.Score(threatsOf(types.SeverityMedium)))
	assert.Equal(t, 95, policy.Score(threatsOf(types.SeverityLow)))
	assert.Equal(t, 45, policy.Score(threatsOf(types.SeverityCritical, types.SeverityHigh, types.SeverityLow)))
}

func TestScoreClampsToZero(t *testing.T) {
	policy := DefaultScoringPolicy()
	severities := make([]types.Severity, 0, 6)
	for i := 0; i < 6; i++ {
		severities = append(severities, types.SeverityCritical)
	}
	assert.Equal(t, 0, policy.Score(threatsOf(severities...)))
}

func TestScoreMonotonicInThreatCount(t *testing.T) {
	policy := DefaultScoringPolicy()
	prev := 100
	severities := []types.Severity{}
	for i := 0; i < 4; i++ {
		severities = append(severities, types.SeverityMedium)
		score := policy.Score(threatsOf(severities...))
		assert.LessOrEqual(t, score, prev)
		prev = score
	}
}

func TestScoreUnknownSeverityDeductsNothing(t *testing.T) {
	policy := DefaultScoringPolicy()
	assert.Equal(t, 100, policy.Score(threatsOf("unheard-of")))
}
