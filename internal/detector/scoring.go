package detector

import "github.com/cheng-ren/SecuScope/pkg/types"

// ScoringPolicy derives a 0-100 posture score from a threat set by additive
// per-severity deduction. Multiple low-severity threats can drive the score
// to zero exactly as a single critical one can; the score is a coarse
// indicator for presentation, not a calibrated probability.
type ScoringPolicy struct {
	Weights map[types.Severity]int
}

// DefaultScoringPolicy returns the canonical per-severity deduction table.
func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		Weights: map[types.Severity]int{
			types.SeverityCritical: 30,
			types.SeverityHigh:     20,
			types.SeverityMedium:   10,
			types.SeverityLow:      5,
		},
	}
}

// Score starts at 100, subtracts the weight of each threat's severity, and
// clamps to [0,100].
func (p ScoringPolicy) Score(threats []types.Threat) int {
	score := 100
	for _, t := range threats {
		score -= p.Weights[t.Severity]
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
