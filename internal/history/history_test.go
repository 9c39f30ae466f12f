package history

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func resultAt(runID string, at time.Time, compromised bool) *types.DetectionResult {
	return &types.DetectionResult{
		RunID:       runID,
		StartedAt:   at,
		DurationMs:  15,
		Host:        types.HostInfo{Hostname: "handset-7", OS: "linux", Arch: "arm64"},
		Compromised: compromised,
		Outcomes: []types.ProbeOutcome{
			{ProbeID: "fs-sentinel", Category: types.CategoryFilesystemSentinel, Detected: compromised, Detail: "checked"},
		},
	}
}

func TestAppendAndRecentRoundTrip(t *testing.T) {
	store := openTestStore(t)

	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	threats := []types.Threat{
		{Kind: types.ThreatTamperArtifact, Severity: types.SeverityHigh, Description: "[filesystem-sentinel] Cydia.app present", Timestamp: at},
	}
	require.NoError(t, store.Append(resultAt("run-1", at, true), threats, 80))

	snapshots, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)

	snap := snapshots[0]
	assert.Equal(t, "run-1", snap.RunID)
	assert.True(t, snap.StartedAt.Equal(at))
	assert.True(t, snap.Compromised)
	assert.Equal(t, 80, snap.Score)
	require.Len(t, snap.Outcomes, 1)
	assert.Equal(t, "fs-sentinel", snap.Outcomes[0].ProbeID)
	require.Len(t, snap.Threats, 1)
	assert.Equal(t, types.ThreatTamperArtifact, snap.Threats[0].Kind)
}

func TestRecentOrdersNewestFirstAndLimits(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		result := resultAt(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Minute), false)
		require.NoError(t, store.Append(result, nil, 100))
	}

	snapshots, err := store.Recent(3)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.Equal(t, "run-4", snapshots[0].RunID)
	assert.Equal(t, "run-3", snapshots[1].RunID)
	assert.Equal(t, "run-2", snapshots[2].RunID)
}

func TestRecentOrderStableWithinOneSecond(t *testing.T) {
	store := openTestStore(t)

	// RFC3339Nano drops trailing zeros, so "…:00Z" sorts lexicographically
	// after "…:00.5Z"; insertion order must win regardless.
	earlier := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	later := time.Date(2026, 8, 1, 10, 0, 0, 500_000_000, time.UTC)
	require.NoError(t, store.Append(resultAt("run-earlier", earlier, false), nil, 100))
	require.NoError(t, store.Append(resultAt("run-later", later, false), nil, 100))

	snapshots, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "run-later", snapshots[0].RunID)
	assert.Equal(t, "run-earlier", snapshots[1].RunID)
}

func TestRecentEmptyStore(t *testing.T) {
	store := openTestStore(t)
	snapshots, err := store.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestCleanRunStoresNoThreats(t *testing.T) {
	store := openTestStore(t)
	at := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(resultAt("run-clean", at, false), nil, 100))

	snapshots, err := store.Recent(1)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.False(t, snapshots[0].Compromised)
	assert.Empty(t, snapshots[0].Threats)
}
