// Package history is the caller-side snapshot store for detection results.
// The engine itself never persists anything; a caller wanting trend data
// snapshots results here after each run.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	started_at    TEXT NOT NULL,
	duration_ms   INTEGER NOT NULL,
	compromised   INTEGER NOT NULL,
	score         INTEGER NOT NULL,
	threat_count  INTEGER NOT NULL,
	outcomes_json TEXT NOT NULL,
	threats_json  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_started_at ON snapshots(started_at);
`

// Snapshot is one persisted detection run.
type Snapshot struct {
	ID          int64
	RunID       string
	StartedAt   time.Time
	DurationMs  int64
	Compromised bool
	Score       int
	Threats     []types.Threat
	Outcomes    []types.ProbeOutcome
}

// Store persists detection snapshots in a local SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the snapshot database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append stores one detection run with its classified threats and score.
func (s *Store) Append(result *types.DetectionResult, threats []types.Threat, score int) error {
	outcomesJSON, err := json.Marshal(result.Outcomes)
	if err != nil {
		return fmt.Errorf("marshal outcomes: %w", err)
	}
	threatsJSON, err := json.Marshal(threats)
	if err != nil {
		return fmt.Errorf("marshal threats: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO snapshots (run_id, started_at, duration_ms, compromised, score, threat_count, outcomes_json, threats_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.StartedAt.UTC().Format(time.RFC3339Nano),
		result.DurationMs,
		boolToInt(result.Compromised),
		score,
		len(threats),
		string(outcomesJSON),
		string(threatsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Recent returns up to n snapshots, most recent first. Ordering uses the
// autoincrement id (insertion order): started_at is stored as RFC3339Nano
// text, which drops trailing zeros and does not sort lexicographically
// within a second.
func (s *Store) Recent(n int) ([]Snapshot, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, started_at, duration_ms, compromised, score, outcomes_json, threats_json
		 FROM snapshots ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var snap Snapshot
		var startedAt, outcomesJSON, threatsJSON string
		var compromised int
		if err := rows.Scan(&snap.ID, &snap.RunID, &startedAt, &snap.DurationMs, &compromised, &snap.Score, &outcomesJSON, &threatsJSON); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		snap.Compromised = compromised != 0
		if ts, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			snap.StartedAt = ts
		}
		if err := json.Unmarshal([]byte(outcomesJSON), &snap.Outcomes); err != nil {
			return nil, fmt.Errorf("unmarshal outcomes: %w", err)
		}
		if err := json.Unmarshal([]byte(threatsJSON), &snap.Threats); err != nil {
			return nil, fmt.Errorf("unmarshal threats: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
