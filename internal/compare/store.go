// Package compare persists and matches reconstruction results across
// the three track-finding engines, so that a discrepancy between, say,
// Track-Following and Search-by-Triplet-Trie on the same event can be
// inspected after the fact. Grounded on the teacher's internal/db
// (embedded schema, *sql.DB wrapper) and internal/lidar's Hungarian
// cluster-to-track matcher (SPEC_FULL §11, §12).
package compare

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/veloxtrack/velopix/internal/model"
	"github.com/veloxtrack/velopix/internal/obslog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a sqlite-backed home for cross-engine comparison runs.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// applies any pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("compare: open %s: %w", path, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("compare: set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("compare: set busy_timeout: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("compare: load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("compare: migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("compare: migration setup: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return nil, fmt.Errorf("compare: apply migrations: %w", err)
	}
	obslog.Logf("compare: opened store at %s", path)

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun matches tracksA against tracksB and persists the run plus
// every per-track match under a fresh UUID run id, returning that id.
func (s *Store) RecordRun(eventLabel, engineA, engineB string, tracksA, tracksB []model.Track) (uuid.UUID, error) {
	runID := uuid.New()
	matches := MatchTracks(tracksA, tracksB)

	tx, err := s.db.Begin()
	if err != nil {
		return runID, fmt.Errorf("compare: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO comparison_run (run_id, created_at, event_label, engine_a, engine_b) VALUES (?, ?, ?, ?, ?)`,
		runID.String(), time.Now().Unix(), eventLabel, engineA, engineB,
	); err != nil {
		return runID, fmt.Errorf("compare: insert run: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO track_match (run_id, track_a_idx, track_b_idx, iou, hits_a, hits_b, hits_shared) VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return runID, fmt.Errorf("compare: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range matches {
		var trackB sql.NullInt64
		if m.TrackBIdx >= 0 {
			trackB = sql.NullInt64{Int64: int64(m.TrackBIdx), Valid: true}
		}
		if _, err := stmt.Exec(runID.String(), m.TrackAIdx, trackB, m.IoU, m.HitsA, m.HitsB, m.HitsShared); err != nil {
			return runID, fmt.Errorf("compare: insert match: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return runID, fmt.Errorf("compare: commit tx: %w", err)
	}
	return runID, nil
}

// RunSummary aggregates a run's matches into a quick agreement score.
type RunSummary struct {
	RunID      uuid.UUID
	EventLabel string
	EngineA    string
	EngineB    string
	TracksA    int
	Matched    int
	MeanIoU    float64
}

// SummarizeRun loads a previously recorded run and its matches.
func (s *Store) SummarizeRun(runID uuid.UUID) (RunSummary, error) {
	summary := RunSummary{RunID: runID}
	row := s.db.QueryRow(`SELECT event_label, engine_a, engine_b FROM comparison_run WHERE run_id = ?`, runID.String())
	if err := row.Scan(&summary.EventLabel, &summary.EngineA, &summary.EngineB); err != nil {
		return summary, fmt.Errorf("compare: load run %s: %w", runID, err)
	}

	rows, err := s.db.Query(`SELECT track_b_idx, iou FROM track_match WHERE run_id = ?`, runID.String())
	if err != nil {
		return summary, fmt.Errorf("compare: load matches for %s: %w", runID, err)
	}
	defer rows.Close()

	var iouSum float64
	for rows.Next() {
		var trackB sql.NullInt64
		var iouVal float64
		if err := rows.Scan(&trackB, &iouVal); err != nil {
			return summary, fmt.Errorf("compare: scan match: %w", err)
		}
		summary.TracksA++
		if trackB.Valid {
			summary.Matched++
			iouSum += iouVal
		}
	}
	if summary.Matched > 0 {
		summary.MeanIoU = iouSum / float64(summary.Matched)
	}
	return summary, nil
}
