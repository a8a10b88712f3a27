package compare

import (
	"path/filepath"
	"testing"

	"github.com/veloxtrack/velopix/internal/model"
)

func TestOpenAppliesMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "compare.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if _, err := store.db.Exec(`SELECT run_id, event_label, engine_a, engine_b FROM comparison_run LIMIT 0`); err != nil {
		t.Errorf("expected comparison_run table to exist after migration: %v", err)
	}
	if _, err := store.db.Exec(`SELECT run_id, track_a_idx, track_b_idx, iou FROM track_match LIMIT 0`); err != nil {
		t.Errorf("expected track_match table to exist after migration: %v", err)
	}
}

func TestRecordRunAndSummarizeRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "compare.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	a := []model.Track{model.NewTrack([]model.Hit{hit(0), hit(1), hit(2)})}
	b := []model.Track{model.NewTrack([]model.Hit{hit(0), hit(1), hit(2)})}

	runID, err := store.RecordRun("event-0", "track-following", "graph-dfs", a, b)
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	summary, err := store.SummarizeRun(runID)
	if err != nil {
		t.Fatalf("SummarizeRun failed: %v", err)
	}
	if summary.EventLabel != "event-0" {
		t.Errorf("expected event label 'event-0', got %q", summary.EventLabel)
	}
	if summary.TracksA != 1 {
		t.Errorf("expected 1 track from a, got %d", summary.TracksA)
	}
	if summary.Matched != 1 {
		t.Errorf("expected 1 matched track, got %d", summary.Matched)
	}
	if summary.MeanIoU != 1.0 {
		t.Errorf("expected mean IoU 1.0, got %f", summary.MeanIoU)
	}
}

func TestRecordRunWithNoMatches(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "compare.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	a := []model.Track{model.NewTrack([]model.Hit{hit(0), hit(1)})}
	b := []model.Track{model.NewTrack([]model.Hit{hit(9), hit(10)})}

	runID, err := store.RecordRun("event-1", "track-following", "search-by-triplet-trie", a, b)
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	summary, err := store.SummarizeRun(runID)
	if err != nil {
		t.Fatalf("SummarizeRun failed: %v", err)
	}
	if summary.Matched != 0 {
		t.Errorf("expected 0 matched tracks, got %d", summary.Matched)
	}
	if summary.MeanIoU != 0 {
		t.Errorf("expected mean IoU 0 for no matches, got %f", summary.MeanIoU)
	}
}
