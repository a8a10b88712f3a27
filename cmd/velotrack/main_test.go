package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/veloxtrack/velopix/internal/fsutil"
	"github.com/veloxtrack/velopix/internal/model"
)

func TestLoadConfigDefaultsWhenPathEmpty(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected a default config, got nil")
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected a config, got nil")
	}
}

func TestLoadConfigMissingFileErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestLoadEventFromMemoryFileSystem(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	ps, err := json.Marshal(make([]int, model.NumberOfModules+1))
	if err != nil {
		t.Fatalf("marshal prefix sum: %v", err)
	}
	body := []byte(`{"description":"mem","module_prefix_sum":` + string(ps) + `,"number_of_hits":0,"x":[],"y":[],"z":[]}`)
	if err := fsys.WriteFile("event.json", body, 0o644); err != nil {
		t.Fatalf("write event: %v", err)
	}

	loaded, err := loadEvent(fsys, "event.json")
	if err != nil {
		t.Fatalf("loadEvent failed: %v", err)
	}
	if loaded.Event.NumberOfHits != 0 {
		t.Errorf("expected 0 hits, got %d", loaded.Event.NumberOfHits)
	}
}

func TestLoadEventMissingFileErrors(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	if _, err := loadEvent(fsys, "missing.json"); err == nil {
		t.Error("expected an error for a missing event file")
	}
}

func emptyEvent(t *testing.T) *model.Event {
	t.Helper()
	event, err := model.Build("empty", make([]int, model.NumberOfModules+1), nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("model.Build failed: %v", err)
	}
	return event
}

func TestRunEngineDispatchesByName(t *testing.T) {
	event := emptyEvent(t)
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	for _, name := range []string{"track-following", "graph-dfs", "search-by-triplet-trie"} {
		if _, err := runEngine(name, cfg, event); err != nil {
			t.Errorf("runEngine(%q) failed on an empty event: %v", name, err)
		}
	}
}

func TestRunEngineRejectsUnknownAlgorithm(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	event := emptyEvent(t)
	if _, err := runEngine("not-an-algorithm", cfg, event); err == nil {
		t.Error("expected an error for an unknown algorithm name")
	}
}
