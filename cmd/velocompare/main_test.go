package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/veloxtrack/velopix/internal/fsutil"
	"github.com/veloxtrack/velopix/internal/model"
)

func writeEventFile(t *testing.T, dir, name string) string {
	t.Helper()
	ps := make([]int, model.NumberOfModules+1)
	psJSON, err := json.Marshal(ps)
	if err != nil {
		t.Fatalf("marshal prefix sum: %v", err)
	}
	path := filepath.Join(dir, name)
	body := `{"description":"empty","module_prefix_sum":` + string(psJSON) + `,"number_of_hits":0,"x":[],"y":[],"z":[]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write event file: %v", err)
	}
	return path
}

func TestEventPathsFiltersAndSortsJSONFiles(t *testing.T) {
	dir := t.TempDir()
	writeEventFile(t, dir, "b.json")
	writeEventFile(t, dir, "a.json")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	paths, err := eventPaths(dir)
	if err != nil {
		t.Fatalf("eventPaths failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 event paths, got %d: %v", len(paths), paths)
	}
	if filepath.Base(paths[0]) != "a.json" || filepath.Base(paths[1]) != "b.json" {
		t.Errorf("expected sorted [a.json b.json], got %v", paths)
	}
}

func TestEventPathsMissingDirErrors(t *testing.T) {
	_, err := eventPaths(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}

func TestLoadEventDecodesEventFile(t *testing.T) {
	dir := t.TempDir()
	path := writeEventFile(t, dir, "event.json")

	loaded, err := loadEvent(fsutil.OSFileSystem{}, path)
	if err != nil {
		t.Fatalf("loadEvent failed: %v", err)
	}
	if loaded.Event == nil {
		t.Fatal("expected a decoded event")
	}
	if loaded.Event.NumberOfHits != 0 {
		t.Errorf("expected 0 hits, got %d", loaded.Event.NumberOfHits)
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
