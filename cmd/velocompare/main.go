// Command velocompare runs all three track-finding engines over every
// event JSON file in a directory, persists a pairwise hit-overlap
// comparison of their outputs, and renders an HTML efficiency chart
// when montecarlo truth is present.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/veloxtrack/velopix/internal/compare"
	"github.com/veloxtrack/velopix/internal/engine"
	"github.com/veloxtrack/velopix/internal/fsutil"
	"github.com/veloxtrack/velopix/internal/model"
	"github.com/veloxtrack/velopix/internal/obslog"
	"github.com/veloxtrack/velopix/internal/render"
	"github.com/veloxtrack/velopix/internal/security"
	"github.com/veloxtrack/velopix/internal/truth"
	"github.com/veloxtrack/velopix/internal/validate"
	"github.com/veloxtrack/velopix/internal/veloconfig"
	"github.com/veloxtrack/velopix/internal/version"
)

func main() {
	eventsDir := flag.String("events", "", "directory of event JSON files")
	dbPath := flag.String("db", "velocompare.db", "sqlite database for comparison runs")
	chartPath := flag.String("chart", "", "if set, write an HTML efficiency chart here")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("velocompare v%s (git SHA: %s)\n", version.Version, version.GitSHA)
		return
	}

	if *eventsDir == "" {
		fmt.Fprintln(os.Stderr, "velocompare: -events is required")
		os.Exit(2)
	}
	if *chartPath != "" {
		if err := security.ValidateOutputPath(*chartPath); err != nil {
			fmt.Fprintf(os.Stderr, "velocompare: -chart: %v\n", err)
			os.Exit(2)
		}
	}

	paths, err := eventPaths(*eventsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "velocompare: %v\n", err)
		os.Exit(1)
	}

	store, err := compare.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "velocompare: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	cfg := veloconfig.DefaultEngineConfig()
	tf := engine.NewTrackFollowing(cfg)
	gd := engine.NewGraphDFS(cfg)
	st := engine.NewSearchByTripletTrie(cfg)

	var vEvents []*validate.Event
	var tfTracks [][]model.Track

	fsys := fsutil.OSFileSystem{}
	for _, path := range paths {
		loaded, err := loadEvent(fsys, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "velocompare: %s: %v\n", path, err)
			continue
		}

		tracksTF := tf.Solve(loaded.Event)
		tracksGD := gd.Solve(loaded.Event)
		tracksST := st.Solve(loaded.Event)
		obslog.Logf("velocompare: %s -> TF=%d GD=%d ST=%d tracks", filepath.Base(path), len(tracksTF), len(tracksGD), len(tracksST))

		label := security.SanitizeFilename(filepath.Base(path))
		if _, err := store.RecordRun(label, "track-following", "graph-dfs", tracksTF, tracksGD); err != nil {
			fmt.Fprintf(os.Stderr, "velocompare: record TF/GD run: %v\n", err)
		}
		if _, err := store.RecordRun(label, "track-following", "search-by-triplet-trie", tracksTF, tracksST); err != nil {
			fmt.Fprintf(os.Stderr, "velocompare: record TF/ST run: %v\n", err)
		}

		if loaded.Montecarlo != nil {
			parsed, err := truth.ParseMontecarlo(loaded.Montecarlo, loaded.Event.Hits)
			if err != nil {
				fmt.Fprintf(os.Stderr, "velocompare: %s: parse montecarlo: %v\n", path, err)
				continue
			}
			vEvents = append(vEvents, validate.NewEvent(loaded.Event.Hits, parsed.Particles, parsed.McpToHits))
			tfTracks = append(tfTracks, tracksTF)
		}
	}

	if len(vEvents) == 0 || *chartPath == "" {
		return
	}

	report, err := validate.ValidateToJSON(vEvents, tfTracks, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "velocompare: validate: %v\n", err)
		os.Exit(1)
	}

	chartFile, err := os.Create(*chartPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "velocompare: %v\n", err)
		os.Exit(1)
	}
	defer chartFile.Close()
	if err := render.CategoryEfficiencyChart(report, chartFile); err != nil {
		fmt.Fprintf(os.Stderr, "velocompare: render chart: %v\n", err)
		os.Exit(1)
	}
}

func eventPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read events dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func loadEvent(fsys fsutil.FileSystem, path string) (*model.LoadedEvent, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return model.DecodeEvent(f)
}
