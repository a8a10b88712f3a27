// Command velotrack loads a single VELO event, runs one of the three
// track-finding engines over it, and (if the event carries montecarlo
// truth) validates the result.
package main

import (
	"flag"
	"fmt"
	"os"

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
	eventPath := flag.String("event", "", "path to an event JSON file (§3 wire format)")
	configPath := flag.String("config", "", "path to an engine config JSON file (optional)")
	algo := flag.String("algo", "track-following", "algorithm: track-following | graph-dfs | search-by-triplet-trie")
	plotPath := flag.String("plot", "", "if set, write a hit/track scatter PNG here")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("velotrack v%s (git SHA: %s)\n", version.Version, version.GitSHA)
		return
	}

	if *eventPath == "" {
		fmt.Fprintln(os.Stderr, "velotrack: -event is required")
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "velotrack: %v\n", err)
		os.Exit(1)
	}

	loaded, err := loadEvent(fsutil.OSFileSystem{}, *eventPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "velotrack: %v\n", err)
		os.Exit(1)
	}

	tracks, err := runEngine(*algo, cfg, loaded.Event)
	if err != nil {
		fmt.Fprintf(os.Stderr, "velotrack: %v\n", err)
		os.Exit(1)
	}
	obslog.Logf("velotrack: %s produced %d tracks for %d hits", *algo, len(tracks), loaded.Event.NumberOfHits)

	if *plotPath != "" {
		if err := security.ValidateOutputPath(*plotPath); err != nil {
			fmt.Fprintf(os.Stderr, "velotrack: -plot: %v\n", err)
			os.Exit(2)
		}
		if err := render.EventScatterXZ(loaded.Event, tracks, fmt.Sprintf("%s (%d tracks)", *algo, len(tracks)), *plotPath); err != nil {
			fmt.Fprintf(os.Stderr, "velotrack: render: %v\n", err)
		}
	}

	if loaded.Montecarlo == nil {
		fmt.Printf("%d tracks reconstructed (no montecarlo truth present, skipping validation)\n", len(tracks))
		return
	}

	parsed, err := truth.ParseMontecarlo(loaded.Montecarlo, loaded.Event.Hits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "velotrack: parse montecarlo: %v\n", err)
		os.Exit(1)
	}

	vEvent := validate.NewEvent(loaded.Event.Hits, parsed.Particles, parsed.McpToHits)
	report, err := validate.ValidatePrint([]*validate.Event{vEvent}, [][]model.Track{tracks})
	if err != nil {
		fmt.Fprintf(os.Stderr, "velotrack: validate: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(report)
}

func loadEvent(fsys fsutil.FileSystem, path string) (*model.LoadedEvent, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return model.DecodeEvent(f)
}

func loadConfig(path string) (*veloconfig.EngineConfig, error) {
	if path == "" {
		return veloconfig.DefaultEngineConfig(), nil
	}
	return veloconfig.LoadEngineConfig(path)
}

func runEngine(name string, cfg *veloconfig.EngineConfig, event *model.Event) ([]model.Track, error) {
	switch name {
	case "track-following":
		return engine.NewTrackFollowing(cfg).Solve(event), nil
	case "graph-dfs":
		return engine.NewGraphDFS(cfg).Solve(event), nil
	case "search-by-triplet-trie":
		return engine.NewSearchByTripletTrie(cfg).Solve(event), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", name)
	}
}
