// Package engine implements the three interchangeable track-finding
// engines: Track-Following, Graph-DFS and Search-by-Triplet-Trie. Each
// engine owns its own geometry predicates by design (§9 of the core
// spec): the division-based tolerance test of Track-Following and
// Graph-DFS is deliberately not unified with the squared-distance
// scatter test of Search-by-Triplet-Trie.
package engine

import (
	"github.com/veloxtrack/velopix/internal/model"
	"github.com/veloxtrack/velopix/internal/obslog"
	"github.com/veloxtrack/velopix/internal/veloconfig"
)

// TrackFollowing is the seed-and-extend engine (component C).
type TrackFollowing struct {
	maxSlopeX, maxSlopeY         float64
	maxToleranceX, maxToleranceY float64
	maxScatter                   float64
	minTrackLength               int
	minStrongTrackLength         int
}

// NewTrackFollowing builds a Track-Following engine from cfg (nil uses
// every default).
func NewTrackFollowing(cfg *veloconfig.EngineConfig) *TrackFollowing {
	tf := &TrackFollowing{
		maxSlopeX:            cfg.GetTFMaxSlopeX(),
		maxSlopeY:            cfg.GetTFMaxSlopeY(),
		maxToleranceX:        cfg.GetTFMaxToleranceX(),
		maxToleranceY:        cfg.GetTFMaxToleranceY(),
		maxScatter:           cfg.GetTFMaxScatter(),
		minTrackLength:       cfg.GetTFMinTrackLength(),
		minStrongTrackLength: cfg.GetTFMinStrongTrackLength(),
	}
	obslog.Logf("track_following: max slopes (%.3f, %.3f) max tolerance (%.3f, %.3f) max scatter %.3f",
		tf.maxSlopeX, tf.maxSlopeY, tf.maxToleranceX, tf.maxToleranceY, tf.maxScatter)
	return tf
}

// areCompatible reports whether h0 and h1 lie within the slope cone of
// each other.
func (tf *TrackFollowing) areCompatible(h0, h1 model.Hit) bool {
	dist := abs(h0.Z - h1.Z)
	return abs(h1.X-h0.X) < tf.maxSlopeX*dist && abs(h1.Y-h0.Y) < tf.maxSlopeY*dist
}

// checkTolerance extrapolates the line through h0,h1 to h2.z and tests
// the residual against max_tolerance and max_scatter. Returns false on
// a zero denominator (degenerate geometry, §7).
func (tf *TrackFollowing) checkTolerance(h0, h1, h2 model.Hit) bool {
	dz01 := h1.Z - h0.Z
	if dz01 == 0 {
		return false
	}
	td := 1.0 / dz01
	tx := (h1.X - h0.X) * td
	ty := (h1.Y - h0.Y) * td

	dz := h2.Z - h0.Z
	dx := abs(h0.X + tx*dz - h2.X)
	dy := abs(h0.Y + ty*dz - h2.Y)

	scatterNum := dx*dy + dy*dy
	dz21 := h2.Z - h1.Z
	if dz21 == 0 {
		return false
	}
	scatterDenom := 1.0 / dz21
	return dx < tf.maxToleranceX && dy < tf.maxToleranceY && scatterNum*scatterDenom*scatterDenom < tf.maxScatter
}

// Solve runs the Track-Following algorithm over event and returns the
// tracks it finds (component C, §4.2).
func (tf *TrackFollowing) Solve(event *model.Event) []model.Track {
	var weakTracks, tracks []model.Track
	used := map[int]bool{}

	modules := event.Modules
	numModules := len(modules)
	if numModules < 3 {
		return []model.Track{}
	}

	for i := numModules - 1; i >= 3; i-- {
		m0 := modules[i]
		m1 := modules[i-2]
		startingModuleIndex := i - 3

		for _, h0 := range m0.Hits() {
			if used[h0.ID] {
				continue
			}
			for _, h1 := range m1.Hits() {
				if used[h1.ID] {
					continue
				}
				if !tf.areCompatible(h0, h1) {
					continue
				}
				forming := model.NewTrack([]model.Hit{h0, h1})
				h2Found := false
				moduleIndexIter := -1

				lower := startingModuleIndex - 2
				if lower < 0 {
					lower = 0
				}
				for moduleIndex := startingModuleIndex; moduleIndex >= lower; moduleIndex-- {
					if moduleIndex < 0 || moduleIndex >= len(modules) {
						continue
					}
					module := modules[moduleIndex]
					for _, h2 := range module.Hits() {
						if tf.checkTolerance(h0, h1, h2) {
							forming.AddHit(h2)
							h2Found = true
							moduleIndexIter = moduleIndex
							break
						}
					}
					if h2Found {
						break
					}
				}

				if h2Found {
					missingStations := 0
					for moduleIndexIter > 0 && missingStations < 3 {
						moduleIndexIter--
						missingStations++
						module := modules[moduleIndexIter]
						trackHits := forming.Hits
						if len(trackHits) < 2 {
							break
						}
						lastButOne := trackHits[len(trackHits)-2]
						last := trackHits[len(trackHits)-1]
						for _, h2 := range module.Hits() {
							if tf.checkTolerance(lastButOne, last, h2) {
								forming.AddHit(h2)
								missingStations = 0
								break
							}
						}
					}

					switch {
					case len(forming.Hits) == tf.minTrackLength:
						weakTracks = append(weakTracks, forming)
					case len(forming.Hits) >= tf.minStrongTrackLength:
						tracks = append(tracks, forming)
						for _, h := range forming.Hits {
							used[h.ID] = true
						}
					}
				}
			}
		}
	}

	for _, t := range weakTracks {
		usedInWeak := false
		for _, h := range t.Hits {
			if used[h.ID] {
				usedInWeak = true
				break
			}
		}
		if !usedInWeak {
			for _, h := range t.Hits {
				used[h.ID] = true
			}
			tracks = append(tracks, t)
		}
	}

	if tracks == nil {
		return []model.Track{}
	}
	return tracks
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
