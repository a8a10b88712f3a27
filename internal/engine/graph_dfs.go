package engine

import (
	"sort"

	"github.com/veloxtrack/velopix/internal/model"
	"github.com/veloxtrack/velopix/internal/obslog"
	"github.com/veloxtrack/velopix/internal/veloconfig"
)

// segment is a directed edge from a hit on a later-z module to a hit
// on an earlier-z module (component D only, GLOSSARY "Segment").
type segment struct {
	h0, h1      model.Hit
	weight      int
	number      int
	rootSegment bool
}

// candidateWindow is the half-open [start,end) range of hit indices in
// a target module whose x falls inside the slope cone around a given
// hit; -1 means "not found".
type candidateWindow struct {
	start, end int
}

// candidateEntry pairs a target module index with its candidate
// window. candidates for a given hit are kept as a slice rather than
// a map so populateSegments walks them in the fixed, deterministic
// order they were discovered in (skip count 0, 1, 2, ...) instead of
// Go's randomized map iteration order.
type candidateEntry struct {
	targetModuleIndex int
	window            candidateWindow
}

// GraphDFS builds a segment graph over an event, propagates weights,
// and selects the shortest root-to-leaf path per root segment
// (component D, §4.3).
type GraphDFS struct {
	maxSlopeX, maxSlopeY         float64
	maxToleranceX, maxToleranceY float64
	maxScatter                   float64
	minimumRootWeight            int
	weightAssignmentIterations   int
	allowedSkipModules           int
	allowCrossTrack              bool
	cloneGhostKilling            bool
}

// NewGraphDFS builds a Graph-DFS engine from cfg (nil uses every default).
func NewGraphDFS(cfg *veloconfig.EngineConfig) *GraphDFS {
	gd := &GraphDFS{
		maxSlopeX:                  cfg.GetGDMaxSlopeX(),
		maxSlopeY:                  cfg.GetGDMaxSlopeY(),
		maxToleranceX:              cfg.GetGDMaxToleranceX(),
		maxToleranceY:              cfg.GetGDMaxToleranceY(),
		maxScatter:                 cfg.GetGDMaxScatter(),
		minimumRootWeight:          cfg.GetGDMinimumRootWeight(),
		weightAssignmentIterations: cfg.GetGDWeightAssignmentIterations(),
		allowedSkipModules:         cfg.GetGDAllowedSkipModules(),
		allowCrossTrack:            cfg.GetGDAllowCrossTrack(),
		cloneGhostKilling:          cfg.GetGDCloneGhostKilling(),
	}
	obslog.Logf("graph_dfs: max slopes (%.3f, %.3f) max tolerance (%.3f, %.3f) max scatter %.3f weight iterations %d minimum root weight %d allow cross track %v allowed skip modules %d clone ghost killing %v",
		gd.maxSlopeX, gd.maxSlopeY, gd.maxToleranceX, gd.maxToleranceY, gd.maxScatter,
		gd.weightAssignmentIterations, gd.minimumRootWeight, gd.allowCrossTrack, gd.allowedSkipModules, gd.cloneGhostKilling)
	return gd
}

func (gd *GraphDFS) areCompatibleInX(h0, h1 model.Hit) bool {
	dist := abs(h1.Z - h0.Z)
	return abs(h1.X-h0.X) < gd.maxSlopeX*dist
}

func (gd *GraphDFS) areCompatibleInY(h0, h1 model.Hit) bool {
	dist := abs(h1.Z - h0.Z)
	return abs(h1.Y-h0.Y) < gd.maxSlopeY*dist
}

func (gd *GraphDFS) checkTolerance(h0, h1, h2 model.Hit) bool {
	dz := h1.Z - h0.Z
	if dz == 0 {
		return false
	}
	td := 1.0 / dz
	tx := (h1.X - h0.X) * td
	ty := (h1.Y - h0.Y) * td

	dz2 := h2.Z - h0.Z
	dx := abs(h0.X + tx*dz2 - h2.X)
	if dx >= gd.maxToleranceX {
		return false
	}
	dy := abs(h0.Y + ty*dz2 - h2.Y)
	if dy >= gd.maxToleranceY {
		return false
	}
	scatterNum := dx*dx + dy*dy
	dz21 := h2.Z - h1.Z
	if dz21 == 0 {
		return false
	}
	scatterDenom := 1.0 / dz21
	return scatterNum*scatterDenom*scatterDenom < gd.maxScatter
}

func (gd *GraphDFS) areSegmentsCompatible(s0, s1 segment) bool {
	return gd.checkTolerance(s0.h0, s0.h1, s1.h1)
}

// fillCandidates computes, for every hit index h0Index, the list of
// (target module index, candidate window of x-compatible hits in that
// module) entries (§4.3 step 2).
func (gd *GraphDFS) fillCandidates(event *model.Event) [][]candidateEntry {
	candidates := make([][]candidateEntry, event.NumberOfHits)
	crossModuleFactor := 1
	if !gd.allowCrossTrack {
		crossModuleFactor = 2
	}

	for moduleIndex := len(event.Modules) - 1; moduleIndex >= 2; moduleIndex-- {
		s0 := event.Modules[moduleIndex]
		startingModuleIndex := moduleIndex - crossModuleFactor
		s0Hits := s0.Hits()
		for offset, h0 := range s0Hits {
			h0Index := s0.HitStartIndex + offset
			for missingModules := 0; missingModules <= gd.allowedSkipModules; missingModules++ {
				targetModuleIndex := startingModuleIndex - missingModules*crossModuleFactor
				if targetModuleIndex < 0 {
					continue
				}
				s1 := event.Modules[targetModuleIndex]
				win := candidateWindow{start: -1, end: -1}
				beginFound, endFound := false, false
				s1Hits := s1.Hits()
				for offset1, h1 := range s1Hits {
					h1Index := s1.HitStartIndex + offset1
					if !beginFound && gd.areCompatibleInX(h0, h1) {
						win.start, win.end = h1Index, h1Index+1
						beginFound = true
					} else if beginFound && !gd.areCompatibleInX(h0, h1) {
						win.end = h1Index
						endFound = true
						break
					}
				}
				if beginFound && !endFound {
					win.end = s1.HitEndIndex
				}
				candidates[h0Index] = append(candidates[h0Index], candidateEntry{targetModuleIndex: targetModuleIndex, window: win})
			}
		}
	}
	return candidates
}

// populateSegments builds the segment list and, for each segment, the
// list of compatible successor segments (§4.3 steps 3-4).
func (gd *GraphDFS) populateSegments(event *model.Event, candidates [][]candidateEntry) ([]segment, [][]int, [][]int) {
	var segments []segment
	outerHitSegments := make([][]int, len(event.Hits))

	for h0Index := 0; h0Index < event.NumberOfHits; h0Index++ {
		for _, entry := range candidates[h0Index] {
			win := entry.window
			if win.start < 0 {
				continue
			}
			for h1Index := win.start; h1Index < win.end; h1Index++ {
				if gd.areCompatibleInY(event.Hits[h0Index], event.Hits[h1Index]) {
					segments = append(segments, segment{
						h0:     event.Hits[h0Index],
						h1:     event.Hits[h1Index],
						number: len(segments),
					})
					h1ID := event.Hits[h1Index].ID
					outerHitSegments[h1ID] = append(outerHitSegments[h1ID], len(segments)-1)
				}
			}
		}
	}

	compatible := make([][]int, len(segments))
	for i := range compatible {
		compatible[i] = nil
	}
	for _, s := range segments {
		h0Index := s.h0.ID
		for _, seg0Index := range outerHitSegments[h0Index] {
			seg0 := segments[seg0Index]
			if gd.areSegmentsCompatible(seg0, s) {
				compatible[seg0.number] = append(compatible[seg0.number], s.number)
			}
		}
	}

	var populated []int
	for i, list := range compatible {
		if len(list) > 0 {
			populated = append(populated, i)
		}
	}
	return segments, compatible, populated
}

// assignWeightsAndPopulateRoots runs the fixed-iteration weight
// propagation pass and marks root segments (§4.3 step 5).
func (gd *GraphDFS) assignWeightsAndPopulateRoots(segments []segment, compatible [][]int, populated []int) {
	for iter := 0; iter < gd.weightAssignmentIterations; iter++ {
		for _, seg0Index := range populated {
			maxWeight := 0
			for _, segNum := range compatible[seg0Index] {
				if segments[segNum].weight > maxWeight {
					maxWeight = segments[segNum].weight
				}
			}
			segments[seg0Index].weight = maxWeight + 1
		}
	}
	for _, seg0Index := range populated {
		segments[seg0Index].rootSegment = true
	}
	for _, seg0Index := range populated {
		for _, seg1Index := range compatible[seg0Index] {
			segments[seg1Index].rootSegment = false
		}
	}
}

// dfs enumerates every root-to-leaf hit path reachable from seg.
func dfs(seg segment, segments []segment, compatible [][]int) [][]model.Hit {
	succ := compatible[seg.number]
	if len(succ) == 0 {
		return [][]model.Hit{{seg.h1}}
	}
	var result [][]model.Hit
	for _, segID := range succ {
		for _, path := range dfs(segments[segID], segments, compatible) {
			newPath := append([]model.Hit{seg.h1}, path...)
			result = append(result, newPath)
		}
	}
	return result
}

// pruneShortTracks drops any track of length <=3 that shares a hit
// with a track of length >3 (§4.3 step 7, clone/ghost killing).
func pruneShortTracks(tracks []model.Track) []model.Track {
	usedHits := map[int]bool{}
	for _, t := range tracks {
		if len(t.Hits) > 3 {
			for _, h := range t.Hits {
				usedHits[h.ID] = true
			}
		}
	}
	var pruned []model.Track
	for _, t := range tracks {
		if len(t.Hits) > 3 {
			pruned = append(pruned, t)
			continue
		}
		shared := false
		for _, h := range t.Hits {
			if usedHits[h.ID] {
				shared = true
				break
			}
		}
		if !shared {
			pruned = append(pruned, t)
		}
	}
	return pruned
}

// Solve runs the Graph-DFS algorithm over event and returns the tracks
// it finds (component D, §4.3). event itself is never mutated: a deep
// copy is sorted instead, per §5 and the Open Question resolution in
// DESIGN.md.
func (gd *GraphDFS) Solve(event *model.Event) []model.Track {
	obslog.Logf("graph_dfs: solving event with %d hits", event.NumberOfHits)

	working := event.Clone()
	working.SortModulesByX()

	candidates := gd.fillCandidates(working)
	segments, compatible, populated := gd.populateSegments(working, candidates)
	gd.assignWeightsAndPopulateRoots(segments, compatible, populated)

	var rootSegments []segment
	for _, segID := range populated {
		s := segments[segID]
		if s.rootSegment && s.weight >= gd.minimumRootWeight {
			rootSegments = append(rootSegments, s)
		}
	}

	var tracks []model.Track
	for _, root := range rootSegments {
		paths := dfs(root, segments, compatible)
		sort.SliceStable(paths, func(i, j int) bool { return len(paths[i]) < len(paths[j]) })
		if len(paths) > 0 {
			hits := append([]model.Hit{root.h0}, paths[0]...)
			tracks = append(tracks, model.NewTrack(hits))
		}
	}

	if gd.cloneGhostKilling {
		tracks = pruneShortTracks(tracks)
	}
	if tracks == nil {
		return []model.Track{}
	}
	return tracks
}
