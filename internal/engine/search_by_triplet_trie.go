package engine

import (
	"github.com/veloxtrack/velopix/internal/model"
	"github.com/veloxtrack/velopix/internal/obslog"
	"github.com/veloxtrack/velopix/internal/veloconfig"
)

// tripletEntry is the best h2 found for a given (h0,h1) pair, with its
// scatter value.
type tripletEntry struct {
	h2      model.Hit
	scatter float64
}

// h1Entry pairs an h1 hit id with its tripletEntry, kept in the h1
// module's hit-index order.
type h1Entry struct {
	h1ID  int
	entry tripletEntry
}

// tripletGroup holds every h1 candidate found for a given h0 hit, in
// the order they were discovered. generateCompatibleTriplets keeps
// groups ordered by h0's hit index too, so seeding can walk the whole
// index in the deterministic order §4.4 requires instead of Go's
// randomized map iteration.
type tripletGroup struct {
	h0ID    int
	entries []h1Entry
}

// SearchByTripletTrie merges module pairs, builds a best-triplet index,
// and runs a forwarding automaton over it (component E, §4.4).
type SearchByTripletTrie struct {
	maxScatter             float64
	minTrackLength         int
	minStrongTrackLength   int
	allowedMissedModules   int
}

// NewSearchByTripletTrie builds the engine from cfg (nil uses every default).
func NewSearchByTripletTrie(cfg *veloconfig.EngineConfig) *SearchByTripletTrie {
	st := &SearchByTripletTrie{
		maxScatter:           cfg.GetSTMaxScatter(),
		minTrackLength:       cfg.GetSTMinTrackLength(),
		minStrongTrackLength: cfg.GetSTMinStrongTrackLength(),
		allowedMissedModules: cfg.GetSTAllowedMissedModules(),
	}
	obslog.Logf("search_by_triplet_trie: max_scatter %.4f min_track_length %d min_strong_track_length %d allowed_missed_modules %d",
		st.maxScatter, st.minTrackLength, st.minStrongTrackLength, st.allowedMissedModules)
	return st
}

// scatter computes the squared-distance residual between the
// extrapolation of (h0,h1) to h2.z and h2 itself — no division, unlike
// the tolerance test used by Track-Following and Graph-DFS (§9).
func (st *SearchByTripletTrie) scatter(h0, h1, h2 model.Hit) float64 {
	td := 1.0 / (h1.Z - h0.Z)
	tx := (h1.X - h0.X) * td
	ty := (h1.Y - h0.Y) * td
	dz := h2.Z - h0.Z
	dx := h0.X + tx*dz - h2.X
	dy := h0.Y + ty*dz - h2.Y
	return dx*dx + dy*dy
}

// mergeModulePairs pairs consecutive modules (2m, 2m+1) into a single
// merged module numbered m spanning both hit ranges (§4.4 step 1).
func (st *SearchByTripletTrie) mergeModulePairs(event *model.Event) []model.Module {
	var pairs []model.Module
	modules := event.Modules
	for i := 0; i+1 < len(modules); i += 2 {
		m0, m1 := modules[i], modules[i+1]
		merged, err := model.NewModule(m0.ModuleNumber/2, m0.Z, m0.HitStartIndex, m1.HitEndIndex, event.Hits)
		if err != nil {
			continue
		}
		pairs = append(pairs, merged)
	}
	return pairs
}

// bestTriplets finds, for each (h0 in m0, h1 in m1), the h2 in m2
// minimising scatter, keeping it only if below max_scatter (§4.4 step 2).
// The result is an ordered list of per-h0 groups (h0 in m0's hit-index
// order, each group's h1 entries in m1's hit-index order) plus a
// lookup map for the forwarding automaton's direct (h0,h1) extension
// check, which never ranges over the map and so needs no ordering.
func (st *SearchByTripletTrie) bestTriplets(m0, m1, m2 model.Module) ([]tripletGroup, map[int]map[int]tripletEntry) {
	var groups []tripletGroup
	lookup := map[int]map[int]tripletEntry{}
	hits2 := m2.Hits()
	for _, h0 := range m0.Hits() {
		var entries []h1Entry
		for _, h1 := range m1.Hits() {
			bestScatter := st.maxScatter
			var best model.Hit
			found := false
			for _, h2 := range hits2 {
				sc := st.scatter(h0, h1, h2)
				if sc < bestScatter {
					bestScatter = sc
					best = h2
					found = true
				}
			}
			if found {
				entry := tripletEntry{h2: best, scatter: bestScatter}
				entries = append(entries, h1Entry{h1ID: h1.ID, entry: entry})
				if lookup[h0.ID] == nil {
					lookup[h0.ID] = map[int]tripletEntry{}
				}
				lookup[h0.ID][h1.ID] = entry
			}
		}
		if len(entries) > 0 {
			groups = append(groups, tripletGroup{h0ID: h0.ID, entries: entries})
		}
	}
	return groups, lookup
}

// generateCompatibleTriplets builds the two-level triplet index keyed
// by merged-module number (§4.4 step 2, design note: 26 merged modules
// from 52 VELO modules). It returns both the lookup-map trie (for the
// forwarding automaton's direct extension check) and the ordered-group
// trie (for deterministic seeding).
func (st *SearchByTripletTrie) generateCompatibleTriplets(modulePairs []model.Module) ([]map[int]map[int]tripletEntry, [][]tripletGroup) {
	trie := make([]map[int]map[int]tripletEntry, 26)
	trieGroups := make([][]tripletGroup, 26)
	if len(modulePairs) < 3 {
		return trie, trieGroups
	}
	for i := len(modulePairs) - 1; i >= 2; i-- {
		m0 := modulePairs[i]
		m1 := modulePairs[i-1]
		m2Index := m1.ModuleNumber - 1
		if m2Index < 0 {
			m2Index = 0
		}
		if m2Index >= len(modulePairs) {
			continue
		}
		m2 := modulePairs[m2Index]
		idx := m0.ModuleNumber
		if idx < len(trie) {
			trie[idx], trieGroups[idx] = st.bestTriplets(m0, m1, m2)
		}
	}
	return trie, trieGroups
}

// Solve runs the forwarding automaton over event and returns the
// tracks it finds (component E, §4.4).
func (st *SearchByTripletTrie) Solve(event *model.Event) []model.Track {
	modulePairs := st.mergeModulePairs(event)
	trie, trieGroups := st.generateCompatibleTriplets(modulePairs)

	flagged := map[int]bool{}
	var forwarding, final, weak []model.Track

	if len(modulePairs) < 3 {
		return []model.Track{}
	}

	sliceM0 := modulePairs[2:]
	sliceM1 := modulePairs[:len(modulePairs)-2]
	for i := len(sliceM0) - 1; i >= 0; i-- {
		m0 := sliceM0[i]
		m1 := sliceM1[i]
		var compatibleModule map[int]map[int]tripletEntry
		var compatibleGroups []tripletGroup
		if m0.ModuleNumber < len(trie) {
			compatibleModule = trie[m0.ModuleNumber]
			compatibleGroups = trieGroups[m0.ModuleNumber]
		}

		var forwardingNext []model.Track
		for _, t := range forwarding {
			if len(t.Hits) < 2 {
				continue
			}
			n := len(t.Hits)
			h0 := t.Hits[n-2]
			h1 := t.Hits[n-1]
			prevMissed := t.MissedLastModule

			// Branch 1: extend via precomputed compatible triplets.
			if compatibleModule != nil {
				if inner, ok := compatibleModule[h0.ID]; ok {
					if entry, ok := inner[h1.ID]; ok {
						t.AddHit(entry.h2)
						flagged[entry.h2.ID] = true
						if len(t.Hits) >= st.minStrongTrackLength {
							for _, h := range t.Hits[:st.minStrongTrackLength-1] {
								flagged[h.ID] = true
							}
						}
						t.MissedPenultimateModule = prevMissed
						t.MissedLastModule = false
						forwardingNext = append(forwardingNext, t)
						continue
					}
				}
			}

			// Branch 2: search the module directly adjacent for the
			// lowest-scatter unflagged hit.
			mIndex := m1.ModuleNumber - 1
			if mIndex < 0 {
				mIndex = 0
			}
			extended := false
			if mIndex < len(event.Modules) {
				bestScatter := st.maxScatter
				var best model.Hit
				found := false
				for _, h2 := range event.Modules[mIndex].Hits() {
					if flagged[h2.ID] {
						continue
					}
					sc := st.scatter(h0, h1, h2)
					if sc < bestScatter {
						bestScatter = sc
						best = h2
						found = true
					}
				}
				if found {
					tBranch2 := t
					tBranch2.Hits = append([]model.Hit(nil), t.Hits...)
					tBranch2.AddHit(best)
					flagged[best.ID] = true
					if len(tBranch2.Hits) >= st.minStrongTrackLength {
						for _, h := range tBranch2.Hits[:st.minStrongTrackLength-1] {
							flagged[h.ID] = true
						}
					}
					tBranch2.MissedPenultimateModule = prevMissed
					tBranch2.MissedLastModule = false
					forwardingNext = append(forwardingNext, tBranch2)
					extended = true
				}
			}
			if extended {
				continue
			}

			// Branch 3: no extension found.
			newT := t
			newT.Hits = append([]model.Hit(nil), t.Hits...)
			newT.MissedPenultimateModule = prevMissed
			newT.MissedLastModule = true
			if prevMissed {
				if len(newT.Hits) >= st.minStrongTrackLength {
					final = append(final, newT)
				} else {
					weak = append(weak, newT)
				}
			} else {
				forwardingNext = append(forwardingNext, newT)
			}
		}
		forwarding = forwardingNext

		// Seeding: new tracks from this module's compatible triplets,
		// walked in the ordered groups so ties in scatter resolve to
		// the first occurrence in hit-index order (§4.4 "Ordering").
		for _, group := range compatibleGroups {
			h0ID := group.h0ID
			if flagged[h0ID] {
				continue
			}
			bestScatter := st.maxScatter
			var bestH1ID int
			var bestH2 model.Hit
			found := false
			for _, e := range group.entries {
				if flagged[e.h1ID] || flagged[e.entry.h2.ID] {
					continue
				}
				if e.entry.scatter < bestScatter {
					bestScatter = e.entry.scatter
					bestH1ID = e.h1ID
					bestH2 = e.entry.h2
					found = true
				}
			}
			if found && bestScatter < st.maxScatter {
				h0 := findHitByID(event, h0ID)
				h1 := findHitByID(event, bestH1ID)
				newTrack := model.Track{Hits: []model.Hit{h0, h1, bestH2}}
				forwarding = append(forwarding, newTrack)
			}
		}
	}

	for _, t := range forwarding {
		if len(t.Hits) >= st.minStrongTrackLength {
			final = append(final, t)
		} else {
			weak = append(weak, t)
		}
	}
	for _, t := range weak {
		if len(t.Hits) >= 3 && !flagged[t.Hits[0].ID] && !flagged[t.Hits[1].ID] && !flagged[t.Hits[2].ID] {
			final = append(final, t)
		}
	}

	if final == nil {
		return []model.Track{}
	}
	return final
}

func findHitByID(event *model.Event, id int) model.Hit {
	if id >= 0 && id < len(event.Hits) {
		return event.Hits[id]
	}
	return model.Hit{ID: id}
}
