package model

import (
	"fmt"
	"sort"
)

// NumberOfModules is the fixed module count of the VELO detector.
const NumberOfModules = 52

// Event is the aggregate of raw coordinate arrays, the derived hit
// list, and the 52 Module views over it. Constructed once by Build,
// read-only thereafter except that GraphDFS may stably sort hits
// within each module range on a cloned copy (see Clone).
type Event struct {
	Description     string
	ModulePrefixSum []int
	NumberOfHits    int
	ModuleZs        [][]float64
	Hits            []Hit
	Modules         []Module
}

// Build constructs an Event from the per-hit coordinate arrays and the
// module prefix sum, per the event input schema (§6). t may be nil.
func Build(description string, modulePrefixSum []int, x, y, z, t []float64) (*Event, error) {
	if len(modulePrefixSum) != NumberOfModules+1 {
		return nil, fmt.Errorf("model: module_prefix_sum must have length %d, got %d", NumberOfModules+1, len(modulePrefixSum))
	}
	numberOfHits := modulePrefixSum[NumberOfModules]
	if len(x) != numberOfHits || len(y) != numberOfHits || len(z) != numberOfHits {
		return nil, fmt.Errorf("model: coordinate array length mismatch: want %d, got x=%d y=%d z=%d", numberOfHits, len(x), len(y), len(z))
	}
	withT := t != nil
	if withT && len(t) != numberOfHits {
		return nil, fmt.Errorf("model: t array length mismatch: want %d, got %d", numberOfHits, len(t))
	}
	for m := 1; m < len(modulePrefixSum); m++ {
		if modulePrefixSum[m] < modulePrefixSum[m-1] {
			return nil, fmt.Errorf("model: module_prefix_sum must be non-decreasing at index %d", m)
		}
	}

	hits := make([]Hit, 0, numberOfHits)
	moduleZs := make([][]float64, NumberOfModules)
	modules := make([]Module, NumberOfModules)

	for m := 0; m < NumberOfModules; m++ {
		start, end := modulePrefixSum[m], modulePrefixSum[m+1]
		seen := map[float64]bool{}
		var zs []float64
		for i := start; i < end; i++ {
			hitT := 0.0
			if withT {
				hitT = t[i]
			}
			hits = append(hits, Hit{
				ID:           i,
				X:            x[i],
				Y:            y[i],
				Z:            z[i],
				T:            hitT,
				ModuleNumber: m,
				WithT:        withT,
			})
			if !seen[z[i]] {
				seen[z[i]] = true
				zs = append(zs, z[i])
			}
		}
		moduleZs[m] = zs
	}

	for m := 0; m < NumberOfModules; m++ {
		start, end := modulePrefixSum[m], modulePrefixSum[m+1]
		mod, err := NewModule(m, moduleZs[m], start, end, hits)
		if err != nil {
			return nil, err
		}
		modules[m] = mod
	}

	return &Event{
		Description:     description,
		ModulePrefixSum: append([]int(nil), modulePrefixSum...),
		NumberOfHits:    numberOfHits,
		ModuleZs:        moduleZs,
		Hits:            hits,
		Modules:         modules,
	}, nil
}

// Clone returns a deep copy of the event, safe for GraphDFS to mutate
// in place (its per-module stable sort by x) without disturbing a
// shared original (§5 of the core spec).
func (e *Event) Clone() *Event {
	hits := append([]Hit(nil), e.Hits...)
	modules := make([]Module, len(e.Modules))
	for i, m := range e.Modules {
		mod, _ := NewModule(m.ModuleNumber, m.Z, m.HitStartIndex, m.HitEndIndex, hits)
		modules[i] = mod
	}
	return &Event{
		Description:     e.Description,
		ModulePrefixSum: append([]int(nil), e.ModulePrefixSum...),
		NumberOfHits:    e.NumberOfHits,
		ModuleZs:        e.ModuleZs,
		Hits:            hits,
		Modules:         modules,
	}
}

// SortModulesByX stably sorts, in place, the hits within each module's
// index range by x coordinate. Because Modules hold a view over this
// Event's own Hits slice, the reordering is visible through every
// Module.Hits() call afterward.
func (e *Event) SortModulesByX() {
	for _, m := range e.Modules {
		region := e.Hits[m.HitStartIndex:m.HitEndIndex]
		sort.SliceStable(region, func(i, j int) bool {
			return region[i].X < region[j].X
		})
	}
}
