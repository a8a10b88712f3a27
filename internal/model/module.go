package model

import "fmt"

// Module is a slice view over the event's global hit array: all hits
// with index in [HitStartIndex, HitEndIndex) belong to this module.
type Module struct {
	ModuleNumber  int
	Z             []float64
	HitStartIndex int
	HitEndIndex   int
	globalHits    []Hit
}

// NewModule validates the index range before constructing a Module.
func NewModule(number int, z []float64, start, end int, globalHits []Hit) (Module, error) {
	if start > end || end > len(globalHits) {
		return Module{}, fmt.Errorf("model: invalid hit indices for module %d: start=%d end=%d len=%d", number, start, end, len(globalHits))
	}
	return Module{
		ModuleNumber:  number,
		Z:             z,
		HitStartIndex: start,
		HitEndIndex:   end,
		globalHits:    globalHits,
	}, nil
}

// Hits returns the hits belonging to this module, in index order.
func (m Module) Hits() []Hit {
	return m.globalHits[m.HitStartIndex:m.HitEndIndex]
}

// Len returns the number of hits in this module.
func (m Module) Len() int {
	return m.HitEndIndex - m.HitStartIndex
}
