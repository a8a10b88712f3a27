// Package validate implements the MC-truth validator: the weight
// matrix, purity association, ghost/clone/reconstructed
// classification, hit efficiency, category filtering and the
// Efficiency accumulator (components G/H, §4.5-§4.8, §6).
package validate

import (
	"github.com/veloxtrack/velopix/internal/model"
	"github.com/veloxtrack/velopix/internal/truth"
)

// Event carries an event's hits plus the truth mappings needed by the
// validator: McpToHits (truth) and its derived inverse HitToMcp. Every
// hit in the event is a key of HitToMcp, even if no particle produced
// it (§3 ValidatorEvent invariant).
type Event struct {
	Hits      []model.Hit
	Particles []truth.MCParticle
	McpToHits map[uint64][]model.Hit
	HitToMcp  map[int][]uint64

	hitByID map[int]model.Hit
}

// NewEvent builds a validator Event from an event's hits and a parsed
// montecarlo result, deriving HitToMcp from McpToHits.
func NewEvent(hits []model.Hit, particles []truth.MCParticle, mcpToHits map[uint64][]model.Hit) *Event {
	hitToMcp := make(map[int][]uint64, len(hits))
	hitByID := make(map[int]model.Hit, len(hits))
	for _, h := range hits {
		hitToMcp[h.ID] = nil
		hitByID[h.ID] = h
	}
	for pkey, mhits := range mcpToHits {
		for _, h := range mhits {
			hitToMcp[h.ID] = append(hitToMcp[h.ID], pkey)
		}
	}
	return &Event{
		Hits:      hits,
		Particles: particles,
		McpToHits: mcpToHits,
		HitToMcp:  hitToMcp,
		hitByID:   hitByID,
	}
}

// GetHit returns the hit with the given id, mirroring the original's
// convenience accessor on ValidatorEvent.
func (e *Event) GetHit(id int) (model.Hit, bool) {
	h, ok := e.hitByID[id]
	return h, ok
}
