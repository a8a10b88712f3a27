package validate

import (
	"fmt"

	"github.com/veloxtrack/velopix/internal/model"
	"gonum.org/v1/gonum/mat"
)

// ErrTruthInconsistency is returned when a track hit is not a key of
// the event's HitToMcp mapping (§7).
type ErrTruthInconsistency struct {
	HitID int
}

func (e *ErrTruthInconsistency) Error() string {
	return fmt.Sprintf("validate: hit with id %d not found in hit_to_mcp mapping", e.HitID)
}

// ComputeWeights builds the n(tracks)xk(particles) weight matrix W
// where W[i][j] is the fraction of track i's hits attributable to
// particle j. A particle is counted at most once per hit; tracks with
// fewer than 2 hits get an all-zero row (§4.5).
func ComputeWeights(tracks []model.Track, event *Event) (*mat.Dense, error) {
	nParticles := len(event.Particles)
	if nParticles == 0 || len(tracks) == 0 {
		// mat.NewDense rejects a zero dimension; an empty Dense stands
		// in for the 0 x k or n x 0 matrix.
		return &mat.Dense{}, nil
	}
	w := mat.NewDense(len(tracks), maxInt(nParticles, 1), nil)

	for i, track := range tracks {
		nhits := len(track.Hits)
		if nhits < 2 {
			continue
		}
		for j, particle := range event.Particles {
			nhitsFromP := 0
			for _, h := range track.Hits {
				pkeys, ok := event.HitToMcp[h.ID]
				if !ok {
					return nil, &ErrTruthInconsistency{HitID: h.ID}
				}
				for _, pk := range pkeys {
					if pk == particle.PKey {
						nhitsFromP++
						break
					}
				}
			}
			w.Set(i, j, float64(nhitsFromP)/float64(nhits))
		}
	}
	return w, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
