package validate

import (
	"fmt"

	"github.com/veloxtrack/velopix/internal/model"
	"github.com/veloxtrack/velopix/internal/truth"
	"gonum.org/v1/gonum/mat"
)

// Efficiency is the running accumulator for one particle category
// (component H, §4.8). Field-wise addition of the n_* counters is an
// associative and commutative reduction suitable for combining
// per-worker results from event-parallel processing (§5); RecoeffT,
// AvgRecoeff and PurityT are recomputed from the summed counters,
// while AvgPurity and AvgHitEff are per-event values that the counters
// do not determine.
type Efficiency struct {
	Label string

	NEvents   int
	NParticles int
	NReco     int
	NPure     float64
	NClones   int
	NHeff     float64
	NHits     int

	RecoeffT   float64
	PurityT    float64
	AvgRecoeff float64
	AvgPurity  float64
	AvgHitEff  float64
}

// NewEfficiency returns a zeroed accumulator for label.
func NewEfficiency(label string) *Efficiency {
	return &Efficiency{Label: label}
}

// AddEvent folds one event's t2p/p2t association tables and filtered
// particle set into the accumulator (§4.8).
func (e *Efficiency) AddEvent(tracks []model.Track, particlesFiltered []truth.MCParticle, t2p, p2t []Association, event *Event) {
	e.NEvents++
	e.NParticles += len(particlesFiltered)

	nReco := 0
	for _, a := range p2t {
		if a.Ok() {
			nReco++
		}
	}
	e.NReco += nReco

	if e.NParticles > 0 {
		e.AvgRecoeff = 100.0 * float64(e.NReco) / float64(e.NParticles)
	} else {
		e.AvgRecoeff = 0.0
	}

	clones := Clones(t2p)
	clonesCount := 0
	for _, tracksForP := range clones {
		clonesCount += len(tracksForP) - 1
	}
	e.NClones += clonesCount

	hitEff := HitEfficiency(tracks, particlesFiltered, t2p, event)

	var purities []float64
	for _, a := range t2p {
		if a.Ok() {
			purities = append(purities, a.Weight)
		}
	}

	purSum := 0.0
	for _, p := range purities {
		purSum += p
	}
	e.NPure += purSum

	heffSum := 0.0
	for _, v := range hitEff {
		heffSum += v
	}
	e.NHeff += heffSum
	e.NHits += len(hitEff)

	if len(hitEff) > 0 {
		e.AvgHitEff = 100.0 * heffSum / float64(len(hitEff))
	} else {
		e.AvgHitEff = 0.0
	}

	if len(purities) > 0 {
		e.AvgPurity = 100.0 * purSum / float64(len(purities))
	} else {
		e.AvgPurity = 0.0
	}

	if e.NParticles > 0 {
		e.RecoeffT = 100.0 * float64(e.NReco) / float64(e.NParticles)
	}

	if e.NReco > 0 {
		e.PurityT = 100.0 * e.NPure / (float64(e.NReco) + float64(e.NClones))
	}
}

// Merge folds other into e by field-wise addition of raw counters
// followed by recomputing RecoeffT, AvgRecoeff and PurityT (§5, §8
// associativity). e keeps its own AvgPurity and AvgHitEff.
func (e *Efficiency) Merge(other *Efficiency) {
	e.NEvents += other.NEvents
	e.NParticles += other.NParticles
	e.NReco += other.NReco
	e.NPure += other.NPure
	e.NClones += other.NClones
	e.NHeff += other.NHeff
	e.NHits += other.NHits
	e.recompute()
}

func (e *Efficiency) recompute() {
	if e.NParticles > 0 {
		e.AvgRecoeff = 100.0 * float64(e.NReco) / float64(e.NParticles)
		e.RecoeffT = e.AvgRecoeff
	} else {
		e.AvgRecoeff = 0.0
	}
	if e.NReco > 0 {
		e.PurityT = 100.0 * e.NPure / (float64(e.NReco) + float64(e.NClones))
	}
}

// String reproduces the original Display format verbatim (SPEC_FULL §12).
func (e *Efficiency) String() string {
	clonePct := 0.0
	if e.NReco > 0 {
		clonePct = 100.0 * float64(e.NClones) / float64(e.NReco)
	}
	hitEffPct := 0.0
	if e.NHits > 0 {
		hitEffPct = 100.0 * e.NHeff / float64(e.NHits)
	}
	return fmt.Sprintf(
		"%-18s : %d from %d (%.1f%%, %.1f%%) %d clones (%.2f%%), purity: (%.2f%%, %.2f%%),  hitEff: (%.2f%%, %.2f%%)",
		e.Label, e.NReco, e.NParticles, e.RecoeffT, e.AvgRecoeff,
		e.NClones, clonePct, e.PurityT, e.AvgPurity, e.AvgHitEff, hitEffPct,
	)
}

// UpdateEfficiency mirrors update_efficiencies: filters particles by
// cond, projects the weight matrix onto the surviving columns,
// computes t2p/p2t, and folds the result into eff (creating it if
// nil). A category with no matching particles is left untouched
// (§4.8 "category never-seen: skip").
func UpdateEfficiency(eff *Efficiency, event *Event, tracks []model.Track, w *mat.Dense, label string, cond func(truth.MCParticle) bool) *Efficiency {
	var filteredIdx []int
	var filtered []truth.MCParticle
	for i, p := range event.Particles {
		if cond(p) {
			filteredIdx = append(filteredIdx, i)
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		return eff
	}

	wFiltered := &mat.Dense{}
	if len(tracks) > 0 {
		wFiltered = mat.NewDense(len(tracks), len(filteredIdx), nil)
		for i := 0; i < len(tracks); i++ {
			for jj, j := range filteredIdx {
				wFiltered.Set(i, jj, w.At(i, j))
			}
		}
	}

	t2p, p2t := HitPurity(tracks, filtered, wFiltered)

	if eff == nil {
		eff = NewEfficiency(label)
	}
	eff.AddEvent(tracks, filtered, t2p, p2t, event)
	return eff
}
