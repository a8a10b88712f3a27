package validate

import (
	"github.com/veloxtrack/velopix/internal/model"
	"github.com/veloxtrack/velopix/internal/truth"
	"gonum.org/v1/gonum/mat"
)

// purityThreshold is the minimum weight for an association to count
// (§4.6); ties go to the first index attaining the maximum.
const purityThreshold = 0.7

// Association is the outcome of associating one row (or column) of
// the weight matrix with its best counterpart: the winning weight and
// the counterpart's index, or -1 if no counterpart cleared the
// purity threshold.
type Association struct {
	Weight float64
	Index  int
}

// Ok reports whether the association exceeded the purity threshold.
func (a Association) Ok() bool { return a.Index >= 0 }

// HitPurity computes t2p (track index -> best particle) and p2t
// (particle index -> best track) per §4.6's independent per-row and
// per-column argmax, each subject to the 0.7 threshold.
func HitPurity(tracks []model.Track, particles []truth.MCParticle, w *mat.Dense) (t2p, p2t []Association) {
	nTracks, nParticles := len(tracks), len(particles)
	t2p = make([]Association, nTracks)
	for i := 0; i < nTracks; i++ {
		maxW, maxJ := -1.0, -1
		for j := 0; j < nParticles; j++ {
			v := w.At(i, j)
			if v > maxW {
				maxW, maxJ = v, j
			}
		}
		if nParticles == 0 {
			t2p[i] = Association{Weight: 0, Index: -1}
			continue
		}
		if maxW > purityThreshold {
			t2p[i] = Association{Weight: maxW, Index: maxJ}
		} else {
			t2p[i] = Association{Weight: maxW, Index: -1}
		}
	}

	p2t = make([]Association, nParticles)
	for j := 0; j < nParticles; j++ {
		maxW, maxI := 0.0, -1
		for i := 0; i < nTracks; i++ {
			v := w.At(i, j)
			if v > maxW {
				maxW, maxI = v, i
			}
		}
		if maxW > purityThreshold {
			p2t[j] = Association{Weight: maxW, Index: maxI}
		} else {
			p2t[j] = Association{Weight: maxW, Index: -1}
		}
	}
	return t2p, p2t
}

// GhostRate returns the fraction of tracks with no associated particle
// plus the raw ghost count.
func GhostRate(t2p []Association) (rate float64, ghosts int) {
	total := len(t2p)
	for _, a := range t2p {
		if !a.Ok() {
			ghosts++
		}
	}
	if total > 0 {
		rate = float64(ghosts) / float64(total)
	}
	return rate, ghosts
}

// Reconstructed returns the indices of tracks with at least one
// associated particle in p2t.
func Reconstructed(p2t []Association) []int {
	var out []int
	for _, a := range p2t {
		if a.Ok() {
			out = append(out, a.Index)
		}
	}
	return out
}

// Clones returns, for each particle index associated with more than
// one track in t2p, the list of track indices associated with it. The
// clone count contributed by a particle is len(tracks)-1.
func Clones(t2p []Association) map[int][]int {
	byParticle := map[int][]int{}
	for trackIdx, a := range t2p {
		if a.Ok() {
			byParticle[a.Index] = append(byParticle[a.Index], trackIdx)
		}
	}
	clones := map[int][]int{}
	for p, tracks := range byParticle {
		if len(tracks) > 1 {
			clones[p] = tracks
		}
	}
	return clones
}

// HitEfficiency computes, for each track associated with a particle in
// t2p, the fraction of that particle's truth hits the track captured
// (§4.6).
func HitEfficiency(tracks []model.Track, particles []truth.MCParticle, t2p []Association, event *Event) map[int]float64 {
	hitEff := map[int]float64{}
	for trackIdx, a := range t2p {
		if !a.Ok() {
			continue
		}
		particle := particles[a.Index]
		track := tracks[trackIdx]
		hitsFromParticle := 0
		for _, h := range track.Hits {
			pkeys := event.HitToMcp[h.ID]
			for _, pk := range pkeys {
				if pk == particle.PKey {
					hitsFromParticle++
					break
				}
			}
		}
		totalHits := len(event.McpToHits[particle.PKey])
		if totalHits > 0 {
			hitEff[trackIdx] = float64(hitsFromParticle) / float64(totalHits)
		}
	}
	return hitEff
}
