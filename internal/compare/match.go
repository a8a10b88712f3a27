package compare

import "github.com/veloxtrack/velopix/internal/model"

// TrackMatch is the optimal pairing of one track from engine A to its
// best counterpart in engine B, scored by hit-set IoU.
type TrackMatch struct {
	TrackAIdx  int
	TrackBIdx  int // -1 if unmatched
	IoU        float64
	HitsA      int
	HitsB      int
	HitsShared int
}

func hitSet(t model.Track) map[int]struct{} {
	s := make(map[int]struct{}, len(t.Hits))
	for _, h := range t.Hits {
		s[h.ID] = struct{}{}
	}
	return s
}

func iou(a, b map[int]struct{}) (float64, int) {
	shared := 0
	for id := range a {
		if _, ok := b[id]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	if union == 0 {
		return 0, 0
	}
	return float64(shared) / float64(union), shared
}

// minIoU is the smallest overlap worth calling a match; below this,
// two tracks are considered unrelated outputs rather than the same
// underlying particle reconstructed twice.
const minIoU = 0.3

// MatchTracks pairs each track of a against its best counterpart in b
// by hit-set IoU, via the Hungarian assignment on a 1-IoU cost matrix
// so that no track in b is claimed by more than one track in a.
func MatchTracks(a, b []model.Track) []TrackMatch {
	setsA := make([]map[int]struct{}, len(a))
	for i, t := range a {
		setsA[i] = hitSet(t)
	}
	setsB := make([]map[int]struct{}, len(b))
	for j, t := range b {
		setsB[j] = hitSet(t)
	}

	cost := make([][]float64, len(a))
	ious := make([][]float64, len(a))
	shareds := make([][]int, len(a))
	for i := range a {
		cost[i] = make([]float64, len(b))
		ious[i] = make([]float64, len(b))
		shareds[i] = make([]int, len(b))
		for j := range b {
			v, shared := iou(setsA[i], setsB[j])
			ious[i][j] = v
			shareds[i][j] = shared
			if v < minIoU {
				cost[i][j] = hungarianInf
			} else {
				cost[i][j] = 1 - v
			}
		}
	}

	assign := hungarianAssign(cost)

	matches := make([]TrackMatch, len(a))
	for i, t := range a {
		j := -1
		if i < len(assign) {
			j = assign[i]
		}
		m := TrackMatch{TrackAIdx: i, TrackBIdx: -1, HitsA: len(t.Hits)}
		if j >= 0 {
			m.TrackBIdx = j
			m.IoU = ious[i][j]
			m.HitsB = len(b[j].Hits)
			m.HitsShared = shareds[i][j]
		}
		matches[i] = m
	}
	return matches
}
