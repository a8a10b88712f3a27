package engine

import "github.com/veloxtrack/velopix/internal/model"

// buildStraightLineEvent returns a 52-module event with exactly one
// hit per module in hitModules, all lying on a single straight line
// (x = 0.01*z, y = 0.01*z) well within every engine's default slope
// tolerance (0.7), plus an independent scattered hit in every other
// listed noiseModule (not on the line) to exercise ghost rejection.
func buildStraightLineEvent(hitModules []int, noiseModules []int) *model.Event {
	const spacing = 10.0

	type placement struct {
		module int
		x, y   float64
	}
	var placements []placement
	for _, m := range hitModules {
		z := float64(m) * spacing
		placements = append(placements, placement{module: m, x: 0.01 * z, y: 0.01 * z})
	}
	for _, m := range noiseModules {
		z := float64(m) * spacing
		placements = append(placements, placement{module: m, x: 50 + float64(m), y: -50 - float64(m)})
	}

	byModule := make(map[int][]placement)
	for _, p := range placements {
		byModule[p.module] = append(byModule[p.module], p)
	}

	ps := make([]int, model.NumberOfModules+1)
	var x, y, z []float64
	count := 0
	for m := 0; m < model.NumberOfModules; m++ {
		ps[m] = count
		for _, p := range byModule[m] {
			x = append(x, p.x)
			y = append(y, p.y)
			z = append(z, float64(m)*spacing)
			count++
		}
	}
	ps[model.NumberOfModules] = count

	event, err := model.Build("test", ps, x, y, z, nil)
	if err != nil {
		panic(err)
	}
	return event
}

func hitIDSet(tracks []model.Track) map[int]bool {
	ids := map[int]bool{}
	for _, t := range tracks {
		for _, h := range t.Hits {
			ids[h.ID] = true
		}
	}
	return ids
}
