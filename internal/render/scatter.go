// Package render produces visual artifacts from reconstruction
// results: per-event hit/track scatter plots (gonum/plot) and a
// category-efficiency bar chart (go-echarts), grounded on the
// gridplotter/echarts_handlers style of time-series and polar
// visualization (SPEC_FULL §11).
package render

import (
	"fmt"
	"image/color"

	"github.com/veloxtrack/velopix/internal/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// trackColors cycles a small fixed palette across tracks, same idea as
// the ring-azimuth palette used for time-series plots.
var trackColors = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
}

// EventScatterXZ renders all hits of an event as a scatter in the X-Z
// plane (the module-separation axis), overlaying each reconstructed
// track as a connected line in a cycling color, and saves it as a PNG
// at path.
func EventScatterXZ(event *model.Event, tracks []model.Track, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Z (mm)"
	p.Y.Label.Text = "X (mm)"

	hitPts := make(plotter.XYs, len(event.Hits))
	for i, h := range event.Hits {
		hitPts[i] = plotter.XY{X: h.Z, Y: h.X}
	}
	hitScatter, err := plotter.NewScatter(hitPts)
	if err != nil {
		return fmt.Errorf("render: new hit scatter: %w", err)
	}
	hitScatter.GlyphStyle.Radius = vg.Points(1.2)
	hitScatter.GlyphStyle.Color = color.Gray{Y: 0x99}
	p.Add(hitScatter)

	for i, t := range tracks {
		if len(t.Hits) < 2 {
			continue
		}
		pts := make(plotter.XYs, len(t.Hits))
		for j, h := range t.Hits {
			pts[j] = plotter.XY{X: h.Z, Y: h.X}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("render: new track line %d: %w", i, err)
		}
		line.Color = trackColors[i%len(trackColors)]
		line.Width = vg.Points(1)
		p.Add(line)
	}

	p.Legend.Top = true
	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("render: save scatter: %w", err)
	}
	return nil
}
