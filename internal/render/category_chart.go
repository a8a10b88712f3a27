package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/veloxtrack/velopix/internal/validate"
)

const echartsAssetsPrefix = "https://go-echarts.github.io/go-echarts-assets/assets/"

// CategoryEfficiencyChart renders a bar chart comparing avg_recoeff,
// purity_t and avg_hit_eff across the categories present in report, in
// declared category order, and writes the resulting HTML page to w.
func CategoryEfficiencyChart(report validate.Report, w io.Writer) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  "Track Reconstruction Efficiency",
			Theme:      "dark",
			Width:      "960px",
			Height:     "540px",
			AssetsHost: echartsAssetsPrefix,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Reconstruction efficiency by category",
			Subtitle: fmt.Sprintf("n_events=%d", report.NEvents),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "percent", Min: 0, Max: 100}),
	)

	var labels []string
	var recoeff, purity, hiteff []opts.BarData
	for _, cat := range validate.Categories {
		summary, ok := report.Categories[cat.Label]
		if !ok {
			continue
		}
		labels = append(labels, cat.Label)
		recoeff = append(recoeff, opts.BarData{Value: summary.AvgRecoeff})
		purity = append(purity, opts.BarData{Value: summary.PurityT})
		hiteff = append(hiteff, opts.BarData{Value: summary.AvgHitEff})
	}

	bar.SetXAxis(labels).
		AddSeries("avg_recoeff", recoeff).
		AddSeries("purity_t", purity).
		AddSeries("avg_hit_eff", hiteff)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return fmt.Errorf("render: category chart: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
