package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/veloxtrack/velopix/internal/model"
)

// CategorySummary is the JSON-facing projection of an Efficiency
// accumulator for one category (§6).
type CategorySummary struct {
	Label      string  `json:"label"`
	NParticles int     `json:"n_particles"`
	NReco      int     `json:"n_reco"`
	NClones    int     `json:"n_clones"`
	RecoeffT   float64 `json:"recoeff_t"`
	AvgRecoeff float64 `json:"avg_recoeff"`
	PurityT    float64 `json:"purity_t"`
	AvgPurity  float64 `json:"avg_purity"`
	AvgHitEff  float64 `json:"avg_hit_eff"`
}

func summaryOf(e *Efficiency) CategorySummary {
	return CategorySummary{
		Label:      e.Label,
		NParticles: e.NParticles,
		NReco:      e.NReco,
		NClones:    e.NClones,
		RecoeffT:   e.RecoeffT,
		AvgRecoeff: e.AvgRecoeff,
		PurityT:    e.PurityT,
		AvgPurity:  e.AvgPurity,
		AvgHitEff:  e.AvgHitEff,
	}
}

// Report is the full JSON surface produced by ValidateToJSON (§6).
type Report struct {
	NEvents           int                        `json:"n_events"`
	TotalTracks       int                        `json:"total_tracks"`
	TotalGhosts       int                        `json:"total_ghosts"`
	OverallGhostRate  float64                    `json:"overall_ghost_rate"`
	EventAvgGhostRate float64                    `json:"event_avg_ghost_rate"`
	Categories        map[string]CategorySummary `json:"categories"`
}

// NestedReport additionally breaks the same totals down per event,
// keyed by the event's stringified index (§6, "validate_to_json_nested").
type NestedReport struct {
	Report
	Events map[string]map[string]CategorySummary `json:"events"`
}

// ghostStats carries the cross-category ghost-rate totals §6's
// validate_to_json/validate_print report alongside the per-category
// breakdown: total tracks and ghosts summed over every event, the
// ghost rate computed from those totals, and the average of each
// individual event's own ghost rate.
type ghostStats struct {
	totalTracks       int
	totalGhosts       int
	overallGhostRate  float64
	eventAvgGhostRate float64
}

func accumulateAll(events []*Event, tracksPerEvent [][]model.Track) (map[string]*Efficiency, ghostStats, error) {
	if len(events) != len(tracksPerEvent) {
		return nil, ghostStats{}, fmt.Errorf("validate: %d events but %d track lists", len(events), len(tracksPerEvent))
	}
	byLabel := make(map[string]*Efficiency, len(Categories))
	for _, c := range Categories {
		byLabel[c.Label] = NewEfficiency(c.Label)
	}

	var stats ghostStats
	var rateSum float64
	for i, event := range events {
		tracks := tracksPerEvent[i]
		w, err := ComputeWeights(tracks, event)
		if err != nil {
			return nil, ghostStats{}, err
		}
		for _, c := range Categories {
			byLabel[c.Label] = UpdateEfficiency(byLabel[c.Label], event, tracks, w, c.Label, c.Cond)
		}

		t2p, _ := HitPurity(tracks, event.Particles, w)
		rate, ghosts := GhostRate(t2p)
		stats.totalTracks += len(tracks)
		stats.totalGhosts += ghosts
		rateSum += rate
	}
	if stats.totalTracks > 0 {
		stats.overallGhostRate = float64(stats.totalGhosts) / float64(stats.totalTracks)
	}
	if len(events) > 0 {
		stats.eventAvgGhostRate = rateSum / float64(len(events))
	}
	return byLabel, stats, nil
}

// ValidateEfficiency reports the overall reconstruction efficiency
// (recoeff_t, percent) for a single named category across all events
// (§6). An unrecognized particleType yields 0, since CategoryByLabel
// falls back to an always-false predicate.
func ValidateEfficiency(events []*Event, tracksPerEvent [][]model.Track, particleType string) (float64, error) {
	if len(events) != len(tracksPerEvent) {
		return 0, fmt.Errorf("validate: %d events but %d track lists", len(events), len(tracksPerEvent))
	}
	cat := CategoryByLabel(particleType)
	var eff *Efficiency
	for i, event := range events {
		tracks := tracksPerEvent[i]
		w, err := ComputeWeights(tracks, event)
		if err != nil {
			return 0, err
		}
		eff = UpdateEfficiency(eff, event, tracks, w, cat.Label, cat.Cond)
	}
	if eff == nil {
		return 0, nil
	}
	return eff.RecoeffT, nil
}

// ValidatePrint renders the full human-readable report: a header line
// giving the cross-category ghost rate, then one line per category in
// declared order, via Efficiency.String (§6).
func ValidatePrint(events []*Event, tracksPerEvent [][]model.Track) (string, error) {
	byLabel, stats, err := accumulateAll(events, tracksPerEvent)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d tracks including %d ghosts (%.2f%%). Event average ghost rate: %.2f%%\n",
		stats.totalTracks, stats.totalGhosts, stats.overallGhostRate*100, stats.eventAvgGhostRate*100)
	for _, c := range Categories {
		b.WriteString(byLabel[c.Label].String())
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// ValidateToJSON produces the machine-readable summary equivalent to
// ValidatePrint: totals across all events, broken down per category.
// verbose is accepted for interface parity with the original surface;
// every field it would add is already present in CategorySummary.
func ValidateToJSON(events []*Event, tracksPerEvent [][]model.Track, verbose bool) (Report, error) {
	byLabel, stats, err := accumulateAll(events, tracksPerEvent)
	if err != nil {
		return Report{}, err
	}
	report := Report{
		NEvents:           len(events),
		TotalTracks:       stats.totalTracks,
		TotalGhosts:       stats.totalGhosts,
		OverallGhostRate:  stats.overallGhostRate,
		EventAvgGhostRate: stats.eventAvgGhostRate,
		Categories:        make(map[string]CategorySummary, len(Categories)),
	}
	for _, c := range Categories {
		report.Categories[c.Label] = summaryOf(byLabel[c.Label])
	}
	return report, nil
}

// ValidateToJSONNested is ValidateToJSON plus a per-event breakdown,
// keyed by the event's stringified index (§6).
func ValidateToJSONNested(events []*Event, tracksPerEvent [][]model.Track, verbose bool) (NestedReport, error) {
	if len(events) != len(tracksPerEvent) {
		return NestedReport{}, fmt.Errorf("validate: %d events but %d track lists", len(events), len(tracksPerEvent))
	}
	top, err := ValidateToJSON(events, tracksPerEvent, verbose)
	if err != nil {
		return NestedReport{}, err
	}
	nested := NestedReport{Report: top, Events: make(map[string]map[string]CategorySummary, len(events))}
	for i, event := range events {
		tracks := tracksPerEvent[i]
		w, err := ComputeWeights(tracks, event)
		if err != nil {
			return NestedReport{}, err
		}
		perCat := make(map[string]CategorySummary, len(Categories))
		for _, c := range Categories {
			var eff *Efficiency
			eff = UpdateEfficiency(eff, event, tracks, w, c.Label, c.Cond)
			if eff == nil {
				eff = NewEfficiency(c.Label)
			}
			perCat[c.Label] = summaryOf(eff)
		}
		nested.Events[strconv.Itoa(i)] = perCat
	}
	return nested, nil
}
