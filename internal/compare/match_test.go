package compare

import (
	"testing"

	"github.com/veloxtrack/velopix/internal/model"
)

func hit(id int) model.Hit { return model.Hit{ID: id} }

func TestMatchTracksPairsIdenticalTracks(t *testing.T) {
	a := []model.Track{model.NewTrack([]model.Hit{hit(0), hit(1), hit(2)})}
	b := []model.Track{model.NewTrack([]model.Hit{hit(0), hit(1), hit(2)})}

	matches := MatchTracks(a, b)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if m.TrackBIdx != 0 {
		t.Errorf("expected track 0 of a to match track 0 of b, got %d", m.TrackBIdx)
	}
	if m.IoU != 1.0 {
		t.Errorf("expected IoU 1.0 for identical hit sets, got %f", m.IoU)
	}
	if m.HitsShared != 3 {
		t.Errorf("expected 3 shared hits, got %d", m.HitsShared)
	}
}

func TestMatchTracksLeavesLowOverlapUnmatched(t *testing.T) {
	a := []model.Track{model.NewTrack([]model.Hit{hit(0), hit(1), hit(2), hit(3)})}
	b := []model.Track{model.NewTrack([]model.Hit{hit(0), hit(4), hit(5), hit(6)})}

	matches := MatchTracks(a, b)
	require := matches[0]
	if require.TrackBIdx != -1 {
		t.Errorf("expected no match below minIoU threshold, got track %d with IoU %f", require.TrackBIdx, require.IoU)
	}
}

func TestMatchTracksHandlesEmptyInputs(t *testing.T) {
	if got := MatchTracks(nil, nil); len(got) != 0 {
		t.Errorf("expected no matches for empty inputs, got %v", got)
	}
	b := []model.Track{model.NewTrack([]model.Hit{hit(0)})}
	if got := MatchTracks(nil, b); len(got) != 0 {
		t.Errorf("expected no matches when a is empty, got %v", got)
	}
}

func TestMatchTracksDoesNotDoubleAssignTrackB(t *testing.T) {
	shared := []model.Hit{hit(0), hit(1), hit(2)}
	a := []model.Track{
		model.NewTrack(shared),
		model.NewTrack(shared),
	}
	b := []model.Track{model.NewTrack(shared)}

	matches := MatchTracks(a, b)
	matchedB := map[int]bool{}
	for _, m := range matches {
		if m.TrackBIdx < 0 {
			continue
		}
		if matchedB[m.TrackBIdx] {
			t.Fatalf("track %d of b matched more than once", m.TrackBIdx)
		}
		matchedB[m.TrackBIdx] = true
	}
}
