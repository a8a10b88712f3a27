package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloxtrack/velopix/internal/model"
	"github.com/veloxtrack/velopix/internal/veloconfig"
)

func TestTrackFollowingEmptyEvent(t *testing.T) {
	event := buildStraightLineEvent(nil, nil)
	tf := NewTrackFollowing(veloconfig.DefaultEngineConfig())
	tracks := tf.Solve(event)
	assert.Empty(t, tracks)
}

func TestTrackFollowingFindsStraightTrack(t *testing.T) {
	event := buildStraightLineEvent([]int{4, 5, 6, 7, 8, 9}, nil)
	tf := NewTrackFollowing(veloconfig.DefaultEngineConfig())
	tracks := tf.Solve(event)

	require.NotEmpty(t, tracks)
	found := hitIDSet(tracks)
	assert.True(t, len(found) >= tf.minTrackLength)

	for _, tr := range tracks {
		assert.GreaterOrEqual(t, len(tr.Hits), tf.minTrackLength)
		for _, h := range tr.Hits {
			assert.True(t, h.ID >= 0 && h.ID < event.NumberOfHits)
		}
	}
}

func TestTrackFollowingToleranceRejectsDegenerateGeometry(t *testing.T) {
	tf := NewTrackFollowing(veloconfig.DefaultEngineConfig())
	h0 := model.Hit{ID: 0, X: 0, Y: 0, Z: 0}
	h1 := model.Hit{ID: 1, X: 0, Y: 0, Z: 0} // same z as h0: degenerate
	h2 := model.Hit{ID: 2, X: 0, Y: 0, Z: 10}
	assert.False(t, tf.checkTolerance(h0, h1, h2))
}
