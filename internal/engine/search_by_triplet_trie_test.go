package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloxtrack/velopix/internal/model"
	"github.com/veloxtrack/velopix/internal/veloconfig"
)

func TestSearchByTripletTrieEmptyEvent(t *testing.T) {
	event := buildStraightLineEvent(nil, nil)
	st := NewSearchByTripletTrie(veloconfig.DefaultEngineConfig())
	tracks := st.Solve(event)
	assert.Empty(t, tracks)
}

func TestSearchByTripletTrieFindsStraightTrack(t *testing.T) {
	event := buildStraightLineEvent([]int{4, 5, 6, 7, 8, 9}, nil)
	st := NewSearchByTripletTrie(veloconfig.DefaultEngineConfig())
	tracks := st.Solve(event)

	require.NotEmpty(t, tracks)
	for _, tr := range tracks {
		for _, h := range tr.Hits {
			assert.True(t, h.ID >= 0 && h.ID < event.NumberOfHits)
		}
	}
}

func TestScatterIsZeroForCollinearHits(t *testing.T) {
	st := NewSearchByTripletTrie(veloconfig.DefaultEngineConfig())
	h0 := model.Hit{ID: 0, X: 0, Y: 0, Z: 0}
	h1 := model.Hit{ID: 1, X: 1, Y: 1, Z: 10}
	h2 := model.Hit{ID: 2, X: 2, Y: 2, Z: 20}
	assert.InDelta(t, 0.0, st.scatter(h0, h1, h2), 1e-9)
}
