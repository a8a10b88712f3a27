package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackKeyDistinguishesContentAndFlags(t *testing.T) {
	a := NewTrack([]Hit{{ID: 1}, {ID: 2}})
	b := NewTrack([]Hit{{ID: 1}, {ID: 2}})
	assert.Equal(t, a.Key(), b.Key())

	c := NewTrack([]Hit{{ID: 1}, {ID: 3}})
	assert.NotEqual(t, a.Key(), c.Key())

	d := NewTrack([]Hit{{ID: 1}, {ID: 2}})
	d.MissedLastModule = true
	assert.NotEqual(t, a.Key(), d.Key())
}

func TestTrackHasHit(t *testing.T) {
	tr := NewTrack([]Hit{{ID: 5}, {ID: 9}})
	assert.True(t, tr.HasHit(5))
	assert.False(t, tr.HasHit(6))
}

func TestTrackAddHit(t *testing.T) {
	tr := NewTrack(nil)
	tr.AddHit(Hit{ID: 42})
	assert.Len(t, tr.Hits, 1)
	assert.True(t, tr.HasHit(42))
}
