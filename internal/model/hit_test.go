package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHitEqual(t *testing.T) {
	a := Hit{ID: 1, X: 1.0, Y: 2.0, Z: 3.0}
	b := Hit{ID: 1, X: -1.0, Y: -2.0, Z: -3.0}
	c := Hit{ID: 2, X: 1.0, Y: 2.0, Z: 3.0}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
