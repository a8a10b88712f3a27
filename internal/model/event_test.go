package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePrefixSum() []int {
	ps := make([]int, NumberOfModules+1)
	for i := range ps {
		ps[i] = i * 2
	}
	return ps
}

func TestBuild(t *testing.T) {
	t.Run("rejects wrong module_prefix_sum length", func(t *testing.T) {
		_, err := Build("bad", []int{0, 1, 2}, nil, nil, nil, nil)
		require.Error(t, err)
	})

	t.Run("rejects mismatched coordinate lengths", func(t *testing.T) {
		ps := samplePrefixSum()
		n := ps[NumberOfModules]
		x := make([]float64, n)
		y := make([]float64, n-1)
		z := make([]float64, n)
		_, err := Build("bad", ps, x, y, z, nil)
		require.Error(t, err)
	})

	t.Run("builds an event whose modules partition the hits", func(t *testing.T) {
		ps := samplePrefixSum()
		n := ps[NumberOfModules]
		x := make([]float64, n)
		y := make([]float64, n)
		z := make([]float64, n)
		for i := 0; i < n; i++ {
			x[i] = float64(i)
			z[i] = float64(i / 2)
		}

		event, err := Build("sample", ps, x, y, z, nil)
		require.NoError(t, err)
		assert.Equal(t, n, event.NumberOfHits)
		assert.Len(t, event.Modules, NumberOfModules)

		total := 0
		for i, m := range event.Modules {
			assert.Equal(t, i, m.ModuleNumber)
			total += m.Len()
		}
		assert.Equal(t, n, total)
	})
}

func TestEventCloneAndSort(t *testing.T) {
	ps := samplePrefixSum()
	n := ps[NumberOfModules]
	x := make([]float64, n)
	y := make([]float64, n)
	z := make([]float64, n)
	for i := 0; i < n; i++ {
		// Descending x within each module so sorting has an observable effect.
		x[i] = float64(-i)
		z[i] = float64(i / 2)
	}
	original, err := Build("sample", ps, x, y, z, nil)
	require.NoError(t, err)

	clone := original.Clone()
	clone.SortModulesByX()

	// The caller's event is untouched.
	assert.Equal(t, x[0], original.Hits[0].X)

	for _, m := range clone.Modules {
		hits := m.Hits()
		for i := 1; i < len(hits); i++ {
			assert.LessOrEqual(t, hits[i-1].X, hits[i].X)
		}
	}
}

func TestModuleBoundsValidation(t *testing.T) {
	hits := make([]Hit, 4)
	_, err := NewModule(0, nil, 2, 1, hits)
	require.Error(t, err)

	_, err = NewModule(0, nil, 0, 10, hits)
	require.Error(t, err)

	m, err := NewModule(0, nil, 1, 3, hits)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
}
