package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceBreakdown(t *testing.T) {
	b := newTestBuilder(t)

	bd, err := b.SourceBreakdown(2000)
	require.NoError(t, err)

	assert.Equal(t, []string{"Asia", "Europe"}, bd.Regions,
		"continent order is fixed, world total and absent continents are left out")

	require.Len(t, bd.Sources, 3)
	assert.Equal(t, "Coal", bd.Sources[0].Name)
	assert.Equal(t, "Oil", bd.Sources[1].Name)
	assert.Equal(t, "Gas", bd.Sources[2].Name)

	assert.InDeltaSlice(t, []float64{32, 11}, bd.Sources[0].Values, 1e-9)
	assert.InDeltaSlice(t, []float64{16, 12}, bd.Sources[1].Values, 1e-9)
	assert.InDeltaSlice(t, []float64{7, 9}, bd.Sources[2].Values, 1e-9)
}

func TestSourceBreakdown_ExcludesWorldAndCountries(t *testing.T) {
	b := newTestBuilder(t)

	bd, err := b.SourceBreakdown(2000)
	require.NoError(t, err)
	assert.NotContains(t, bd.Regions, "World")
	assert.NotContains(t, bd.Regions, "France")
	assert.NotContains(t, bd.Regions, "Japan")
}

func TestSourceBreakdown_EmptyYear(t *testing.T) {
	b := newTestBuilder(t)

	bd, err := b.SourceBreakdown(1234)
	require.NoError(t, err)
	assert.Empty(t, bd.Regions)
	assert.Empty(t, bd.Sources)
}
