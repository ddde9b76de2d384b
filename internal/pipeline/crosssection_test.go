package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilnworks/carbondash/internal/dataset"
)

func TestCrossSection(t *testing.T) {
	b := newTestBuilder(t)

	cs, err := b.CrossSection(2000)
	require.NoError(t, err)

	require.Len(t, cs.Points, 2, "only countries, no aggregate rows")
	for _, p := range cs.Points {
		assert.False(t, dataset.IsAggregateRegion(p.Country),
			"cross-section must exclude aggregates, got %q", p.Country)
	}

	// Sorted by country: France then Japan. gdp_per_capita is derived from
	// the fixture's gdp and population columns.
	france, japan := cs.Points[0], cs.Points[1]
	assert.Equal(t, "France", france.Country)
	assert.InDelta(t, 10.0, france.GDPPerCapita, 1e-9)
	assert.InDelta(t, 1.0, france.CO2, 1e-9)
	assert.InDelta(t, 100.0, france.Population, 1e-9)

	assert.Equal(t, "Japan", japan.Country)
	assert.InDelta(t, 20.0, japan.GDPPerCapita, 1e-9)
	assert.InDelta(t, 3.0, japan.CO2, 1e-9)
}

func TestCrossSection_ExcludesWorld(t *testing.T) {
	b := newTestBuilder(t)

	cs, err := b.CrossSection(2000)
	require.NoError(t, err)
	for _, p := range cs.Points {
		assert.NotEqual(t, "World", p.Country)
	}
}

func TestCrossSection_Fit(t *testing.T) {
	b := newTestBuilder(t)

	cs, err := b.CrossSection(2000)
	require.NoError(t, err)

	// Two points (10,1) and (20,3): slope 0.2, intercept -1, perfect fit.
	require.NotNil(t, cs.Fit)
	assert.InDelta(t, 0.2, cs.Fit.Slope, 1e-9)
	assert.InDelta(t, -1.0, cs.Fit.Intercept, 1e-9)
	assert.InDelta(t, 1.0, cs.R, 1e-9)

	assert.InDelta(t, 1.0, cs.Fit.At(10), 1e-9)
	assert.InDelta(t, 3.0, cs.Fit.At(20), 1e-9)
}

func TestCrossSection_SinglePoint(t *testing.T) {
	b := newTestBuilder(t)

	// Only France exists in 1999.
	cs, err := b.CrossSection(1999)
	require.NoError(t, err)
	require.Len(t, cs.Points, 1)
	assert.Nil(t, cs.Fit, "no fit from a single point")
	assert.Equal(t, 0.0, cs.R)
}

func TestCrossSection_EmptyYear(t *testing.T) {
	b := newTestBuilder(t)

	cs, err := b.CrossSection(1234)
	require.NoError(t, err)
	assert.Empty(t, cs.Points)
	assert.Nil(t, cs.Fit)
}
