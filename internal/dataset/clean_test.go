package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, csv string) *Table {
	t.Helper()
	table, _, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	return table
}

func TestClean_FillsMissingWithZero(t *testing.T) {
	table := mustParse(t, sampleCSV)

	cleaned, err := Clean(table)
	require.NoError(t, err)

	for _, name := range cleaned.Columns() {
		if name == ColCountry {
			continue
		}
		for i, isNA := range cleaned.DataFrame().Col(name).IsNaN() {
			assert.False(t, isNA, "column %s row %d still missing after clean", name, i)
		}
	}

	// The gap in row 2 becomes zero, not an interpolation.
	co2 := cleaned.DataFrame().Col(ColCO2).Float()
	assert.Equal(t, []float64{10.5, 0, 100}, co2)
}

func TestClean_DerivesGDPPerCapita(t *testing.T) {
	csv := `country,year,co2,co2_per_capita,coal_co2,oil_co2,gas_co2,population,gdp
Aland,2000,1,1,1,1,1,100,1000
Bland,2000,1,1,1,1,1,0,1000
Cland,2000,1,1,1,1,1,50,
`
	table := mustParse(t, csv)

	cleaned, err := Clean(table)
	require.NoError(t, err)

	require.Contains(t, cleaned.Columns(), ColGDPPerCapita)
	got := cleaned.DataFrame().Col(ColGDPPerCapita).Float()
	require.Len(t, got, 3)

	assert.Equal(t, 10.0, got[0], "gdp 1000 over population 100")
	assert.Equal(t, 0.0, got[1], "zero population divides to zero, not Inf")
	assert.Equal(t, 0.0, got[2], "missing gdp fills to zero first")
}

func TestClean_DoesNotMutateInput(t *testing.T) {
	table := mustParse(t, sampleCSV)

	before := table.DataFrame().Col(ColCO2).IsNaN()
	_, err := Clean(table)
	require.NoError(t, err)
	after := table.DataFrame().Col(ColCO2).IsNaN()

	assert.Equal(t, before, after, "input table must stay untouched")
	assert.NotContains(t, table.Columns(), ColGDPPerCapita)
}

func TestClean_PreservesSource(t *testing.T) {
	table := mustParse(t, sampleCSV)
	table.source = "testdata/owid.csv"

	cleaned, err := Clean(table)
	require.NoError(t, err)
	assert.Equal(t, "testdata/owid.csv", cleaned.Source())
	assert.Equal(t, table.LoadedAt(), cleaned.LoadedAt())
}
