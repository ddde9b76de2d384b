// Package commands tests for CLI command creation.
package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilnworks/carbondash/internal/dataset"
)

const testCSV = `country,year,co2,co2_per_capita,coal_co2,oil_co2,gas_co2,population,gdp,iso_code
Testland,1999,10.5,1.2,4,3,2,1000000,5000000,TST
Testland,2000,,1.3,4,3,,1100000,,TST
World,2000,100,2.5,40,30,20,6000000000,50000000,OWID_WRL
`

func testTable(t *testing.T) *dataset.Table {
	t.Helper()
	raw, _, err := dataset.Parse(strings.NewReader(testCSV))
	require.NoError(t, err)
	clean, err := dataset.Clean(raw)
	require.NoError(t, err)
	return clean
}

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	assert.Equal(t, "serve", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"host", "port", "no-browser", "watch"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewFetchCommand(t *testing.T) {
	cmd := NewFetchCommand()

	assert.Equal(t, "fetch", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("out"), "flag out should exist")
}

func TestNewPeekCommand(t *testing.T) {
	cmd := NewPeekCommand()

	assert.Equal(t, "peek", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	rows := cmd.Flags().Lookup("rows")
	require.NotNil(t, rows, "flag rows should exist")
	assert.Equal(t, "n", rows.Shorthand)
	assert.Equal(t, "10", rows.DefValue)
}

func TestNewSummaryCommand(t *testing.T) {
	cmd := NewSummaryCommand()

	assert.Equal(t, "summary", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func TestNewExportCommand(t *testing.T) {
	cmd := NewExportCommand()

	assert.Equal(t, "export", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"dir", "format", "year", "metric"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestPeekRows(t *testing.T) {
	table := testTable(t)

	cols, cells := peekRows(table, 2)
	require.Len(t, cells, 2)
	assert.Equal(t, table.Columns(), cols)
	assert.Contains(t, cols, dataset.ColGDPPerCapita, "peek shows the cleaned table")

	assert.Equal(t, "Testland", cells[0][0])
	assert.Equal(t, "1999", cells[0][1])
	assert.Equal(t, "10.5", cells[0][2], "floats print without padded decimals")

	// Second row had a missing co2 cell; cleaning zeroes it.
	assert.Equal(t, "0", cells[1][2])
}

func TestPeekRows_ClampsCount(t *testing.T) {
	table := testTable(t)

	_, cells := peekRows(table, 99)
	assert.Len(t, cells, 3)

	_, cells = peekRows(table, -1)
	assert.Empty(t, cells)
}

func TestPeekJSON_TypesValues(t *testing.T) {
	table := testTable(t)

	cols, cells := peekRows(table, 1)
	rows := peekJSON(cols, cells)
	require.Len(t, rows, 1)

	assert.Equal(t, "Testland", rows[0]["country"])
	assert.Equal(t, float64(1999), rows[0]["year"])
	assert.Equal(t, 10.5, rows[0]["co2"])
}

func TestFormatStat(t *testing.T) {
	assert.Equal(t, "10", formatStat(10))
	assert.Equal(t, "0", formatStat(0))
	assert.Equal(t, "1.500", formatStat(1.5))
}

func TestSessionSecret_Precedence(t *testing.T) {
	assert.Equal(t, "from-config", sessionSecret("from-config"))

	t.Setenv("CARBONDASH_SESSION_SECRET", "from-env")
	assert.Equal(t, "from-env", sessionSecret(""))

	t.Setenv("CARBONDASH_SESSION_SECRET", "")
	assert.Equal(t, "carbondash-dev-secret-change-in-production", sessionSecret(""))
}
