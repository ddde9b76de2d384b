// Package dataset loads, validates, and cleans the OWID CO2 observation table.
package dataset

import (
	"time"

	"github.com/go-gota/gota/dataframe"
)

// Column names of the observation table. The upstream CSV carries many more
// columns; the loader keeps exactly these, and Clean appends GDPPerCapita.
const (
	ColCountry      = "country"
	ColYear         = "year"
	ColCO2          = "co2"
	ColCO2PerCapita = "co2_per_capita"
	ColCoalCO2      = "coal_co2"
	ColOilCO2       = "oil_co2"
	ColGasCO2       = "gas_co2"
	ColPopulation   = "population"
	ColGDP          = "gdp"
	ColGDPPerCapita = "gdp_per_capita"
)

// RequiredColumns are the columns the source CSV must provide.
var RequiredColumns = []string{
	ColCountry,
	ColYear,
	ColCO2,
	ColCO2PerCapita,
	ColCoalCO2,
	ColOilCO2,
	ColGasCO2,
	ColPopulation,
	ColGDP,
}

// Continents are the aggregate rows charted by the source breakdown view.
var Continents = []string{
	"Asia",
	"Oceania",
	"Europe",
	"Africa",
	"North America",
	"South America",
	"Antarctica",
}

// AggregateRegions are all aggregate rows in the dataset, including the
// world total. Per-country views must exclude every one of them.
var AggregateRegions = append([]string{"World"}, Continents...)

var aggregateSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(AggregateRegions))
	for _, r := range AggregateRegions {
		m[r] = struct{}{}
	}
	return m
}()

// IsAggregateRegion reports whether name is an aggregate row rather than a country.
func IsAggregateRegion(name string) bool {
	_, ok := aggregateSet[name]
	return ok
}

// Table is an immutable observation table keyed by (country, year).
// Derived views filter and aggregate it; nothing mutates it after load.
type Table struct {
	df       dataframe.DataFrame
	source   string
	loadedAt time.Time
}

// Stats summarizes a table for dashboards and load reports.
type Stats struct {
	Rows      int
	Countries int
	YearMin   int
	YearMax   int
	LoadedAt  time.Time
}

// DataFrame returns the underlying frame. Callers must treat it as read-only.
func (t *Table) DataFrame() dataframe.DataFrame {
	return t.df
}

// Rows returns the number of observations.
func (t *Table) Rows() int {
	return t.df.Nrow()
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return t.df.Names()
}

// Source describes where the table was loaded from.
func (t *Table) Source() string {
	return t.source
}

// LoadedAt returns when the table was loaded.
func (t *Table) LoadedAt() time.Time {
	return t.loadedAt
}

// YearRange returns the minimum and maximum year present.
func (t *Table) YearRange() (min, max int) {
	if t.df.Nrow() == 0 {
		return 0, 0
	}
	years := t.df.Col(ColYear)
	return int(years.Min()), int(years.Max())
}

// Countries returns the distinct non-aggregate country names.
func (t *Table) Countries() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, name := range t.df.Col(ColCountry).Records() {
		if IsAggregateRegion(name) {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Stats computes header statistics for the table.
func (t *Table) Stats() Stats {
	minYear, maxYear := t.YearRange()
	return Stats{
		Rows:      t.Rows(),
		Countries: len(t.Countries()),
		YearMin:   minYear,
		YearMax:   maxYear,
		LoadedAt:  t.loadedAt,
	}
}
