package dataset

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Clean returns a new table with every missing value replaced by zero and the
// derived gdp_per_capita column appended. The input table is not modified.
//
// gdp_per_capita is gdp/population, or exactly zero for rows whose population
// is zero, so the derived column never carries NaN or Inf.
func Clean(t *Table) (*Table, error) {
	df := t.df
	names := df.Names()

	cols := make([]series.Series, 0, len(names)+1)
	for _, name := range names {
		s := df.Col(name)
		switch s.Type() {
		case series.Int, series.Float:
			s = fillZero(s)
		}
		cols = append(cols, s)
	}

	cleaned := dataframe.New(cols...)
	if cleaned.Error() != nil {
		return nil, fmt.Errorf("clean dataset: %w", cleaned.Error())
	}

	gdp := cleaned.Col(ColGDP).Float()
	pop := cleaned.Col(ColPopulation).Float()
	perCapita := make([]float64, len(gdp))
	for i := range gdp {
		if pop[i] == 0 {
			continue
		}
		perCapita[i] = gdp[i] / pop[i]
	}

	cleaned = cleaned.Mutate(series.New(perCapita, series.Float, ColGDPPerCapita))
	if cleaned.Error() != nil {
		return nil, fmt.Errorf("clean dataset: %w", cleaned.Error())
	}

	return &Table{df: cleaned, source: t.source, loadedAt: t.loadedAt}, nil
}

// fillZero replaces missing elements with zero, leaving the rest untouched.
func fillZero(s series.Series) series.Series {
	return s.Map(func(e series.Element) series.Element {
		if !e.IsNA() {
			return e
		}
		out := e.Copy()
		out.Set(0)
		return out
	})
}
