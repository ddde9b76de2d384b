package pipeline

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"

	"github.com/kilnworks/carbondash/internal/dataset"
)

// ScatterPoint is one country's observation at the selected year.
type ScatterPoint struct {
	Country      string
	GDPPerCapita float64
	CO2          float64
	Population   float64
}

// TrendLine is the least-squares fit over the scatter points.
type TrendLine struct {
	Slope     float64
	Intercept float64
}

// At evaluates the fitted line at x.
func (l TrendLine) At(x float64) float64 {
	return l.Intercept + l.Slope*x
}

// CrossSection relates CO2 output to economic output per person across
// countries in a single year. Aggregate rows, the world total included,
// are excluded so each point is one country.
type CrossSection struct {
	Year   int
	Points []ScatterPoint
	Fit    *TrendLine
	R      float64
}

// CrossSection builds the scatter view for the given year.
func (b *Builder) CrossSection(year int) (*CrossSection, error) {
	df := b.table.DataFrame().FilterAggregation(dataframe.And,
		dataframe.F{Colname: dataset.ColYear, Comparator: series.Eq, Comparando: year},
		dataframe.F{Colname: dataset.ColCountry, Comparator: series.CompFunc, Comparando: isCountry},
	)
	if df.Error() != nil {
		return nil, fmt.Errorf("cross-section filter: %w", df.Error())
	}
	if df.Nrow() == 0 {
		return &CrossSection{Year: year}, nil
	}

	groups := df.GroupBy(dataset.ColCountry)
	if groups.Err != nil {
		return nil, fmt.Errorf("cross-section group: %w", groups.Err)
	}
	agg := groups.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_MEAN, dataframe.Aggregation_MEAN, dataframe.Aggregation_MEAN},
		[]string{dataset.ColGDPPerCapita, dataset.ColCO2, dataset.ColPopulation},
	)
	if agg.Error() != nil {
		return nil, fmt.Errorf("cross-section aggregate: %w", agg.Error())
	}

	agg = agg.Arrange(dataframe.Sort(dataset.ColCountry))
	if agg.Error() != nil {
		return nil, fmt.Errorf("cross-section sort: %w", agg.Error())
	}

	countries := agg.Col(dataset.ColCountry).Records()
	gdp := agg.Col(dataset.ColGDPPerCapita + "_MEAN").Float()
	co2 := agg.Col(dataset.ColCO2 + "_MEAN").Float()
	pop := agg.Col(dataset.ColPopulation + "_MEAN").Float()

	cs := &CrossSection{Year: year, Points: make([]ScatterPoint, len(countries))}
	for i := range countries {
		cs.Points[i] = ScatterPoint{
			Country:      countries[i],
			GDPPerCapita: gdp[i],
			CO2:          co2[i],
			Population:   pop[i],
		}
	}

	if len(countries) >= 2 {
		alpha, beta := stat.LinearRegression(gdp, co2, nil, false)
		if !math.IsNaN(alpha) && !math.IsNaN(beta) && !math.IsInf(beta, 0) {
			cs.Fit = &TrendLine{Slope: beta, Intercept: alpha}
		}
		if r := stat.Correlation(gdp, co2, nil); !math.IsNaN(r) {
			cs.R = r
		}
	}
	return cs, nil
}

// isCountry reports whether a country cell names a real country rather than
// an aggregate row.
func isCountry(el series.Element) bool {
	return !dataset.IsAggregateRegion(el.String())
}
