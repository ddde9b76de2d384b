package pipeline

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/kilnworks/carbondash/internal/dataset"
)

// SourceSeries holds one emission source's values, aligned with
// Breakdown.Regions.
type SourceSeries struct {
	Name   string
	Values []float64
}

// Breakdown splits each continent's emissions at the selected year into
// coal, oil, and gas contributions. The world total is left out so the
// continents remain comparable.
type Breakdown struct {
	Year    int
	Regions []string
	Sources []SourceSeries
}

var sourceColumns = []struct {
	name string
	col  string
}{
	{"Coal", dataset.ColCoalCO2},
	{"Oil", dataset.ColOilCO2},
	{"Gas", dataset.ColGasCO2},
}

// SourceBreakdown builds the grouped bar view for the given year.
func (b *Builder) SourceBreakdown(year int) (*Breakdown, error) {
	df := b.table.DataFrame().FilterAggregation(dataframe.And,
		dataframe.F{Colname: dataset.ColYear, Comparator: series.Eq, Comparando: year},
		dataframe.F{Colname: dataset.ColCountry, Comparator: series.In, Comparando: dataset.Continents},
	)
	if df.Error() != nil {
		return nil, fmt.Errorf("breakdown filter: %w", df.Error())
	}
	if df.Nrow() == 0 {
		return &Breakdown{Year: year}, nil
	}

	groups := df.GroupBy(dataset.ColCountry)
	if groups.Err != nil {
		return nil, fmt.Errorf("breakdown group: %w", groups.Err)
	}
	cols := make([]string, len(sourceColumns))
	typs := make([]dataframe.AggregationType, len(sourceColumns))
	for i, sc := range sourceColumns {
		cols[i] = sc.col
		typs[i] = dataframe.Aggregation_MEAN
	}
	agg := groups.Aggregation(typs, cols)
	if agg.Error() != nil {
		return nil, fmt.Errorf("breakdown aggregate: %w", agg.Error())
	}

	regions := agg.Col(dataset.ColCountry).Records()
	byRegion := make(map[string]int, len(regions))
	for i, r := range regions {
		byRegion[r] = i
	}

	out := &Breakdown{Year: year}
	values := make([][]float64, len(sourceColumns))
	for i, sc := range sourceColumns {
		out.Sources = append(out.Sources, SourceSeries{Name: sc.name})
		values[i] = agg.Col(sc.col + "_MEAN").Float()
	}

	// Emit categories in the fixed continent order, skipping continents
	// absent at this year.
	for _, continent := range dataset.Continents {
		idx, ok := byRegion[continent]
		if !ok {
			continue
		}
		out.Regions = append(out.Regions, continent)
		for i := range out.Sources {
			out.Sources[i].Values = append(out.Sources[i].Values, values[i][idx])
		}
	}
	return out, nil
}
