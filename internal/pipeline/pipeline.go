// Package pipeline derives the dashboard views from the cleaned observation
// table. Each view is a pure function of the table and the current widget
// values; changing a widget value means rebuilding the view, never mutating
// the table.
package pipeline

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/kilnworks/carbondash/internal/dataset"
)

// DefaultPageSize is the table page size when none is configured.
const DefaultPageSize = 10

// Builder derives views from one table snapshot. Create a new builder after
// a dataset reload to pick up the replacement table.
type Builder struct {
	table *dataset.Table
}

// New returns a builder over the given cleaned table.
func New(t *dataset.Table) *Builder {
	return &Builder{table: t}
}

// Table returns the snapshot this builder reads from.
func (b *Builder) Table() *dataset.Table {
	return b.table
}

// TrendRow is one aggregated observation of the trend view.
type TrendRow struct {
	Region string
	Year   int
	Value  float64
}

// Trend is the grouped time series behind the line chart and the table:
// mean of the selected metric per (aggregate region, year), for all years up
// to and including MaxYear.
type Trend struct {
	Metric  Metric
	MaxYear int
	Rows    []TrendRow
}

// Page is one page of trend rows for remote table pagination.
type Page struct {
	Rows      []TrendRow
	Index     int
	Count     int
	TotalRows int
	Size      int
}

// EmissionsTrend builds the trend view for the given metric and year cutoff.
func (b *Builder) EmissionsTrend(metric Metric, maxYear int) (*Trend, error) {
	col := metric.Column()

	df := b.table.DataFrame().FilterAggregation(dataframe.And,
		dataframe.F{Colname: dataset.ColYear, Comparator: series.LessEq, Comparando: maxYear},
		dataframe.F{Colname: dataset.ColCountry, Comparator: series.In, Comparando: dataset.AggregateRegions},
	)
	if df.Error() != nil {
		return nil, fmt.Errorf("trend filter: %w", df.Error())
	}
	if df.Nrow() == 0 {
		return &Trend{Metric: metric, MaxYear: maxYear}, nil
	}

	groups := df.GroupBy(dataset.ColCountry, dataset.ColYear)
	if groups.Err != nil {
		return nil, fmt.Errorf("trend group: %w", groups.Err)
	}
	agg := groups.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_MEAN},
		[]string{col},
	)
	if agg.Error() != nil {
		return nil, fmt.Errorf("trend aggregate: %w", agg.Error())
	}

	agg = agg.Arrange(dataframe.Sort(dataset.ColCountry), dataframe.Sort(dataset.ColYear))
	if agg.Error() != nil {
		return nil, fmt.Errorf("trend sort: %w", agg.Error())
	}

	regions := agg.Col(dataset.ColCountry).Records()
	years := agg.Col(dataset.ColYear).Float()
	values := agg.Col(col + "_MEAN").Float()

	rows := make([]TrendRow, len(regions))
	for i := range regions {
		rows[i] = TrendRow{Region: regions[i], Year: int(years[i]), Value: values[i]}
	}
	return &Trend{Metric: metric, MaxYear: maxYear, Rows: rows}, nil
}

// Regions returns the distinct regions of the trend in row order.
func (t *Trend) Regions() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, row := range t.Rows {
		if _, ok := seen[row.Region]; ok {
			continue
		}
		seen[row.Region] = struct{}{}
		out = append(out, row.Region)
	}
	return out
}

// SeriesFor returns the trend rows of one region, years ascending.
func (t *Trend) SeriesFor(region string) []TrendRow {
	var out []TrendRow
	for _, row := range t.Rows {
		if row.Region == region {
			out = append(out, row)
		}
	}
	return out
}

// Page slices the trend rows into the requested page, clamping the index
// into range. An out-of-range page request returns the nearest valid page
// rather than an error.
func (t *Trend) Page(index, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(t.Rows)
	count := (total + size - 1) / size
	if count == 0 {
		return Page{Size: size}
	}
	if index < 0 {
		index = 0
	}
	if index >= count {
		index = count - 1
	}
	start := index * size
	end := start + size
	if end > total {
		end = total
	}
	return Page{
		Rows:      t.Rows[start:end],
		Index:     index,
		Count:     count,
		TotalRows: total,
		Size:      size,
	}
}
