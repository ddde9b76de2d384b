package dataset

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// ColumnSummary holds descriptive statistics for one numeric column.
// Missing counts come from the load report and describe the raw data;
// the statistics describe the cleaned values.
type ColumnSummary struct {
	Name    string
	Missing int
	Min     float64
	Max     float64
	Mean    float64
	Median  float64
	StdDev  float64
}

// Summarize computes per-column statistics for every numeric column of a
// cleaned table. report may be nil, in which case missing counts are zero.
func Summarize(t *Table, report *LoadReport) ([]ColumnSummary, error) {
	var out []ColumnSummary
	for _, name := range t.Columns() {
		if name == ColCountry {
			continue
		}
		data := t.df.Col(name).Float()
		if len(data) == 0 {
			out = append(out, ColumnSummary{Name: name})
			continue
		}

		summary := ColumnSummary{Name: name}
		if report != nil {
			summary.Missing = report.Missing[name]
		}

		var err error
		if summary.Min, err = stats.Min(data); err != nil {
			return nil, fmt.Errorf("summarize %s: %w", name, err)
		}
		if summary.Max, err = stats.Max(data); err != nil {
			return nil, fmt.Errorf("summarize %s: %w", name, err)
		}
		if summary.Mean, err = stats.Mean(data); err != nil {
			return nil, fmt.Errorf("summarize %s: %w", name, err)
		}
		if summary.Median, err = stats.Median(data); err != nil {
			return nil, fmt.Errorf("summarize %s: %w", name, err)
		}
		if len(data) > 1 {
			if summary.StdDev, err = stats.StandardDeviation(data); err != nil {
				return nil, fmt.Errorf("summarize %s: %w", name, err)
			}
		}
		out = append(out, summary)
	}
	return out, nil
}
