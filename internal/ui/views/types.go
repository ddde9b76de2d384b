package views

import (
	"html/template"

	"github.com/kilnworks/carbondash/internal/pipeline"
)

// PageData feeds the full dashboard page template.
type PageData struct {
	Title       string
	SidebarHTML template.HTML
	ImageURL    string
	Signals     template.JS

	Year     int
	YearMin  int
	YearMax  int
	YearStep int
	Metric   pipeline.Metric
	Metrics  []pipeline.Metric

	Stats  StatsData
	Charts ChartsData
	Table  TableData
}

// StatsData is the dataset summary shown in the sidebar. SourceLabel is the
// short display form of Source, which may be a long URL.
type StatsData struct {
	Rows        int
	Countries   int
	YearMin     int
	YearMax     int
	Source      string
	SourceLabel string
	LoadedAt    string
}

// ChartsData carries the pre-marshaled ECharts options, one per panel.
type ChartsData struct {
	Trend     template.JS
	Scatter   template.JS
	Breakdown template.JS
}

// TableData feeds the paginated trend table fragment. All pager numbers are
// precomputed so the template stays free of arithmetic.
type TableData struct {
	Metric    pipeline.Metric
	Rows      []pipeline.TrendRow
	Index     int
	Count     int
	TotalRows int
	HasPrev   bool
	HasNext   bool
	PrevIndex int
	NextIndex int
}

// NewTableData converts a trend page into the fragment's shape. An empty
// page still reads "Page 1 of 1".
func NewTableData(metric pipeline.Metric, page pipeline.Page) TableData {
	count := page.Count
	if count == 0 {
		count = 1
	}
	d := TableData{
		Metric:    metric,
		Rows:      page.Rows,
		Index:     page.Index,
		Count:     count,
		TotalRows: page.TotalRows,
		HasPrev:   page.Index > 0,
		HasNext:   page.Index < page.Count-1,
		PrevIndex: page.Index,
		NextIndex: page.Index,
	}
	if d.HasPrev {
		d.PrevIndex = page.Index - 1
	}
	if d.HasNext {
		d.NextIndex = page.Index + 1
	}
	return d
}
