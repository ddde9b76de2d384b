// Package export writes the dashboard views to files: chart images as PNG,
// an XLSX workbook with one sheet per view, and one CSV per view. Exports
// read the table the same way the dashboard does and never touch the serving
// path.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kilnworks/carbondash/internal/pipeline"
)

// Formats lists the supported export formats.
var Formats = []string{"png", "xlsx", "csv"}

// Request selects what to export and where.
type Request struct {
	Dir     string
	Formats []string
	Year    int
	Metric  pipeline.Metric
}

// Run builds the three views once and writes them in every requested format.
// An empty format list means all of them. It returns the paths written.
func Run(b *pipeline.Builder, req Request) ([]string, error) {
	if len(req.Formats) == 0 {
		req.Formats = Formats
	}

	trend, err := b.EmissionsTrend(req.Metric, req.Year)
	if err != nil {
		return nil, fmt.Errorf("build trend: %w", err)
	}
	cross, err := b.CrossSection(req.Year)
	if err != nil {
		return nil, fmt.Errorf("build cross-section: %w", err)
	}
	breakdown, err := b.SourceBreakdown(req.Year)
	if err != nil {
		return nil, fmt.Errorf("build source breakdown: %w", err)
	}

	if err := os.MkdirAll(req.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	trendName := fmt.Sprintf("trend_%s_%d", req.Metric, req.Year)
	scatterName := fmt.Sprintf("scatter_%d", req.Year)
	breakdownName := fmt.Sprintf("breakdown_%d", req.Year)

	var written []string
	for _, format := range req.Formats {
		switch strings.ToLower(format) {
		case "png":
			images := []struct {
				name   string
				render func(path string) error
			}{
				{trendName, func(p string) error { return TrendPNG(p, trend) }},
				{scatterName, func(p string) error { return ScatterPNG(p, cross) }},
				{breakdownName, func(p string) error { return BreakdownPNG(p, breakdown) }},
			}
			for _, img := range images {
				path := filepath.Join(req.Dir, img.name+".png")
				if err := img.render(path); err != nil {
					return written, err
				}
				written = append(written, path)
			}

		case "xlsx":
			path := filepath.Join(req.Dir, fmt.Sprintf("carbondash_%d.xlsx", req.Year))
			if err := Workbook(path, trend, cross, breakdown); err != nil {
				return written, err
			}
			written = append(written, path)

		case "csv":
			tables := []struct {
				name  string
				table viewTable
			}{
				{trendName, trendTable(trend)},
				{scatterName, scatterTable(cross)},
				{breakdownName, breakdownTable(breakdown)},
			}
			for _, tbl := range tables {
				path := filepath.Join(req.Dir, tbl.name+".csv")
				if err := writeCSV(path, tbl.table); err != nil {
					return written, err
				}
				written = append(written, path)
			}

		default:
			return written, fmt.Errorf("unknown export format %q", format)
		}
	}
	return written, nil
}

// viewTable is the tabular form shared by the CSV and XLSX writers.
type viewTable struct {
	header []string
	rows   [][]any
}

func trendTable(t *pipeline.Trend) viewTable {
	out := viewTable{header: []string{"region", "year", string(t.Metric)}}
	for _, row := range t.Rows {
		out.rows = append(out.rows, []any{row.Region, row.Year, row.Value})
	}
	return out
}

func scatterTable(cs *pipeline.CrossSection) viewTable {
	out := viewTable{header: []string{"country", "gdp_per_capita", "co2", "population"}}
	for _, p := range cs.Points {
		out.rows = append(out.rows, []any{p.Country, p.GDPPerCapita, p.CO2, p.Population})
	}
	return out
}

func breakdownTable(b *pipeline.Breakdown) viewTable {
	out := viewTable{header: []string{"region"}}
	for _, src := range b.Sources {
		out.header = append(out.header, strings.ToLower(src.Name)+"_co2")
	}
	for i, region := range b.Regions {
		row := []any{region}
		for _, src := range b.Sources {
			row = append(row, src.Values[i])
		}
		out.rows = append(out.rows, row)
	}
	return out
}

func formatCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
