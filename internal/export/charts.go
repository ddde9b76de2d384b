package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/kilnworks/carbondash/internal/pipeline"
	uicharts "github.com/kilnworks/carbondash/internal/ui/charts"
)

const (
	chartWidth  = 1280
	chartHeight = 720
)

// TrendPNG renders the trend view: one line per aggregate region.
func TrendPNG(path string, t *pipeline.Trend) error {
	regions := t.Regions()
	if len(regions) == 0 {
		return fmt.Errorf("no trend rows to plot through %d", t.MaxYear)
	}

	series := make([]chart.Series, 0, len(regions))
	for i, region := range regions {
		rows := t.SeriesFor(region)
		xs := make([]float64, len(rows))
		ys := make([]float64, len(rows))
		for j, row := range rows {
			xs[j] = float64(row.Year)
			ys[j] = row.Value
		}
		// go-chart needs at least two x values per series
		if len(xs) == 1 {
			xs = append(xs, xs[0]+1)
			ys = append(ys, ys[0])
		}
		series = append(series, chart.ContinuousSeries{
			Name:    region,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeWidth: 2, StrokeColor: paletteColor(uicharts.RegionPalette, i)},
		})
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s by aggregate region, through %d", t.Metric.Title(), t.MaxYear),
		Background: chart.Style{Padding: chart.Box{Top: 16, Left: 16, Right: 16, Bottom: 40}},
		Width:      chartWidth,
		Height:     chartHeight,
		XAxis:      chart.XAxis{Name: "Year"},
		YAxis:      chart.YAxis{Name: t.Metric.Label()},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return renderPNG(path, func(w io.Writer) error { return ch.Render(chart.PNG, w) })
}

// ScatterPNG renders the cross-section view: one dot per country sized by
// population, plus the least-squares fit when one exists.
func ScatterPNG(path string, cs *pipeline.CrossSection) error {
	if len(cs.Points) == 0 {
		return fmt.Errorf("no countries to plot for %d", cs.Year)
	}

	xs := make([]float64, len(cs.Points))
	ys := make([]float64, len(cs.Points))
	sizes := make([]float64, len(cs.Points))
	minX, maxX := cs.Points[0].GDPPerCapita, cs.Points[0].GDPPerCapita
	for i, p := range cs.Points {
		xs[i] = p.GDPPerCapita
		ys[i] = p.CO2
		sizes[i] = uicharts.SymbolSize(p.Population)
		if p.GDPPerCapita < minX {
			minX = p.GDPPerCapita
		}
		if p.GDPPerCapita > maxX {
			maxX = p.GDPPerCapita
		}
	}

	dotColor := paletteColor(uicharts.RegionPalette, 3)
	series := []chart.Series{chart.ContinuousSeries{
		Name:    "Countries",
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: 0,
			DotColor:    dotColor,
			DotWidth:    4,
			DotWidthProvider: func(_, _ chart.Range, index int, _, _ float64) float64 {
				return sizes[index] / 2
			},
		},
	}}

	title := fmt.Sprintf("CO2 vs GDP per capita, %d", cs.Year)
	if cs.Fit != nil && maxX > minX {
		series = append(series, chart.ContinuousSeries{
			Name:    "Least-squares fit",
			XValues: []float64{minX, maxX},
			YValues: []float64{cs.Fit.At(minX), cs.Fit.At(maxX)},
			Style: chart.Style{
				StrokeWidth:     2,
				StrokeColor:     paletteColor(uicharts.RegionPalette, 4),
				StrokeDashArray: []float64{6, 4},
			},
		})
		title = fmt.Sprintf("%s (r = %.2f)", title, cs.R)
	}

	ch := chart.Chart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 16, Left: 16, Right: 16, Bottom: 40}},
		Width:      chartWidth,
		Height:     chartHeight,
		XAxis:      chart.XAxis{Name: "GDP per capita (USD)"},
		YAxis:      chart.YAxis{Name: "CO2 (million tonnes)"},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return renderPNG(path, func(w io.Writer) error { return ch.Render(chart.PNG, w) })
}

// BreakdownPNG renders the source view: three bars per continent in a fixed
// coal, oil, gas order. go-chart has no grouped bar mode, so the groups are
// laid out by hand with the continent label under the middle bar.
func BreakdownPNG(path string, b *pipeline.Breakdown) error {
	if len(b.Regions) == 0 {
		return fmt.Errorf("no continents to plot for %d", b.Year)
	}

	bars := make([]chart.Value, 0, len(b.Regions)*len(b.Sources))
	for i, region := range b.Regions {
		for j, src := range b.Sources {
			label := ""
			if j == len(b.Sources)/2 {
				label = region
			}
			bars = append(bars, chart.Value{
				Label: label,
				Value: src.Values[i],
				Style: chart.Style{FillColor: paletteColor(uicharts.SourcePalette, j)},
			})
		}
	}

	ch := chart.BarChart{
		Title:      fmt.Sprintf("Emissions by source, %d (coal, oil, gas)", b.Year),
		Background: chart.Style{Padding: chart.Box{Top: 16, Left: 16, Right: 16, Bottom: 24}},
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   24,
		BarSpacing: 8,
		YAxis:      chart.YAxis{Name: "Million tonnes CO2"},
		Bars:       bars,
	}

	return renderPNG(path, func(w io.Writer) error { return ch.Render(chart.PNG, w) })
}

func paletteColor(palette []string, i int) drawing.Color {
	hex := strings.TrimPrefix(palette[i%len(palette)], "#")
	return drawing.ColorFromHex(hex)
}

func renderPNG(path string, render func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
