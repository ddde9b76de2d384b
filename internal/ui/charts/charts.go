package charts

import (
	"fmt"
	"math"

	"github.com/kilnworks/carbondash/internal/pipeline"
)

// RegionPalette borrows the Our World in Data categorical colors so the
// charts read like the source material. The PNG export reuses it.
var RegionPalette = []string{
	"#6D3E91", "#00847E", "#58AC8C", "#286BBB",
	"#883039", "#BC8E5A", "#C15065", "#00295B",
}

// SourcePalette maps coal, oil, gas in that order.
var SourcePalette = []string{"#5B5B5B", "#BC8E5A", "#286BBB"}

// Line builds the trend chart: one line per aggregate region, years on a
// numeric x axis so gaps in early records do not distort the spacing.
func Line(t *pipeline.Trend) Option {
	regions := t.Regions()
	hide := false

	out := make([]Series, 0, len(regions))
	for _, region := range regions {
		rows := t.SeriesFor(region)
		data := make([][2]float64, len(rows))
		for i, row := range rows {
			data[i] = [2]float64{float64(row.Year), row.Value}
		}
		out = append(out, Series{
			Name:       region,
			Type:       "line",
			Data:       data,
			ShowSymbol: &hide,
		})
	}

	return Option{
		Title: &Title{
			Text:    fmt.Sprintf("%s by aggregate region", t.Metric.Title()),
			Subtext: fmt.Sprintf("Mean per region and year, through %d", t.MaxYear),
		},
		Tooltip: &Tooltip{Trigger: "axis"},
		Legend:  &Legend{Type: "scroll", Data: regions, Bottom: 0},
		Grid:    &Grid{Left: "3%", Right: "4%", Top: "18%", Bottom: "14%", ContainLabel: true},
		XAxis:   &Axis{Type: "value", Name: "Year", NameLocation: "middle", NameGap: 28, Min: "dataMin", Max: "dataMax"},
		YAxis:   &Axis{Type: "value", Name: t.Metric.Label()},
		Series:  out,
		Color:   RegionPalette,
	}
}

// Scatter builds the cross-section chart. Each point is one country sized
// by population; when a least-squares fit exists it is drawn as a dashed
// line across the observed GDP range, with the correlation in the subtitle.
func Scatter(cs *pipeline.CrossSection) Option {
	items := make([]ScatterItem, len(cs.Points))
	minX, maxX := math.Inf(1), math.Inf(-1)
	for i, p := range cs.Points {
		items[i] = ScatterItem{
			Name:       p.Country,
			Value:      [3]float64{p.GDPPerCapita, p.CO2, p.Population},
			SymbolSize: SymbolSize(p.Population),
		}
		if p.GDPPerCapita < minX {
			minX = p.GDPPerCapita
		}
		if p.GDPPerCapita > maxX {
			maxX = p.GDPPerCapita
		}
	}

	out := []Series{{
		Name:      "Countries",
		Type:      "scatter",
		Data:      items,
		ItemStyle: &ItemStyle{Color: "#286BBB", Opacity: 0.65},
	}}

	subtext := ""
	if cs.Fit != nil && maxX > minX {
		hide := false
		out = append(out, Series{
			Name:       "Least-squares fit",
			Type:       "line",
			Data:       [][2]float64{{minX, cs.Fit.At(minX)}, {maxX, cs.Fit.At(maxX)}},
			ShowSymbol: &hide,
			Silent:     true,
			LineStyle:  &LineStyle{Type: "dashed", Width: 2, Color: "#883039"},
		})
		subtext = fmt.Sprintf("r = %.2f", cs.R)
	}

	return Option{
		Title: &Title{
			Text:    fmt.Sprintf("CO2 vs GDP per capita, %d", cs.Year),
			Subtext: subtext,
		},
		Tooltip: &Tooltip{Trigger: "item"},
		Grid:    &Grid{Left: "3%", Right: "4%", Top: "16%", Bottom: "8%", ContainLabel: true},
		XAxis:   &Axis{Type: "value", Name: "GDP per capita (USD)", NameLocation: "middle", NameGap: 28, Scale: true},
		YAxis:   &Axis{Type: "value", Name: "CO2 (million tonnes)", Scale: true},
		Series:  out,
	}
}

// Bar builds the source breakdown chart: grouped bars per continent for
// coal, oil, and gas.
func Bar(b *pipeline.Breakdown) Option {
	out := make([]Series, len(b.Sources))
	names := make([]string, len(b.Sources))
	for i, src := range b.Sources {
		out[i] = Series{Name: src.Name, Type: "bar", Data: src.Values}
		names[i] = src.Name
	}

	return Option{
		Title: &Title{
			Text:    fmt.Sprintf("Emissions by source, %d", b.Year),
			Subtext: "Continent means",
		},
		Tooltip: &Tooltip{Trigger: "axis", AxisPointer: &AxisPointer{Type: "shadow"}},
		Legend:  &Legend{Data: names, Bottom: 0},
		Grid:    &Grid{Left: "3%", Right: "4%", Top: "16%", Bottom: "14%", ContainLabel: true},
		XAxis:   &Axis{Type: "category", Data: b.Regions},
		YAxis:   &Axis{Type: "value", Name: "Million tonnes CO2"},
		Series:  out,
		Color:   SourcePalette,
	}
}

// SymbolSize scales a population count into a readable marker radius.
func SymbolSize(population float64) float64 {
	if population <= 0 {
		return 4
	}
	s := 4 + math.Sqrt(population)/1000
	if s > 40 {
		s = 40
	}
	return s
}
