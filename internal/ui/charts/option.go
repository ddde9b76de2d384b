// Package charts builds Apache ECharts option documents. The server renders
// each option to JSON inside the page; the browser hands it to echarts
// unchanged, so these structs mirror the option schema field for field.
package charts

import (
	"encoding/json"
	"html/template"
)

// Option is the top-level ECharts option.
type Option struct {
	Title   *Title   `json:"title,omitempty"`
	Tooltip *Tooltip `json:"tooltip,omitempty"`
	Legend  *Legend  `json:"legend,omitempty"`
	Grid    *Grid    `json:"grid,omitempty"`
	XAxis   *Axis    `json:"xAxis,omitempty"`
	YAxis   *Axis    `json:"yAxis,omitempty"`
	Series  []Series `json:"series"`
	Color   []string `json:"color,omitempty"`
}

type Title struct {
	Text    string `json:"text"`
	Subtext string `json:"subtext,omitempty"`
	Left    string `json:"left,omitempty"`
}

type Tooltip struct {
	Trigger     string       `json:"trigger,omitempty"`
	AxisPointer *AxisPointer `json:"axisPointer,omitempty"`
}

type AxisPointer struct {
	Type string `json:"type,omitempty"`
}

type Legend struct {
	Type   string   `json:"type,omitempty"`
	Data   []string `json:"data,omitempty"`
	Bottom any      `json:"bottom,omitempty"`
}

type Grid struct {
	Left         string `json:"left,omitempty"`
	Right        string `json:"right,omitempty"`
	Top          string `json:"top,omitempty"`
	Bottom       string `json:"bottom,omitempty"`
	ContainLabel bool   `json:"containLabel,omitempty"`
}

type Axis struct {
	Type         string   `json:"type,omitempty"`
	Name         string   `json:"name,omitempty"`
	NameLocation string   `json:"nameLocation,omitempty"`
	NameGap      int      `json:"nameGap,omitempty"`
	Data         []string `json:"data,omitempty"`
	Min          any      `json:"min,omitempty"`
	Max          any      `json:"max,omitempty"`
	Scale        bool     `json:"scale,omitempty"`
}

// Series covers the line, scatter, and bar shapes the dashboard uses. Data
// holds [][2]float64 pairs for lines, ScatterItem values for scatters, and
// []float64 for bars.
type Series struct {
	Name       string     `json:"name,omitempty"`
	Type       string     `json:"type"`
	Data       any        `json:"data"`
	Smooth     bool       `json:"smooth,omitempty"`
	ShowSymbol *bool      `json:"showSymbol,omitempty"`
	Silent     bool       `json:"silent,omitempty"`
	ItemStyle  *ItemStyle `json:"itemStyle,omitempty"`
	LineStyle  *LineStyle `json:"lineStyle,omitempty"`
}

type ItemStyle struct {
	Color   string  `json:"color,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

type LineStyle struct {
	Type  string `json:"type,omitempty"`
	Width int    `json:"width,omitempty"`
	Color string `json:"color,omitempty"`
}

// ScatterItem is one scatter datum. Value is [x, y, population]; SymbolSize
// is precomputed from population so the option stays plain JSON.
type ScatterItem struct {
	Name       string     `json:"name"`
	Value      [3]float64 `json:"value"`
	SymbolSize float64    `json:"symbolSize"`
}

// JSON marshals the option for embedding in an application/json script tag.
// json.Marshal escapes angle brackets, so the payload cannot break out of
// the surrounding tag.
func (o Option) JSON() (template.JS, error) {
	b, err := json.Marshal(o)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}
