// Package dashboard provides the emissions dashboard feature: the page
// itself, the widget-driven refresh endpoints, and the reload push stream.
package dashboard

import (
	"github.com/kilnworks/carbondash/internal/pipeline"
)

// Signals mirrors the browser-side widget state. Datastar sends it with
// every request and receives patched values back.
type Signals struct {
	Year   int    `json:"year"`
	Metric string `json:"metric"`
	Page   int    `json:"page"`
}

// Options carries the widget bounds and presentation settings from the
// config into the feature.
type Options struct {
	Title            string
	SidebarText      string
	SidebarImagePath string

	YearMin     int
	YearMax     int
	YearStep    int
	DefaultYear int

	DefaultMetric pipeline.Metric
	PageSize      int
}
