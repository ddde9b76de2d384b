package pipeline

import (
	"fmt"

	"github.com/kilnworks/carbondash/internal/dataset"
)

// Metric selects which emission quantity the trend views plot.
type Metric string

const (
	MetricCO2          Metric = "co2"
	MetricCO2PerCapita Metric = "co2_per_capita"
)

// Metrics returns the selectable metrics in display order.
func Metrics() []Metric {
	return []Metric{MetricCO2, MetricCO2PerCapita}
}

// ParseMetric validates a metric name coming from the UI or CLI.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricCO2, MetricCO2PerCapita:
		return Metric(s), nil
	}
	return "", fmt.Errorf("unknown metric %q (want co2 or co2_per_capita)", s)
}

// Column returns the observation table column backing the metric.
func (m Metric) Column() string {
	if m == MetricCO2PerCapita {
		return dataset.ColCO2PerCapita
	}
	return dataset.ColCO2
}

// Title returns a short display name.
func (m Metric) Title() string {
	if m == MetricCO2PerCapita {
		return "CO2 per capita"
	}
	return "CO2"
}

// Label returns the axis label including units.
func (m Metric) Label() string {
	if m == MetricCO2PerCapita {
		return "CO2 emissions per capita (tonnes)"
	}
	return "CO2 emissions (million tonnes)"
}

// Description returns the tooltip text shown next to the metric selector.
func (m Metric) Description() string {
	if m == MetricCO2PerCapita {
		return "Annual CO2 emissions divided by population"
	}
	return "Total annual CO2 emissions"
}
