// Package config provides configuration management for carbondash.
//
// Configuration is layered, highest priority first: command-line flags,
// CARBONDASH_ environment variables, a carbondash.yaml file, and built-in
// defaults.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/kilnworks/carbondash/internal/dataset"
)

// Default values for everything the file, env, and flags leave unset.
const (
	DefaultHost     = "127.0.0.1"
	DefaultPort     = 8780
	DefaultPageSize = 10

	DefaultYearMin  = 1750
	DefaultYearMax  = 2020
	DefaultYearStep = 5
	DefaultYear     = 1850
	DefaultMetric   = "co2"

	DefaultTimeout = 2 * time.Minute

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultOutput = "auto"
)

// DefaultSidebarText is the markdown shown in the dashboard sidebar when the
// config does not override it.
const DefaultSidebarText = `#### Carbon dioxide emissions are the primary driver of global climate change.

It's widely recognised that to avoid the worst impacts of climate change, the
world needs to urgently reduce emissions. But how this responsibility is shared
between regions, countries, and individuals has been an endless point of
contention in international discussions.

Source: [Our World in Data CO2 dataset](https://github.com/owid/co2-data)
`

// Config holds all carbondash configuration.
type Config struct {
	Dataset DatasetConfig `koanf:"dataset"`
	Server  ServerConfig  `koanf:"server"`
	UI      UIConfig      `koanf:"ui"`
	Log     LogConfig     `koanf:"log"`

	// Output selects how commands render to the terminal: auto, text,
	// markdown, or json.
	Output string `koanf:"output"`
}

// DatasetConfig selects the data source. Path, when set, wins over URL.
type DatasetConfig struct {
	URL     string        `koanf:"url"`
	Path    string        `koanf:"path"`
	Timeout time.Duration `koanf:"timeout"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Host          string `koanf:"host"`
	Port          int    `koanf:"port"`
	OpenBrowser   bool   `koanf:"open_browser"`
	Watch         bool   `koanf:"watch"`
	SessionSecret string `koanf:"session_secret"`
}

// Addr returns the host:port the server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UIConfig configures widgets and sidebar content.
type UIConfig struct {
	PageSize      int    `koanf:"page_size"`
	YearMin       int    `koanf:"year_min"`
	YearMax       int    `koanf:"year_max"`
	YearStep      int    `koanf:"year_step"`
	DefaultYear   int    `koanf:"default_year"`
	DefaultMetric string `koanf:"default_metric"`
	SidebarText   string `koanf:"sidebar_text"`
	SidebarImage  string `koanf:"sidebar_image"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Dataset: DatasetConfig{
			URL:     dataset.DefaultURL,
			Timeout: DefaultTimeout,
		},
		Server: ServerConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			OpenBrowser: true,
		},
		UI: UIConfig{
			PageSize:      DefaultPageSize,
			YearMin:       DefaultYearMin,
			YearMax:       DefaultYearMax,
			YearStep:      DefaultYearStep,
			DefaultYear:   DefaultYear,
			DefaultMetric: DefaultMetric,
			SidebarText:   DefaultSidebarText,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Output: DefaultOutput,
	}
}

// Validate checks the configuration for values no component can work with.
func (c *Config) Validate() error {
	if c.Dataset.URL == "" && c.Dataset.Path == "" {
		return fmt.Errorf("config: dataset needs a url or a path")
	}
	if c.Dataset.Timeout <= 0 {
		return fmt.Errorf("config: dataset.timeout must be positive, got %s", c.Dataset.Timeout)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if c.UI.PageSize < 1 {
		return fmt.Errorf("config: ui.page_size must be at least 1, got %d", c.UI.PageSize)
	}
	if c.UI.YearMin >= c.UI.YearMax {
		return fmt.Errorf("config: ui.year_min %d must be below ui.year_max %d", c.UI.YearMin, c.UI.YearMax)
	}
	if c.UI.YearStep < 1 {
		return fmt.Errorf("config: ui.year_step must be at least 1, got %d", c.UI.YearStep)
	}
	if c.UI.DefaultYear < c.UI.YearMin || c.UI.DefaultYear > c.UI.YearMax {
		return fmt.Errorf("config: ui.default_year %d outside [%d, %d]",
			c.UI.DefaultYear, c.UI.YearMin, c.UI.YearMax)
	}
	switch c.UI.DefaultMetric {
	case "co2", "co2_per_capita":
	default:
		return fmt.Errorf("config: ui.default_metric %q unknown (want co2 or co2_per_capita)", c.UI.DefaultMetric)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format %q unknown (want text or json)", c.Log.Format)
	}
	switch strings.ToLower(c.Output) {
	case "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("config: output %q unknown (want auto, text, markdown, or json)", c.Output)
	}
	return nil
}

// NewLogger builds the process logger described by the log section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(c.Log.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level %q unknown (want debug, info, warn, or error)", s)
}
