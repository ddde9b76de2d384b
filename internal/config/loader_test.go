package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilnworks/carbondash/internal/dataset"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, dataset.DefaultURL, cfg.Dataset.URL)
	assert.Equal(t, 2*time.Minute, cfg.Dataset.Timeout)
	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.True(t, cfg.Server.OpenBrowser)
	assert.False(t, cfg.Server.Watch)
	assert.Equal(t, DefaultPageSize, cfg.UI.PageSize)
	assert.Equal(t, DefaultYear, cfg.UI.DefaultYear)
	assert.Equal(t, "co2", cfg.UI.DefaultMetric)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NotEmpty(t, cfg.UI.SidebarText)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
dataset:
  path: data/owid.csv
  timeout: 30s
server:
  port: 9100
  watch: true
ui:
  page_size: 25
  default_metric: co2_per_capita
log:
  level: debug
  format: json
`
	path := filepath.Join(dir, "carbondash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data/owid.csv"), cfg.Dataset.Path,
		"relative paths resolve against the config file directory")
	assert.Equal(t, 30*time.Second, cfg.Dataset.Timeout)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.True(t, cfg.Server.Watch)
	assert.Equal(t, 25, cfg.UI.PageSize)
	assert.Equal(t, "co2_per_capita", cfg.UI.DefaultMetric)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	// Untouched keys keep their defaults.
	assert.Equal(t, dataset.DefaultURL, cfg.Dataset.URL)
	assert.Equal(t, DefaultYear, cfg.UI.DefaultYear)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "carbondash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9100\n"), 0o644))

	t.Setenv("CARBONDASH_SERVER_PORT", "9200")
	t.Setenv("CARBONDASH_SERVER_SESSION_SECRET", "from-env")
	t.Setenv("CARBONDASH_UI_DEFAULT_METRIC", "co2_per_capita")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Server.SessionSecret,
		"multi-word keys keep their underscores past the section split")
	assert.Equal(t, "co2_per_capita", cfg.UI.DefaultMetric)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("CARBONDASH_DATASET_URL", "http://env.example/owid.csv")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("url", "", "")
	fs.String("log-level", "", "")
	require.NoError(t, fs.Parse([]string{"--url", "http://flag.example/owid.csv", "--log-level", "warn"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)

	assert.Equal(t, "http://flag.example/owid.csv", cfg.Dataset.URL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_UnsetFlagsDoNotOverride(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("url", "http://default.example/owid.csv", "")
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, dataset.DefaultURL, cfg.Dataset.URL,
		"flag defaults must not shadow config defaults")
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"no source", func(c *Config) { c.Dataset.URL = ""; c.Dataset.Path = "" }, "url or a path"},
		{"bad timeout", func(c *Config) { c.Dataset.Timeout = 0 }, "timeout"},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, "out of range"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "out of range"},
		{"page size", func(c *Config) { c.UI.PageSize = 0 }, "page_size"},
		{"year range", func(c *Config) { c.UI.YearMin = 2020; c.UI.YearMax = 1750 }, "year_min"},
		{"year step", func(c *Config) { c.UI.YearStep = 0 }, "year_step"},
		{"default year outside range", func(c *Config) { c.UI.DefaultYear = 1700 }, "default_year"},
		{"unknown metric", func(c *Config) { c.UI.DefaultMetric = "methane" }, "default_metric"},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"unknown output mode", func(c *Config) { c.Output = "csv" }, "output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_NewLogger(t *testing.T) {
	cfg := Defaults()
	require.NotNil(t, cfg.NewLogger(os.Stderr))

	cfg.Log.Format = "json"
	cfg.Log.Level = "debug"
	require.NotNil(t, cfg.NewLogger(os.Stderr))
}

func TestServerConfig_Addr(t *testing.T) {
	s := ServerConfig{Host: "0.0.0.0", Port: 9100}
	assert.Equal(t, "0.0.0.0:9100", s.Addr())
}
