package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kilnworks/carbondash/internal/config"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter carbondash.yaml",
		Long: `Write a carbondash.yaml with the default configuration spelled out.

The file documents the dataset source, server, and widget settings in one
place. CARBONDASH_ environment variables and CLI flags still override it.`,
		Example: `  # Initialize in the current directory
  carbondash init

  # Initialize in a new directory
  carbondash init my-dashboard

  # Overwrite an existing config
  carbondash init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

// starterConfig is the YAML written by init. Timeout is a string so the file
// reads "2m0s" rather than nanoseconds.
type starterConfig struct {
	Dataset struct {
		URL     string `yaml:"url"`
		Path    string `yaml:"path"`
		Timeout string `yaml:"timeout"`
	} `yaml:"dataset"`
	Server struct {
		Host        string `yaml:"host"`
		Port        int    `yaml:"port"`
		OpenBrowser bool   `yaml:"open_browser"`
		Watch       bool   `yaml:"watch"`
	} `yaml:"server"`
	UI struct {
		PageSize      int    `yaml:"page_size"`
		YearMin       int    `yaml:"year_min"`
		YearMax       int    `yaml:"year_max"`
		YearStep      int    `yaml:"year_step"`
		DefaultYear   int    `yaml:"default_year"`
		DefaultMetric string `yaml:"default_metric"`
	} `yaml:"ui"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Output string `yaml:"output"`
}

const starterHeader = `# carbondash configuration.
#
# Everything below matches the built-in defaults. CARBONDASH_ environment
# variables and CLI flags override values in this file.
`

func runInit(cmd *cobra.Command, dir string, force bool) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.FileName)
	}

	data, err := starterYAML()
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.StatusLine(configPath, "success", "")
	r.Println("")
	r.Success("carbondash initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Run 'carbondash fetch' to download the dataset")
	r.Println("  2. Run 'carbondash serve --data owid-co2-data.csv' to open the dashboard")
	r.Println("  3. Run 'carbondash summary' to inspect the columns")

	return nil
}

func starterYAML() ([]byte, error) {
	defaults := config.Defaults()

	var s starterConfig
	s.Dataset.URL = defaults.Dataset.URL
	s.Dataset.Path = defaults.Dataset.Path
	s.Dataset.Timeout = defaults.Dataset.Timeout.String()
	s.Server.Host = defaults.Server.Host
	s.Server.Port = defaults.Server.Port
	s.Server.OpenBrowser = defaults.Server.OpenBrowser
	s.Server.Watch = defaults.Server.Watch
	s.UI.PageSize = defaults.UI.PageSize
	s.UI.YearMin = defaults.UI.YearMin
	s.UI.YearMax = defaults.UI.YearMax
	s.UI.YearStep = defaults.UI.YearStep
	s.UI.DefaultYear = defaults.UI.DefaultYear
	s.UI.DefaultMetric = defaults.UI.DefaultMetric
	s.Log.Level = defaults.Log.Level
	s.Log.Format = defaults.Log.Format
	s.Output = defaults.Output

	body, err := yaml.Marshal(s)
	if err != nil {
		return nil, err
	}
	return append([]byte(starterHeader), body...), nil
}
