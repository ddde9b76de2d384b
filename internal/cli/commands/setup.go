package commands

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilnworks/carbondash/internal/cli/output"
	"github.com/kilnworks/carbondash/internal/config"
	"github.com/kilnworks/carbondash/internal/dataset"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext assembles the shared command dependencies. The root
// command has loaded the configuration by the time any RunE fires; a command
// run outside that path falls back to defaults plus environment overrides.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ParseMode(cfg.Output))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// NewLoader builds a dataset loader from the configuration. The download
// progress bar only makes sense on a terminal.
func (c *CommandContext) NewLoader() *dataset.Loader {
	return &dataset.Loader{
		Client:   &http.Client{Timeout: c.Cfg.Dataset.Timeout},
		Logger:   c.Logger,
		Progress: c.Renderer.IsTTY(),
	}
}

// LoadDataset loads the configured dataset and cleans it. The report carries
// the pre-clean missing counts.
func (c *CommandContext) LoadDataset(ctx context.Context) (*dataset.Table, *dataset.LoadReport, error) {
	raw, report, err := c.NewLoader().Load(ctx, c.Cfg.Dataset.URL, c.Cfg.Dataset.Path)
	if err != nil {
		return nil, nil, err
	}
	clean, err := dataset.Clean(raw)
	if err != nil {
		return nil, nil, err
	}
	return clean, report, nil
}

// getConfig returns the configuration loaded by the root command, or a
// default one when a command function is invoked directly.
func getConfig() *config.Config {
	if cfg := config.GetCurrent(); cfg != nil {
		return cfg
	}

	d := config.Defaults()
	if v := os.Getenv("CARBONDASH_OUTPUT"); v != "" {
		d.Output = v
	}
	if v := os.Getenv("CARBONDASH_DATASET_PATH"); v != "" {
		d.Dataset.Path = v
	}
	return &d
}
