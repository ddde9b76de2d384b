package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilnworks/carbondash/internal/config"
	"github.com/kilnworks/carbondash/internal/dataset"
	"github.com/kilnworks/carbondash/internal/metrics"
	"github.com/kilnworks/carbondash/internal/pipeline"
	"github.com/kilnworks/carbondash/internal/ui"
	"github.com/kilnworks/carbondash/internal/ui/features/dashboard"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Host      string
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the CO2 dashboard server",
		Long: `Start a local web server with the interactive CO2 dashboard.

The dashboard provides:
- Emission trends per region over time
- Emissions against GDP per capita with a regression line
- Coal, oil, and gas emissions per continent
- A paginated table of the trend rows

Widgets update live over a server-sent event stream. With --watch a local
dataset file is reloaded and pushed to every open browser on change.`,
		Example: `  # Download the dataset and serve on the default port
  carbondash serve

  # Serve a local copy on a custom port
  carbondash serve --data owid-co2-data.csv --port 3000

  # Reload open dashboards whenever the file changes
  carbondash serve --data owid-co2-data.csv --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "", "Host to bind (default: 127.0.0.1)")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8780)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload when the dataset file changes")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cc := NewCommandContext(cmd)
	cfg := cc.Cfg

	// CLI flags override the config file
	host := cfg.Server.Host
	if opts.Host != "" {
		host = opts.Host
	}
	port := cfg.Server.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	autoOpen := cfg.Server.OpenBrowser
	if opts.NoBrowser {
		autoOpen = false
	}
	watch := cfg.Server.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	m := metrics.New()
	table, report, err := cc.LoadDataset(cmd.Context())
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	m.ObserveLoad(table.Rows(), report.Duration, report.Source)

	server := ui.NewServer(ui.Config{
		Tables:        dataset.NewHolder(table),
		Loader:        cc.NewLoader(),
		Host:          host,
		Port:          port,
		Watch:         watch,
		DatasetPath:   cfg.Dataset.Path,
		SessionSecret: sessionSecret(cfg.Server.SessionSecret),
		Dashboard:     dashboardOptions(cfg),
		Logger:        cc.Logger,
		Metrics:       m,
	})

	if autoOpen {
		go openBrowser(server.URL())
	}

	cc.Renderer.Printf("Serving the CO2 dashboard on %s\n", server.URL())
	cc.Renderer.Println("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	return server.Serve(ctx)
}

// dashboardOptions maps the ui config section onto the dashboard feature.
func dashboardOptions(cfg *config.Config) dashboard.Options {
	metric, err := pipeline.ParseMetric(cfg.UI.DefaultMetric)
	if err != nil {
		metric = pipeline.MetricCO2
	}
	return dashboard.Options{
		Title:            "Carbondash",
		SidebarText:      cfg.UI.SidebarText,
		SidebarImagePath: cfg.UI.SidebarImage,
		YearMin:          cfg.UI.YearMin,
		YearMax:          cfg.UI.YearMax,
		YearStep:         cfg.UI.YearStep,
		DefaultYear:      cfg.UI.DefaultYear,
		DefaultMetric:    metric,
		PageSize:         cfg.UI.PageSize,
	}
}

// sessionSecret resolves the cookie signing key. The config value wins, then
// the environment, then a fixed development key.
func sessionSecret(fromConfig string) string {
	if fromConfig != "" {
		return fromConfig
	}
	if secret := os.Getenv("CARBONDASH_SESSION_SECRET"); secret != "" {
		return secret
	}
	return "carbondash-dev-secret-change-in-production" //nolint:gosec
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
