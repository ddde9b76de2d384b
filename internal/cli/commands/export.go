package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilnworks/carbondash/internal/cli/output"
	"github.com/kilnworks/carbondash/internal/export"
	"github.com/kilnworks/carbondash/internal/pipeline"
)

// ExportOptions holds options for the export command.
type ExportOptions struct {
	Dir     string
	Formats []string
	Year    int
	Metric  string
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dashboard views to files",
		Long: `Build the three dashboard views for one year and write them to files.

Formats:
  png   one chart image per view
  xlsx  a workbook with one sheet per view
  csv   one file per view with the plotted values

Without --format every format is written.`,
		Example: `  # Everything for the default year
  carbondash export --data owid-co2-data.csv

  # Per-capita charts for 1990 as images only
  carbondash export --data owid-co2-data.csv --year 1990 --metric co2_per_capita --format png`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "exports", "Directory to write into")
	cmd.Flags().StringSliceVar(&opts.Formats, "format", nil, "Formats to write (png|xlsx|csv)")
	cmd.Flags().IntVar(&opts.Year, "year", 0, "Year to export (default: the dashboard default)")
	cmd.Flags().StringVar(&opts.Metric, "metric", "", "Trend metric (co2|co2_per_capita)")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return export.Formats, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("metric", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"co2", "co2_per_capita"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	year := opts.Year
	if year == 0 {
		year = cc.Cfg.UI.DefaultYear
	}
	metricName := opts.Metric
	if metricName == "" {
		metricName = cc.Cfg.UI.DefaultMetric
	}
	metric, err := pipeline.ParseMetric(metricName)
	if err != nil {
		return err
	}

	t, _, err := cc.LoadDataset(cmd.Context())
	if err != nil {
		return err
	}

	paths, err := export.Run(pipeline.New(t), export.Request{
		Dir:     opts.Dir,
		Formats: opts.Formats,
		Year:    year,
		Metric:  metric,
	})
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(struct {
			Dir    string   `json:"dir"`
			Year   int      `json:"year"`
			Metric string   `json:"metric"`
			Files  []string `json:"files"`
		}{opts.Dir, year, string(metric), paths})
	}

	for _, p := range paths {
		r.StatusLine(p, "written", fileSize(p))
	}
	r.Println("")
	r.Success(fmt.Sprintf("Exported %d files for %d to %s", len(paths), year, opts.Dir))

	return nil
}

func fileSize(path string) string {
	fi, err := os.Stat(path)
	if err != nil {
		return ""
	}
	kb := float64(fi.Size()) / 1024
	if kb < 1 {
		return fmt.Sprintf("%d B", fi.Size())
	}
	return strings.TrimSuffix(fmt.Sprintf("%.1f", kb), ".0") + " KB"
}
