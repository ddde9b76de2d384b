package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilnworks/carbondash/internal/cli/output"
	"github.com/kilnworks/carbondash/internal/dataset"
)

// NewFetchCommand creates the fetch command.
func NewFetchCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the dataset to a local file",
		Long: `Download the CO2 dataset CSV and save it locally.

The saved file is validated: fetch fails when the CSV lacks the required
columns, and a failed download never replaces an existing copy. Point serve
at the file with --data to skip the download on every start.`,
		Example: `  # Download to the default file name
  carbondash fetch

  # Download to a specific path
  carbondash fetch --out data/owid.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd, out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "owid-co2-data.csv", "File to write")

	return cmd
}

func runFetch(cmd *cobra.Command, out string) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	url := cc.Cfg.Dataset.URL
	if url == "" {
		url = dataset.DefaultURL
	}

	report, err := cc.NewLoader().FetchFile(cmd.Context(), url, out)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(struct {
			Path    string `json:"path"`
			URL     string `json:"url"`
			Rows    int    `json:"rows"`
			Columns int    `json:"columns"`
			Missing int    `json:"missing_cells"`
		}{out, url, report.Rows, report.Columns, report.TotalMissing()})
	}

	r.Success(fmt.Sprintf("Saved %s", out))
	r.Muted(fmt.Sprintf("%d rows, %d columns, %d missing cells", report.Rows, report.Columns, report.TotalMissing()))
	r.Println("")
	r.Printf("Serve it with: carbondash serve --data %s\n", out)

	return nil
}
