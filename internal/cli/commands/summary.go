package commands

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/kilnworks/carbondash/internal/cli/output"
	"github.com/kilnworks/carbondash/internal/dataset"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show descriptive statistics for the dataset",
		Long: `Load the dataset and print per-column statistics.

Missing counts describe the raw CSV before cleaning; the min, max, mean,
median, and standard deviation describe the cleaned values the dashboard
plots.`,
		Example: `  # Statistics for the downloaded dataset
  carbondash summary

  # From a local file, as markdown for a report
  carbondash summary --data owid-co2-data.csv -o markdown`,
		RunE: runSummary,
	}

	return cmd
}

type summaryOutput struct {
	Source    string          `json:"source"`
	Rows      int             `json:"rows"`
	Countries int             `json:"countries"`
	YearMin   int             `json:"year_min"`
	YearMax   int             `json:"year_max"`
	Columns   []columnSummary `json:"columns"`
}

type columnSummary struct {
	Name    string  `json:"name"`
	Missing int     `json:"missing"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	StdDev  float64 `json:"std_dev"`
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	t, report, err := cc.LoadDataset(cmd.Context())
	if err != nil {
		return err
	}

	summaries, err := dataset.Summarize(t, report)
	if err != nil {
		return err
	}

	stats := t.Stats()
	out := summaryOutput{
		Source:    t.Source(),
		Rows:      stats.Rows,
		Countries: stats.Countries,
		YearMin:   stats.YearMin,
		YearMax:   stats.YearMax,
		Columns:   make([]columnSummary, len(summaries)),
	}
	for i, s := range summaries {
		out.Columns[i] = columnSummary(s)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Dataset summary"))
		r.Println("")
		r.Println(output.FormatKeyValue("source", out.Source))
		r.Println(output.FormatKeyValue("rows", strconv.Itoa(out.Rows)))
		r.Println(output.FormatKeyValue("countries", strconv.Itoa(out.Countries)))
		r.Println(output.FormatKeyValue("years", fmt.Sprintf("%d to %d", out.YearMin, out.YearMax)))
		r.Println("")
		cols, cells := summaryCells(out.Columns)
		renderMarkdownTable(r, cols, cells)
	default:
		r.Header(1, "Dataset summary")
		r.Muted(fmt.Sprintf("source: %s", out.Source))
		r.Printf("%d rows, %d countries, years %d to %d\n\n",
			out.Rows, out.Countries, out.YearMin, out.YearMax)

		cols, cells := summaryCells(out.Columns)
		st := table.NewWriter()
		st.SetOutputMirror(r.Writer())
		st.SetStyle(table.StyleLight)
		header := make(table.Row, len(cols))
		for i, c := range cols {
			header[i] = c
		}
		st.AppendHeader(header)
		for _, cell := range cells {
			row := make(table.Row, len(cell))
			for i, v := range cell {
				row[i] = v
			}
			st.AppendRow(row)
		}
		st.Render()
	}

	return nil
}

func summaryCells(cols []columnSummary) ([]string, [][]string) {
	header := []string{"column", "missing", "min", "max", "mean", "median", "std_dev"}
	cells := make([][]string, len(cols))
	for i, c := range cols {
		cells[i] = []string{
			c.Name,
			strconv.Itoa(c.Missing),
			formatStat(c.Min),
			formatStat(c.Max),
			formatStat(c.Mean),
			formatStat(c.Median),
			formatStat(c.StdDev),
		}
	}
	return header, cells
}

// formatStat keeps large values readable without drowning small per-capita
// numbers in zeros.
func formatStat(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}
