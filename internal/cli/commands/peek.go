package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gota/gota/series"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/kilnworks/carbondash/internal/cli/output"
	"github.com/kilnworks/carbondash/internal/dataset"
)

// NewPeekCommand creates the peek command.
func NewPeekCommand() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "peek",
		Short: "Show the first rows of the cleaned dataset",
		Long: `Load the dataset, clean it, and print the first rows.

Cleaning replaces missing numeric cells with zero and derives the
gdp_per_capita column, so peek shows exactly the table the dashboard and
the export command work from.`,
		Example: `  # First ten rows of the downloaded dataset
  carbondash peek

  # More rows from a local file, as JSON
  carbondash peek --data owid-co2-data.csv -n 25 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPeek(cmd, rows)
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", 10, "Number of rows to show")

	return cmd
}

func runPeek(cmd *cobra.Command, n int) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	t, _, err := cc.LoadDataset(cmd.Context())
	if err != nil {
		return err
	}

	cols, cells := peekRows(t, n)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(peekJSON(cols, cells))
	case output.ModeMarkdown:
		renderMarkdownTable(r, cols, cells)
	default:
		pt := table.NewWriter()
		pt.SetOutputMirror(r.Writer())
		pt.SetStyle(table.StyleLight)
		header := make(table.Row, len(cols))
		for i, c := range cols {
			header[i] = c
		}
		pt.AppendHeader(header)
		for _, cell := range cells {
			row := make(table.Row, len(cell))
			for i, v := range cell {
				row[i] = v
			}
			pt.AppendRow(row)
		}
		pt.Render()
		r.Printf("(%d of %d rows)\n", len(cells), t.Rows())
		r.Muted(fmt.Sprintf("source: %s", t.Source()))
	}

	return nil
}

// peekRows extracts the first n rows as formatted cells, column by column so
// floats print without gota's fixed six decimals.
func peekRows(t *dataset.Table, n int) ([]string, [][]string) {
	df := t.DataFrame()
	if n > df.Nrow() {
		n = df.Nrow()
	}
	if n < 0 {
		n = 0
	}

	cols := t.Columns()
	byCol := make([][]string, len(cols))
	for j, name := range cols {
		byCol[j] = formatColumn(df.Col(name), n)
	}

	cells := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(cols))
		for j := range cols {
			row[j] = byCol[j][i]
		}
		cells[i] = row
	}
	return cols, cells
}

func formatColumn(s series.Series, n int) []string {
	switch s.Type() {
	case series.String, series.Int:
		return s.Records()[:n]
	default:
		vals := s.Float()[:n]
		out := make([]string, n)
		for i, v := range vals {
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		return out
	}
}

func peekJSON(cols []string, cells [][]string) []map[string]any {
	out := make([]map[string]any, len(cells))
	for i, row := range cells {
		obj := make(map[string]any, len(cols))
		for j, col := range cols {
			if f, err := strconv.ParseFloat(row[j], 64); err == nil && col != dataset.ColCountry {
				obj[col] = f
			} else {
				obj[col] = row[j]
			}
		}
		out[i] = obj
	}
	return out
}

func renderMarkdownTable(r *output.Renderer, cols []string, cells [][]string) {
	r.Printf("| %s |\n", strings.Join(cols, " | "))
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	r.Printf("| %s |\n", strings.Join(seps, " | "))
	for _, row := range cells {
		r.Printf("| %s |\n", strings.Join(row, " | "))
	}
}
