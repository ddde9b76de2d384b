package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gopkg.in/cheggaaa/pb.v1"
)

// DefaultURL is the canonical location of the OWID CO2 dataset.
const DefaultURL = "https://raw.githubusercontent.com/owid/co2-data/master/owid-co2-data.csv"

// ErrMissingColumns indicates the source CSV lacks required columns.
var ErrMissingColumns = errors.New("dataset missing required columns")

// LoadReport describes a completed load, before cleaning.
type LoadReport struct {
	Source   string
	Rows     int
	Columns  int
	Missing  map[string]int
	Duration time.Duration
}

// TotalMissing returns the number of missing cells across all columns.
func (r *LoadReport) TotalMissing() int {
	total := 0
	for _, n := range r.Missing {
		total += n
	}
	return total
}

// Loader fetches and parses the observation table.
// The zero value uses http.DefaultClient and no progress output.
type Loader struct {
	Client   *http.Client
	Logger   *slog.Logger
	Progress bool
}

func (l *Loader) client() *http.Client {
	if l.Client != nil {
		return l.Client
	}
	return http.DefaultClient
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Fetch downloads the dataset from url and parses it.
// Any network, HTTP status, parse, or schema failure aborts the load.
func (l *Loader) Fetch(ctx context.Context, url string) (*Table, *LoadReport, error) {
	start := time.Now()
	l.logger().Info("fetching dataset", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch dataset: %w", err)
	}

	resp, err := l.client().Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch dataset %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, fmt.Errorf("fetch dataset %s: unexpected status %s", url, resp.Status)
	}

	var body io.Reader = resp.Body
	if l.Progress && resp.ContentLength > 0 {
		bar := pb.New64(resp.ContentLength).SetUnits(pb.U_BYTES)
		bar.Start()
		body = bar.NewProxyReader(resp.Body)
		defer bar.Finish()
	}

	table, report, err := Parse(body)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch dataset %s: %w", url, err)
	}

	table.source = url
	report.Source = url
	report.Duration = time.Since(start)
	l.logger().Info("dataset loaded",
		"rows", report.Rows,
		"missing_cells", report.TotalMissing(),
		"duration", report.Duration)
	return table, report, nil
}

// FetchFile downloads the dataset from url into path and validates the saved
// file. The write goes through a temp file in the same directory, so a failed
// download never clobbers an existing copy.
func (l *Loader) FetchFile(ctx context.Context, url, path string) (*LoadReport, error) {
	l.logger().Info("fetching dataset", "url", url, "path", path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}

	resp, err := l.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch dataset %s: unexpected status %s", url, resp.Status)
	}

	var body io.Reader = resp.Body
	if l.Progress && resp.ContentLength > 0 {
		bar := pb.New64(resp.ContentLength).SetUnits(pb.U_BYTES)
		bar.Start()
		body = bar.NewProxyReader(resp.Body)
		defer bar.Finish()
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("save dataset: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, ".owid-*.csv")
	if err != nil {
		return nil, fmt.Errorf("save dataset: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("save dataset %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("save dataset %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("save dataset %s: %w", path, err)
	}

	_, report, err := l.ReadFile(path)
	return report, err
}

// ReadFile parses the dataset from a local CSV file.
func (l *Loader) ReadFile(path string) (*Table, *LoadReport, error) {
	start := time.Now()
	l.logger().Info("reading dataset", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	table, report, err := Parse(f)
	if err != nil {
		return nil, nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	table.source = path
	report.Source = path
	report.Duration = time.Since(start)
	l.logger().Info("dataset loaded",
		"rows", report.Rows,
		"missing_cells", report.TotalMissing(),
		"duration", report.Duration)
	return table, report, nil
}

// Load fetches from url unless path is set, in which case the local file wins.
func (l *Loader) Load(ctx context.Context, url, path string) (*Table, *LoadReport, error) {
	if path != "" {
		return l.ReadFile(path)
	}
	if url == "" {
		url = DefaultURL
	}
	return l.Fetch(ctx, url)
}

// Parse reads a CSV stream into a Table, keeping only the required columns.
// Empty cells stay missing until Clean replaces them; the report counts them
// per column so the raw gaps remain visible after cleaning.
func Parse(r io.Reader) (*Table, *LoadReport, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
		dataframe.WithTypes(map[string]series.Type{
			ColCountry: series.String,
			ColYear:    series.Int,
		}),
		dataframe.NaNValues([]string{"", "NA", "NaN"}),
	)
	if df.Error() != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", df.Error())
	}

	have := make(map[string]struct{}, len(df.Names()))
	for _, name := range df.Names() {
		have[name] = struct{}{}
	}
	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := have[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	df = df.Select(RequiredColumns)
	if df.Error() != nil {
		return nil, nil, fmt.Errorf("select columns: %w", df.Error())
	}

	report := &LoadReport{
		Rows:    df.Nrow(),
		Columns: df.Ncol(),
		Missing: make(map[string]int, len(RequiredColumns)),
	}
	for _, name := range RequiredColumns {
		count := 0
		for _, isNA := range df.Col(name).IsNaN() {
			if isNA {
				count++
			}
		}
		report.Missing[name] = count
	}

	return &Table{df: df, loadedAt: time.Now()}, report, nil
}
