// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/kilnworks/carbondash/internal/dataset"
	"github.com/kilnworks/carbondash/internal/metrics"
	"github.com/kilnworks/carbondash/internal/ui/notifier"
	"github.com/kilnworks/carbondash/internal/ui/views"
)

// SampleCSV is a small observation table covering two aggregate regions, a
// world row, and two countries across two years. Enough shape for every
// dashboard view to produce output.
const SampleCSV = `country,year,co2,co2_per_capita,coal_co2,oil_co2,gas_co2,population,gdp
World,1999,100,5,40,30,20,2000,40000
World,2000,110,5.2,42,32,22,2100,44000
Asia,1999,60,4,32,16,7,1000,20000
Asia,2000,66,4.2,34,18,8,1050,22000
Europe,1999,30,6,11,12,9,500,15000
Europe,2000,28,5.8,10,11,8,500,15500
France,1999,1,2,0.4,0.4,0.2,100,1000
France,2000,1.1,2.1,0.4,0.5,0.2,100,1100
Japan,2000,3,3,1,1.5,0.5,100,2000
`

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Tables       *dataset.Holder
	Renderer     *views.Renderer
	Notifier     *notifier.Notifier
	Metrics      *metrics.Metrics
	SessionStore *sessions.CookieStore
}

// SetupTestFixture builds a fixture around a cleaned copy of SampleCSV.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	table := LoadSampleTable(t, SampleCSV)

	renderer, err := views.New()
	require.NoError(t, err)

	return &TestFixture{
		Tables:       dataset.NewHolder(table),
		Renderer:     renderer,
		Notifier:     notifier.New(),
		Metrics:      metrics.New(),
		SessionStore: sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!")),
	}
}

// LoadSampleTable parses and cleans a CSV literal into a table.
func LoadSampleTable(t *testing.T, csv string) *dataset.Table {
	t.Helper()

	table, _, err := dataset.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	cleaned, err := dataset.Clean(table)
	require.NoError(t, err)
	return cleaned
}

// RequestWithTimeout wraps a request with a context deadline, for SSE
// handlers that run until the context ends.
func RequestWithTimeout(r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	_ = cancel // the deadline fires in tests; explicit cancel is not needed
	return r.WithContext(ctx)
}
