package dashboard

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilnworks/carbondash/internal/pipeline"
	"github.com/kilnworks/carbondash/internal/testutil"
	"github.com/kilnworks/carbondash/internal/ui/features"
)

func testOptions() Options {
	return Options{
		Title:         "Carbondash",
		SidebarText:   "# CO2 emissions\n\nA small tour of the dataset.",
		YearMin:       1750,
		YearMax:       2020,
		YearStep:      5,
		DefaultYear:   2000,
		DefaultMetric: pipeline.MetricCO2,
		PageSize:      2,
	}
}

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	handlers := NewHandlers(
		fixture.Tables,
		fixture.Renderer,
		fixture.SessionStore,
		fixture.Notifier,
		fixture.Metrics,
		testOptions(),
		testutil.NewTestLogger(t),
	)
	return handlers, fixture
}

// signalsRequest builds a GET carrying datastar signals the way the browser
// sends them on @get.
func signalsRequest(target, signals string) *http.Request {
	return httptest.NewRequest(http.MethodGet,
		target+"?datastar="+url.QueryEscape(signals), nil)
}

func TestDashboardPage(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.DashboardPage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "<title>Carbondash</title>")
	assert.Contains(t, body, `data-init="@get('/dashboard/updates')"`)
	assert.Contains(t, body, `id="dashboard-charts"`)
	assert.Contains(t, body, `id="dashboard-table"`)
	assert.Contains(t, body, `id="dataset-meta"`)
	assert.Contains(t, body, "data-bind-year")
	assert.Contains(t, body, `value="co2_per_capita"`)
	assert.Contains(t, body, `value="2000"`, "slider starts on the default year")
	assert.Contains(t, body, "Asia", "trend chart option includes aggregate regions")
}

func TestDashboardPage_SliderBoundsFollowData(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.DashboardPage(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `min="1999"`, "slider floor narrows to the loaded years")
	assert.Contains(t, body, `max="2000"`, "slider ceiling narrows to the loaded years")
}

func TestDashboardPage_RestoresSessionState(t *testing.T) {
	h, _ := setupTestHandlers(t)

	// A refresh stores the widget selection in the session cookie.
	refreshRec := httptest.NewRecorder()
	h.Refresh(refreshRec, signalsRequest("/dashboard/refresh",
		`{"year":1900,"metric":"co2_per_capita","page":0}`))
	cookies := refreshRec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()

	h.DashboardPage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="1900"`, "slider restores the saved year")
	assert.Contains(t, body, `value="co2_per_capita" checked`, "radio restores the saved metric")
}

func TestRefresh_PatchesChartsAndTable(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.Refresh(rec, signalsRequest("/dashboard/refresh",
		`{"year":2000,"metric":"co2","page":0}`))

	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 3,
		"signals, charts, table, and the re-init script each need an event")
	assert.Contains(t, body, `id="dashboard-charts"`)
	assert.Contains(t, body, `id="dashboard-table"`)
	assert.Contains(t, body, "carbondash.renderCharts()")
	assert.Contains(t, body, "Europe", "chart options are built from the table")
}

func TestRefresh_ClampsYearAndMetric(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.Refresh(rec, signalsRequest("/dashboard/refresh",
		`{"year":9999,"metric":"bogus","page":0}`))

	body := rec.Body.String()
	assert.Contains(t, body, `"year":2020`, "year clamps to the configured maximum")
	assert.Contains(t, body, `"metric":"co2"`, "unknown metric falls back to the default")
}

func TestRefresh_ResetsPageOnWidgetChange(t *testing.T) {
	h, _ := setupTestHandlers(t)

	// Establish year 2000 with the table on page 1.
	first := httptest.NewRecorder()
	h.Table(first, signalsRequest("/dashboard/table",
		`{"year":2000,"metric":"co2","page":1}`))
	cookies := first.Result().Cookies()
	require.NotEmpty(t, cookies)

	// Changing the year must send the table back to page 0.
	req := signalsRequest("/dashboard/refresh", `{"year":1999,"metric":"co2","page":1}`)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.Refresh(rec, req)

	assert.Contains(t, rec.Body.String(), `"page":0`)
}

func TestTable_ClampsPageIndex(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.Table(rec, signalsRequest("/dashboard/table",
		`{"year":2000,"metric":"co2","page":99}`))

	body := rec.Body.String()
	assert.Contains(t, body, `id="dashboard-table"`)
	// Three regions over two years make six trend rows; with two rows per
	// page the last page index is 2.
	assert.Contains(t, body, `"page":2`, "page index clamps to the last page")
}

func TestUpdates_PushesOnBroadcast(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := features.RequestWithTimeout(
		httptest.NewRequest(http.MethodGet, "/dashboard/updates", nil),
		300*time.Millisecond,
	)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.Updates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	fixture.Notifier.Broadcast()
	<-done

	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1)
	assert.Contains(t, body, `id="dataset-meta"`, "reload pushes a fresh dataset summary")
	assert.Contains(t, body, "dispatchEvent", "reload nudges the client into a refresh")
}

func TestUpdates_SendsNothingWithoutBroadcast(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := features.RequestWithTimeout(
		httptest.NewRequest(http.MethodGet, "/dashboard/updates", nil),
		50*time.Millisecond,
	)
	rec := httptest.NewRecorder()

	h.Updates(rec, req)

	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"))
}

func TestSidebarImage_FallsBackToBundledAsset(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.SidebarImage(rec, httptest.NewRequest(http.MethodGet, "/sidebar/image", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/static/img/globe.svg", rec.Header().Get("Location"))
}

func TestSidebarImage_ServesConfiguredFile(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	path := filepath.Join(t.TempDir(), "custom.svg")
	require.NoError(t, os.WriteFile(path, []byte("<svg></svg>"), 0o600))

	opts := testOptions()
	opts.SidebarImagePath = path
	h = NewHandlers(fixture.Tables, fixture.Renderer, fixture.SessionStore,
		fixture.Notifier, fixture.Metrics, opts, testutil.NewTestLogger(t))

	rec := httptest.NewRecorder()
	h.SidebarImage(rec, httptest.NewRequest(http.MethodGet, "/sidebar/image", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<svg></svg>", rec.Body.String())
}
