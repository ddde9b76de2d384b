package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilnworks/carbondash/internal/pipeline"
	"github.com/kilnworks/carbondash/internal/testutil"
	"github.com/kilnworks/carbondash/internal/ui/features"
	"github.com/kilnworks/carbondash/internal/ui/features/dashboard"
)

func setupTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	r := chi.NewRouter()
	err := SetupRoutes(r, fixture.Tables, fixture.Renderer, fixture.SessionStore,
		fixture.Notifier, fixture.Metrics, dashboard.Options{
			Title:         "Carbondash",
			SidebarText:   "# Test",
			YearMin:       1750,
			YearMax:       2020,
			YearStep:      5,
			DefaultYear:   2000,
			DefaultMetric: pipeline.MetricCO2,
			PageSize:      10,
		}, testutil.NewTestLogger(t), false)
	require.NoError(t, err)
	return r
}

func get(t *testing.T, r *chi.Mux, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	r := setupTestRouter(t)

	rec := get(t, r, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Status string `json:"status"`
		Rows   int    `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 9, body.Rows)
}

func TestDashboardRoute(t *testing.T) {
	r := setupTestRouter(t)

	rec := get(t, r, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="dashboard-charts"`)
}

func TestMetricsRoute(t *testing.T) {
	r := setupTestRouter(t)

	rec := get(t, r, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "carbondash_dataset_rows")
}

func TestStaticAssets(t *testing.T) {
	r := setupTestRouter(t)

	rec := get(t, r, "/static/css/carbondash.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "max-age=31536000")
	assert.Contains(t, rec.Body.String(), ".layout")
}

func TestReloadRoutesOnlyInDev(t *testing.T) {
	r := setupTestRouter(t)

	assert.Equal(t, http.StatusNotFound, get(t, r, "/reload").Code)
	assert.Equal(t, http.StatusNotFound, get(t, r, "/hotreload").Code)
}
