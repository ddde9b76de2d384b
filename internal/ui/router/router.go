// Package router sets up HTTP routes for the dashboard server.
package router

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/kilnworks/carbondash/internal/dataset"
	"github.com/kilnworks/carbondash/internal/metrics"
	"github.com/kilnworks/carbondash/internal/ui/features/dashboard"
	"github.com/kilnworks/carbondash/internal/ui/notifier"
	"github.com/kilnworks/carbondash/internal/ui/resources"
	"github.com/kilnworks/carbondash/internal/ui/views"
)

// SetupRoutes configures all routes for the dashboard server.
func SetupRoutes(
	router chi.Router,
	tables *dataset.Holder,
	renderer *views.Renderer,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	m *metrics.Metrics,
	opts dashboard.Options,
	logger *slog.Logger,
	isDev bool,
) error {
	// Hot reload endpoint for dev mode
	if isDev {
		setupReload(router)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Operational endpoints
	router.Get("/healthz", healthz(tables))
	router.Handle("/metrics", m.Handler())

	return dashboard.SetupRoutes(router, tables, renderer, sessionStore, notify, m, opts, logger)
}

func healthz(tables *dataset.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		stats := tables.Table().Stats()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"rows":   stats.Rows,
		})
	}
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
