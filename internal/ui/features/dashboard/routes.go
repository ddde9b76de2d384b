package dashboard

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/kilnworks/carbondash/internal/dataset"
	"github.com/kilnworks/carbondash/internal/metrics"
	"github.com/kilnworks/carbondash/internal/ui/notifier"
	"github.com/kilnworks/carbondash/internal/ui/views"
)

// SetupRoutes configures routes for the dashboard feature.
func SetupRoutes(
	router chi.Router,
	tables *dataset.Holder,
	renderer *views.Renderer,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	m *metrics.Metrics,
	opts Options,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(tables, renderer, sessionStore, notify, m, opts, logger)

	router.Get("/", handlers.DashboardPage)
	router.Get("/dashboard/refresh", handlers.Refresh)
	router.Get("/dashboard/table", handlers.Table)
	router.Get("/dashboard/updates", handlers.Updates)
	router.Get("/sidebar/image", handlers.SidebarImage)

	return nil
}
