// Package ui provides the web dashboard server.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/kilnworks/carbondash/internal/dataset"
	"github.com/kilnworks/carbondash/internal/metrics"
	"github.com/kilnworks/carbondash/internal/ui/features/dashboard"
	"github.com/kilnworks/carbondash/internal/ui/notifier"
	"github.com/kilnworks/carbondash/internal/ui/resources"
	"github.com/kilnworks/carbondash/internal/ui/router"
	"github.com/kilnworks/carbondash/internal/ui/views"
)

// Server is the main dashboard server.
type Server struct {
	tables       *dataset.Holder
	loader       *dataset.Loader
	sessionStore *sessions.CookieStore
	host         string
	port         int
	watch        bool
	datasetPath  string
	opts         dashboard.Options
	logger       *slog.Logger
	notifier     *notifier.Notifier
	metrics      *metrics.Metrics
}

// Config holds configuration for the dashboard server.
type Config struct {
	Tables        *dataset.Holder
	Loader        *dataset.Loader
	Host          string
	Port          int
	Watch         bool
	DatasetPath   string
	SessionSecret string
	Dashboard     dashboard.Options
	Logger        *slog.Logger
	Metrics       *metrics.Metrics
}

// NewServer creates a new dashboard server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	m := cfg.Metrics
	if m == nil {
		m = metrics.New()
	}

	return &Server{
		tables:       cfg.Tables,
		loader:       cfg.Loader,
		sessionStore: sessionStore,
		host:         cfg.Host,
		port:         cfg.Port,
		watch:        cfg.Watch,
		datasetPath:  cfg.DatasetPath,
		opts:         cfg.Dashboard,
		logger:       cfg.Logger,
		notifier:     notifier.New(),
		metrics:      m,
	}
}

// URL returns the address to open in a browser. Wildcard binds are reported
// as localhost.
func (s *Server) URL() string {
	host := s.host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, s.port)
}

// Serve starts the dashboard server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	s.logger.Info("starting dashboard server", "addr", s.URL())

	renderer, err := views.New()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
		s.metrics.Middleware,
	)

	if err := router.SetupRoutes(r, s.tables, renderer, s.sessionStore, s.notifier,
		s.metrics, s.opts, s.logger, s.IsDev()); err != nil {
		return fmt.Errorf("failed to setup routes: %w", err)
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start dataset watcher if enabled
	if s.watch {
		if s.datasetPath == "" {
			s.logger.Warn("watch mode needs a local dataset file, skipping watcher")
		} else {
			eg.Go(func() error {
				return s.watchDataset(egctx)
			})
		}
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down dashboard server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev returns true if the binary was built with the dev tag.
func (s *Server) IsDev() bool {
	return resources.Dev
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchDataset watches the dataset file and reloads it on change. Editors and
// re-downloads often replace the file wholesale, so the watch sits on the
// parent directory and filters events down to the one path.
func (s *Server) watchDataset(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(s.datasetPath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch dataset directory", "error", err)
		// Don't fail - continue without watching
		return nil
	}
	s.logger.Info("watching dataset file", "path", target)

	// Debounce timer
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != target {
				continue
			}

			// Debounce
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("dataset changed, reloading", "file", event.Name)
				s.reloadDataset()
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// reloadDataset re-reads the dataset file and swaps it in. A file that fails
// to parse leaves the previous table serving.
func (s *Server) reloadDataset() {
	table, report, err := s.loader.ReadFile(s.datasetPath)
	if err != nil {
		s.logger.Error("dataset reload failed", "error", err)
		return
	}
	clean, err := dataset.Clean(table)
	if err != nil {
		s.logger.Error("dataset clean failed", "error", err)
		return
	}

	s.tables.Replace(clean)
	s.metrics.ObserveLoad(clean.Rows(), report.Duration, report.Source)
	s.logger.Info("dataset reloaded", "rows", clean.Rows(), "duration", report.Duration)

	// Notify all SSE clients
	s.notifier.Broadcast()
}
