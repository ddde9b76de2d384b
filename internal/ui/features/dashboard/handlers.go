package dashboard

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/kilnworks/carbondash/internal/dataset"
	"github.com/kilnworks/carbondash/internal/metrics"
	"github.com/kilnworks/carbondash/internal/pipeline"
	"github.com/kilnworks/carbondash/internal/ui/charts"
	"github.com/kilnworks/carbondash/internal/ui/notifier"
	"github.com/kilnworks/carbondash/internal/ui/resources"
	"github.com/kilnworks/carbondash/internal/ui/views"
)

// Handlers provides HTTP handlers for the dashboard feature.
type Handlers struct {
	tables       *dataset.Holder
	renderer     *views.Renderer
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	metrics      *metrics.Metrics
	opts         Options
	logger       *slog.Logger

	// sidebarHTML is rendered once; the sidebar text only changes with the
	// config file.
	sidebarHTML template.HTML
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	tables *dataset.Holder,
	renderer *views.Renderer,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	m *metrics.Metrics,
	opts Options,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		tables:       tables,
		renderer:     renderer,
		sessionStore: sessionStore,
		notifier:     notify,
		metrics:      m,
		opts:         opts,
		logger:       logger,
		sidebarHTML:  views.Markdown(opts.SidebarText),
	}
}

// DashboardPage renders the full page with the session's widget state.
func (h *Handlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	st := h.loadState(r)

	data, err := h.buildPageData(st)
	if err != nil {
		h.logger.Error("build dashboard", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Dashboard(w, data); err != nil {
		h.logger.Error("render dashboard", "error", err)
	}
}

// Refresh recomputes all three charts and the table after a widget change.
// A year or metric change resets the table to its first page.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	// Read signals before creating the SSE stream; it consumes the request.
	var incoming Signals
	if err := datastar.ReadSignals(r, &incoming); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("read signals: %w", err))
		return
	}

	prev := h.loadState(r)
	st := h.clamp(incoming)
	if st.Year != prev.Year || st.Metric != prev.Metric {
		st.Page = 0
	}
	h.saveState(w, r, st)

	sse := datastar.NewSSE(w, r)

	trend, cross, breakdown, err := h.buildViews(st)
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	chartsHTML, err := h.renderCharts(trend, cross, breakdown)
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	tableHTML, err := h.renderer.Table(views.NewTableData(
		pipeline.Metric(st.Metric),
		trend.Page(st.Page, h.opts.PageSize),
	))
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	// Patch the canonical state back so the browser agrees with the server
	// about clamped values and the page reset.
	_ = sse.MarshalAndPatchSignals(st)
	if err := sse.PatchElements(chartsHTML); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElements(tableHTML); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	_ = sse.ExecuteScript("carbondash.renderCharts()")
}

// Table serves one page of the trend table. The page index is clamped into
// range and the corrected value patched back.
func (h *Handlers) Table(w http.ResponseWriter, r *http.Request) {
	var incoming Signals
	if err := datastar.ReadSignals(r, &incoming); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("read signals: %w", err))
		return
	}

	st := h.clamp(incoming)

	builder := pipeline.New(h.tables.Table())
	trend, err := builder.EmissionsTrend(pipeline.Metric(st.Metric), st.Year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.metrics.ViewRecomputes.WithLabelValues("trend").Inc()

	page := trend.Page(st.Page, h.opts.PageSize)
	st.Page = page.Index
	h.saveState(w, r, st)

	sse := datastar.NewSSE(w, r)

	tableHTML, err := h.renderer.Table(views.NewTableData(pipeline.Metric(st.Metric), page))
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	_ = sse.MarshalAndPatchSignals(st)
	if err := sse.PatchElements(tableHTML); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Updates is the long-lived SSE endpoint. It pushes nothing until the
// served dataset is swapped, then refreshes the sidebar summary and nudges
// the client into refetching with its live widget signals.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	h.metrics.SSEClients.Inc()
	defer h.metrics.SSEClients.Dec()

	client := uuid.NewString()
	h.logger.Debug("dashboard client connected", "client", client)
	defer h.logger.Debug("dashboard client disconnected", "client", client)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.pushReload(sse); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// pushReload patches the dataset summary and triggers a client-side widget
// refresh. The synthetic change event makes the browser refetch with its
// current signals, so charts rebuild from the new table without losing the
// user's selections.
func (h *Handlers) pushReload(sse *datastar.ServerSentEventGenerator) error {
	metaHTML, err := h.renderer.Meta(h.statsData())
	if err != nil {
		return err
	}
	if err := sse.PatchElements(metaHTML); err != nil {
		return err
	}
	return sse.ExecuteScript("document.getElementById('year').dispatchEvent(new Event('change'))")
}

// SidebarImage serves the configured sidebar image, or falls back to the
// bundled one.
func (h *Handlers) SidebarImage(w http.ResponseWriter, r *http.Request) {
	if h.opts.SidebarImagePath == "" {
		http.Redirect(w, r, resources.StaticPath("img/globe.svg"), http.StatusFound)
		return
	}
	http.ServeFile(w, r, h.opts.SidebarImagePath)
}

// buildViews derives all three dashboard views from the current table.
func (h *Handlers) buildViews(st Signals) (*pipeline.Trend, *pipeline.CrossSection, *pipeline.Breakdown, error) {
	builder := pipeline.New(h.tables.Table())
	metric := pipeline.Metric(st.Metric)

	trend, err := builder.EmissionsTrend(metric, st.Year)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build trend: %w", err)
	}
	h.metrics.ViewRecomputes.WithLabelValues("trend").Inc()

	cross, err := builder.CrossSection(st.Year)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build cross-section: %w", err)
	}
	h.metrics.ViewRecomputes.WithLabelValues("cross_section").Inc()

	breakdown, err := builder.SourceBreakdown(st.Year)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build source breakdown: %w", err)
	}
	h.metrics.ViewRecomputes.WithLabelValues("source_breakdown").Inc()

	return trend, cross, breakdown, nil
}

// renderCharts marshals the chart options and renders the panel fragment.
func (h *Handlers) renderCharts(trend *pipeline.Trend, cross *pipeline.CrossSection, breakdown *pipeline.Breakdown) (string, error) {
	data, err := chartsData(trend, cross, breakdown)
	if err != nil {
		return "", err
	}
	return h.renderer.Charts(data)
}

func chartsData(trend *pipeline.Trend, cross *pipeline.CrossSection, breakdown *pipeline.Breakdown) (views.ChartsData, error) {
	var data views.ChartsData
	var err error

	if data.Trend, err = charts.Line(trend).JSON(); err != nil {
		return data, fmt.Errorf("marshal trend option: %w", err)
	}
	if data.Scatter, err = charts.Scatter(cross).JSON(); err != nil {
		return data, fmt.Errorf("marshal scatter option: %w", err)
	}
	if data.Breakdown, err = charts.Bar(breakdown).JSON(); err != nil {
		return data, fmt.Errorf("marshal breakdown option: %w", err)
	}
	return data, nil
}

// buildPageData assembles the full page model for the initial render.
func (h *Handlers) buildPageData(st Signals) (views.PageData, error) {
	trend, cross, breakdown, err := h.buildViews(st)
	if err != nil {
		return views.PageData{}, err
	}

	chartData, err := chartsData(trend, cross, breakdown)
	if err != nil {
		return views.PageData{}, err
	}

	signals, err := json.Marshal(st)
	if err != nil {
		return views.PageData{}, fmt.Errorf("marshal signals: %w", err)
	}

	yearMin, yearMax := h.sliderBounds()

	return views.PageData{
		Title:       h.opts.Title,
		SidebarHTML: h.sidebarHTML,
		ImageURL:    "/sidebar/image",
		Signals:     template.JS(signals),
		Year:        st.Year,
		YearMin:     yearMin,
		YearMax:     yearMax,
		YearStep:    h.opts.YearStep,
		Metric:      pipeline.Metric(st.Metric),
		Metrics:     pipeline.Metrics(),
		Stats:       h.statsData(),
		Charts:      chartData,
		Table: views.NewTableData(
			pipeline.Metric(st.Metric),
			trend.Page(st.Page, h.opts.PageSize),
		),
	}, nil
}

// sliderBounds narrows the configured year range to the years the table
// actually covers, so the slider never offers a year with nothing behind it.
func (h *Handlers) sliderBounds() (int, int) {
	lo, hi := h.opts.YearMin, h.opts.YearMax
	dataLo, dataHi := h.tables.Table().YearRange()
	if dataLo > lo {
		lo = dataLo
	}
	if dataHi < hi {
		hi = dataHi
	}
	if lo >= hi {
		return h.opts.YearMin, h.opts.YearMax
	}
	return lo, hi
}

func (h *Handlers) statsData() views.StatsData {
	t := h.tables.Table()
	stats := t.Stats()
	return views.StatsData{
		Rows:        stats.Rows,
		Countries:   stats.Countries,
		YearMin:     stats.YearMin,
		YearMax:     stats.YearMax,
		Source:      t.Source(),
		SourceLabel: sourceLabel(t.Source()),
		LoadedAt:    stats.LoadedAt.Format("2006-01-02 15:04"),
	}
}

// sourceLabel shortens a source URL or path for the sidebar.
func sourceLabel(source string) string {
	if strings.Contains(source, "://") {
		if u, err := url.Parse(source); err == nil && u.Host != "" {
			return u.Host
		}
	}
	return filepath.Base(source)
}
