package dashboard

import (
	"net/http"

	"github.com/kilnworks/carbondash/internal/pipeline"
)

const sessionName = "carbondash"

// loadState restores the widget state from the session, falling back to the
// configured defaults. A bad or missing cookie is not an error; gorilla
// hands back a fresh session either way.
func (h *Handlers) loadState(r *http.Request) Signals {
	st := Signals{
		Year:   h.opts.DefaultYear,
		Metric: string(h.opts.DefaultMetric),
	}

	session, _ := h.sessionStore.Get(r, sessionName)
	if session == nil {
		return st
	}
	if v, ok := session.Values["year"].(int); ok {
		st.Year = v
	}
	if v, ok := session.Values["metric"].(string); ok {
		st.Metric = v
	}
	if v, ok := session.Values["page"].(int); ok {
		st.Page = v
	}
	return h.clamp(st)
}

// saveState persists the widget state. Must run before the response body
// starts, or the cookie header is lost.
func (h *Handlers) saveState(w http.ResponseWriter, r *http.Request, st Signals) {
	session, _ := h.sessionStore.Get(r, sessionName)
	if session == nil {
		return
	}
	session.Values["year"] = st.Year
	session.Values["metric"] = st.Metric
	session.Values["page"] = st.Page
	if err := session.Save(r, w); err != nil {
		h.logger.Warn("save widget session", "error", err)
	}
}

// clamp forces the state into the configured bounds so a stale cookie or a
// hand-crafted request cannot push the pipeline out of range.
func (h *Handlers) clamp(st Signals) Signals {
	if st.Year < h.opts.YearMin {
		st.Year = h.opts.YearMin
	}
	if st.Year > h.opts.YearMax {
		st.Year = h.opts.YearMax
	}
	if _, err := pipeline.ParseMetric(st.Metric); err != nil {
		st.Metric = string(h.opts.DefaultMetric)
	}
	if st.Page < 0 {
		st.Page = 0
	}
	return st
}
