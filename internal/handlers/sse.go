package handlers

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	base
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger, opts Options) *SSEHandlers {
	return &SSEHandlers{base: newBase(analytics, logger, opts)}
}

// HandleDashboard recomputes the dashboard from the filter signals and
// patches every section that depends on them.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	var in criteriaInput
	if err := datastar.ReadSignals(r, &in); err != nil {
		h.fail(w, r, errors.BadRequestWrap(err, "Invalid datastar signals"))
		return
	}

	criteria, err := in.criteria(h.analytics.Catalog())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	d, err := h.compute(r.Context(), criteria)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	view, err := h.view(d)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sse := datastar.NewSSE(w, r)

	sections := []struct {
		name      string
		component func(templates.View) templ.Component
	}{
		{"metrics", templates.Metrics},
		{"charts", templates.Charts},
		{"table", templates.Table},
		{"record-count", templates.RecordCount},
	}
	for _, s := range sections {
		html, err := renderString(r.Context(), s.component(view))
		if err != nil {
			h.logger.Error("render section", "section", s.name, "error", err)
			return
		}
		if err := sse.PatchElements(html); err != nil {
			h.logger.Warn("patch section", "section", s.name, "error", err)
			return
		}
	}

	for _, f := range view.Charts {
		if f.Empty() {
			continue
		}
		if err := sse.ExecuteScript(f.Script); err != nil {
			h.logger.Warn("execute chart script", "chart", f.ID, "error", err)
			return
		}
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	h.logger.Debug("dashboard patched",
		"session_id", d.SessionID,
		"records", len(d.Records),
	)
}
