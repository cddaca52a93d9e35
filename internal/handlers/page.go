package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

type PageHandlers struct {
	base
}

func NewPageHandlers(analytics *services.Analytics, logger *slog.Logger, opts Options) *PageHandlers {
	return &PageHandlers{base: newBase(analytics, logger, opts)}
}

// HandleDashboard renders the full page. Without query parameters it shows
// every product over the whole data range.
func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.fail(w, r, errors.NotFound("Page not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	criteria := h.analytics.DefaultCriteria()
	if len(r.URL.Query()) > 0 {
		var err error
		criteria, err = ParseCriteria(r.URL.Query(), h.analytics.Catalog())
		if err != nil {
			h.fail(w, r, err)
			return
		}
	}

	d, err := h.compute(ctx, criteria)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	view, err := h.view(d)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	html, err := renderString(ctx, templates.Page(view))
	if err != nil {
		h.logger.Error("render dashboard page", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", noStore)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}
