package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

type APIHandlers struct {
	base
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger, opts Options) *APIHandlers {
	return &APIHandlers{base: newBase(analytics, logger, opts)}
}

var filteredHeaders = map[string]string{
	"Cache-Control": noStore,
}

// HandleDashboard returns the whole computed dashboard.
func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, d, filteredHeaders)
}

func (h *APIHandlers) HandleDailyTotals(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, d.DailyTotals, filteredHeaders)
}

func (h *APIHandlers) HandleProductTotals(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, d.ProductTotals, filteredHeaders)
}

func (h *APIHandlers) HandleProductShare(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, d.ProductShare, filteredHeaders)
}

type metricsResponse struct {
	Range        *models.DateRange     `json:"range,omitempty"`
	PriorRange   *models.DateRange     `json:"prior_range,omitempty"`
	Metrics      models.PeriodMetrics  `json:"metrics"`
	PriorMetrics *models.PeriodMetrics `json:"prior_metrics,omitempty"`
	Deltas       models.MetricDeltas   `json:"deltas"`
}

// HandleMetrics returns the summary metrics of the selection and how they
// moved against the prior window.
func (h *APIHandlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, metricsResponse{
		Range:        d.Range,
		PriorRange:   d.PriorRange,
		Metrics:      d.Metrics,
		PriorMetrics: d.PriorMetrics,
		Deltas:       d.Deltas,
	}, filteredHeaders)
}

type productsResponse struct {
	Products []string          `json:"products"`
	Range    *models.DateRange `json:"range,omitempty"`
}

// HandleProducts lists the catalog and the date span the filters accept.
func (h *APIHandlers) HandleProducts(w http.ResponseWriter, r *http.Request) {
	resp := productsResponse{Products: h.analytics.Catalog()}
	if bounds, ok := h.analytics.Bounds(); ok {
		resp.Range = &bounds
	}

	headers := map[string]string{
		"Cache-Control": cacheMaxAge,
	}

	errors.WriteSuccessWithHeaders(w, resp, headers)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	stats := h.analytics.Stats()
	if stats.Records == 0 {
		h.fail(w, r, errors.ServiceUnavailable("No sales data loaded"))
		return
	}

	healthData := map[string]any{
		"status":    "healthy",
		"timestamp": h.opts.Now().UTC().Format(time.RFC3339),
		"version":   "1.0.0",
		"records":   stats.Records,
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {

	stats := h.analytics.Stats()

	errors.WriteSuccess(w, stats)
}

// HandleReload re-reads the data source and reports the new stats.
func (h *APIHandlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	if err := h.analytics.Reload(ctx); err != nil {
		h.fail(w, r, errors.Wrap(err, errors.CodeServiceUnavail, "Failed to reload sales data"))
		return
	}

	stats := h.analytics.Stats()
	h.logger.Info("sales data reloaded", "records", stats.Records, "products", stats.Products)
	errors.WriteSuccess(w, stats)
}
