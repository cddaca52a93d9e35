// Package handlers serves the dashboard page, its datastar SSE updates, the
// JSON API and the report exports.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	cacheMaxAge   = "public, max-age=300"
	noStore       = "no-store"
)

// Options controls how much the handlers render and where they report.
type Options struct {
	TableRows int
	Charts    charts.Options
	Metrics   *observability.Metrics
	Now       func() time.Time
}

func DefaultOptions() Options {
	return Options{
		TableRows: 500,
		Charts:    charts.DefaultOptions(),
		Now:       time.Now,
	}
}

type base struct {
	analytics *services.Analytics
	logger    *slog.Logger
	opts      Options
}

func newBase(analytics *services.Analytics, logger *slog.Logger, opts Options) base {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return base{analytics: analytics, logger: logger, opts: opts}
}

func (b base) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, b.logger, err, observability.GetRequestID(r.Context()))
}

// dashboard parses the request filters and runs the pipeline.
func (b base) dashboard(r *http.Request) (models.Dashboard, error) {
	criteria, err := ParseCriteria(r.URL.Query(), b.analytics.Catalog())
	if err != nil {
		return models.Dashboard{}, err
	}
	return b.compute(r.Context(), criteria)
}

func (b base) compute(ctx context.Context, criteria models.FilterCriteria) (models.Dashboard, error) {
	d, err := b.analytics.Dashboard(ctx, criteria)
	if err != nil {
		return models.Dashboard{}, errors.ServiceUnavailable("Dashboard computation was cancelled").WithDetails(err.Error())
	}
	return d, nil
}

// view renders the charts for d and assembles the page model.
func (b base) view(d models.Dashboard) (templates.View, error) {
	frags, err := charts.Build(d, b.opts.Charts)
	if err != nil {
		return templates.View{}, errors.InternalWrap(err, "Failed to render charts")
	}

	var bounds *models.DateRange
	if r, ok := b.analytics.Bounds(); ok {
		bounds = &r
	}
	return templates.NewView(d, b.analytics.Catalog(), bounds, frags, b.opts.TableRows), nil
}

func renderString(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
