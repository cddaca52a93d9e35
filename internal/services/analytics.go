package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"sales-dashboard/internal/datasource"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

// Analytics holds the loaded record set and runs the filter, aggregate and
// delta pipeline for each dashboard interaction. The record set is replaced
// wholesale on load and never mutated in place.
type Analytics struct {
	source  datasource.Source
	filter  Filter
	logger  *slog.Logger
	metrics *observability.Metrics

	mu       sync.RWMutex
	records  []models.Transaction
	catalog  []string
	bounds   models.DateRange
	hasData  bool
	loadedAt time.Time
}

type Option func(*Analytics)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Analytics) { a.logger = logger }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(a *Analytics) { a.metrics = m }
}

func WithEmptySelection(policy EmptySelection) Option {
	return func(a *Analytics) { a.filter = NewFilter(policy) }
}

func NewAnalytics(source datasource.Source, opts ...Option) *Analytics {
	a := &Analytics{
		source: source,
		filter: NewFilter(EmptySelectsNone),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load pulls a fresh record set from the source.
func (a *Analytics) Load(ctx context.Context) error {
	if a.source == nil {
		return fmt.Errorf("analytics has no data source")
	}

	ctx, span := observability.StartSpan(ctx, "analytics.load")
	defer span.End(a.logger)

	start := time.Now()
	records, err := a.source.Load(ctx)
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("load records: %w", err)
	}

	a.SetData(records)

	a.logger.Info("records loaded",
		"records", len(records),
		"products", len(a.Catalog()),
		"duration", time.Since(start),
	)
	return nil
}

// Reload drops whatever the source has memoized and loads again. The
// current record set stays in place when the reload fails.
func (a *Analytics) Reload(ctx context.Context) error {
	if inv, ok := a.source.(datasource.Invalidator); ok {
		inv.Invalidate()
	}
	return a.Load(ctx)
}

// SetData replaces the record set. The slice is copied.
func (a *Analytics) SetData(records []models.Transaction) {
	data := slices.Clone(records)
	slices.SortStableFunc(data, func(x, y models.Transaction) int {
		return x.Date.Compare(y.Date)
	})
	catalog := UniqueProducts(data)
	bounds, ok := Bounds(data)

	a.mu.Lock()
	a.records = data
	a.catalog = catalog
	a.bounds = bounds
	a.hasData = ok
	a.loadedAt = time.Now()
	a.mu.Unlock()

	a.metrics.SetRecordsLoaded(len(data))
}

// Records returns the full record set. Callers must not modify it.
func (a *Analytics) Records() []models.Transaction {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.records
}

func (a *Analytics) Catalog() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.catalog)
}

// Bounds reports the first and last calendar dates of the data.
func (a *Analytics) Bounds() (models.DateRange, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.bounds, a.hasData
}

// DefaultCriteria selects the whole catalog over the whole data range.
func (a *Analytics) DefaultCriteria() models.FilterCriteria {
	a.mu.RLock()
	defer a.mu.RUnlock()
	criteria := models.FilterCriteria{Products: slices.Clone(a.catalog)}
	if a.hasData {
		criteria.Start = a.bounds.Start
		criteria.End = a.bounds.End
	}
	return criteria
}

// NewSession captures the current record set together with the user's
// criteria. Later reloads do not affect an existing session.
func (a *Analytics) NewSession(criteria models.FilterCriteria) *Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return newSession(criteria, a.records, a.catalog)
}

// Compute runs the whole pipeline for one session.
func (a *Analytics) Compute(ctx context.Context, session *Session) (models.Dashboard, error) {
	if err := ctx.Err(); err != nil {
		return models.Dashboard{}, err
	}

	ctx, span := observability.StartSpan(ctx, "analytics.compute")
	span.SetTag("session_id", session.ID)
	defer span.End(a.logger)

	start := time.Now()
	defer func() { a.metrics.ObserveCompute(time.Since(start)) }()

	return computeDashboard(ctx, a.filter, session, a.logger), nil
}

// Dashboard is shorthand for NewSession followed by Compute.
func (a *Analytics) Dashboard(ctx context.Context, criteria models.FilterCriteria) (models.Dashboard, error) {
	return a.Compute(ctx, a.NewSession(criteria))
}

// Filtered applies the criteria to the full record set.
func (a *Analytics) Filtered(criteria models.FilterCriteria) []models.Transaction {
	return a.filter.Apply(a.Records(), criteria)
}

type Stats struct {
	Records        int               `json:"records"`
	Products       int               `json:"products"`
	Catalog        []string          `json:"catalog"`
	Range          *models.DateRange `json:"range,omitempty"`
	EmptySelection EmptySelection    `json:"empty_selection"`
	LoadedAt       time.Time         `json:"loaded_at"`
}

func (a *Analytics) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := Stats{
		Records:        len(a.records),
		Products:       len(a.catalog),
		Catalog:        slices.Clone(a.catalog),
		EmptySelection: a.filter.EmptySelection,
		LoadedAt:       a.loadedAt,
	}
	if a.hasData {
		r := a.bounds
		stats.Range = &r
	}
	return stats
}

func computeDashboard(ctx context.Context, filter Filter, session *Session, logger *slog.Logger) models.Dashboard {
	_, span := observability.StartSpan(ctx, "pipeline")
	defer span.End(logger)

	current := filter.Apply(session.records, session.Criteria)
	metrics := Summarize(current)

	dashboard := models.Dashboard{
		SessionID:     session.ID,
		Criteria:      session.Criteria,
		Metrics:       metrics,
		DailyTotals:   DailyTotals(current),
		ProductTotals: SortedTotals(ProductTotals(current)),
		ProductShare:  SortedShares(ProductShare(current)),
		Records:       current,
	}

	currentRange, ok := session.Criteria.Range()
	if !ok {
		dashboard.Deltas = CompareMetrics(metrics, nil)
		span.SetTag("prior", "none")
		return dashboard
	}

	prior := PriorRange(currentRange)
	priorRecords := priorPeriod(filter, session.records, current, prior)
	priorMetrics := Summarize(priorRecords)

	dashboard.Range = &currentRange
	dashboard.PriorRange = &prior
	dashboard.PriorMetrics = &priorMetrics
	dashboard.Deltas = CompareMetrics(metrics, &priorMetrics)

	span.SetTag("records", fmt.Sprint(len(current)))
	span.SetTag("prior_records", fmt.Sprint(len(priorRecords)))
	return dashboard
}

// priorPeriod returns the records of the prior window limited to the products
// that actually sold in the current window. An empty current window has an
// empty baseline regardless of the empty-selection policy.
func priorPeriod(filter Filter, records, current []models.Transaction, prior models.DateRange) []models.Transaction {
	products := UniqueProducts(current)
	if len(products) == 0 {
		return []models.Transaction{}
	}
	return filter.Apply(records, models.FilterCriteria{
		Products: products,
		Start:    prior.Start,
		End:      prior.End,
	})
}
