package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/datasource"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

// app is the wiring shared by every command.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	metrics   *observability.Metrics
	analytics *services.Analytics
	closers   []func() error
}

func newApp(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*app, error) {
	a := &app{cfg: cfg, logger: logger, metrics: metrics}

	source, err := a.source()
	if err != nil {
		return nil, err
	}

	policy, err := services.ParseEmptySelection(cfg.Dashboard.EmptySelection)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.analytics = services.NewAnalytics(datasource.NewCached(source),
		services.WithLogger(logger),
		services.WithMetrics(metrics),
		services.WithEmptySelection(policy),
	)
	return a, nil
}

func (a *app) source() (datasource.Source, error) {
	switch a.cfg.Source.Kind {
	case config.SourceCSV:
		return datasource.NewCSV(a.cfg.Source.CSVFile, a.logger), nil

	case config.SourceSQLite:
		db, err := datasource.NewSQLite(a.cfg.Source.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		return db, nil

	case config.SourceGenerator:
		gen, err := datasource.NewGenerator(generatorOptions(a.cfg.Generator))
		if err != nil {
			return nil, err
		}
		return gen, nil

	default:
		return nil, fmt.Errorf("unknown source kind %q", a.cfg.Source.Kind)
	}
}

// load fills the analytics service within the configured load timeout.
func (a *app) load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Server.LoadTimeout)
	defer cancel()
	return a.analytics.Load(ctx)
}

func (a *app) handlerOptions() handlers.Options {
	opts := handlers.DefaultOptions()
	opts.TableRows = a.cfg.Dashboard.TableRows
	opts.Metrics = a.metrics

	chartOpts := charts.DefaultOptions()
	chartOpts.Theme = a.cfg.Dashboard.ChartTheme
	chartOpts.LegendMaxItems = a.cfg.Dashboard.LegendMaxItems
	opts.Charts = chartOpts
	return opts
}

// Close releases data sources in reverse order of creation.
func (a *app) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

func generatorOptions(cfg config.GeneratorConfig) datasource.GeneratorOptions {
	opts := datasource.DefaultGeneratorOptions()
	opts.Days = cfg.Days
	opts.MinPerDay = cfg.MinPerDay
	opts.MaxPerDay = cfg.MaxPerDay
	opts.MinAmount = cfg.MinAmount
	opts.MaxAmount = cfg.MaxAmount
	opts.Seed = cfg.Seed
	if len(cfg.Products) > 0 {
		opts.Products = cfg.Products
	}
	return opts
}

// filterFlags are the selection flags of the export and report commands.
type filterFlags struct {
	products    string
	productsSet bool
	start       string
	end         string
}

func (f filterFlags) criteria(catalog []string) (models.FilterCriteria, error) {
	q := url.Values{}
	if f.productsSet {
		q.Set("products", f.products)
	}
	if s := strings.TrimSpace(f.start); s != "" {
		q.Set("start", s)
	}
	if e := strings.TrimSpace(f.end); e != "" {
		q.Set("end", e)
	}
	return handlers.ParseCriteria(q, catalog)
}
