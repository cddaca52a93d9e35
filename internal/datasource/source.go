// Package datasource provides the transaction record producers the dashboard
// can run on: a random generator for demos and tests, CSV files, and SQLite.
package datasource

import (
	"context"
	"errors"
	"slices"

	"sales-dashboard/internal/models"
)

// ErrNoRecords is returned when a source holds no usable transactions.
var ErrNoRecords = errors.New("no valid records found")

// Source produces transaction records ordered by date ascending.
type Source interface {
	Load(ctx context.Context) ([]models.Transaction, error)
}

// Invalidator is implemented by sources that memoize their records.
type Invalidator interface {
	Invalidate()
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]models.Transaction, error)

func (f SourceFunc) Load(ctx context.Context) ([]models.Transaction, error) {
	return f(ctx)
}

// Static serves a fixed record set.
func Static(records []models.Transaction) Source {
	return SourceFunc(func(ctx context.Context) ([]models.Transaction, error) {
		out := slices.Clone(records)
		sortRecords(out)
		return out, nil
	})
}

func sortRecords(records []models.Transaction) {
	slices.SortStableFunc(records, func(a, b models.Transaction) int {
		return a.Date.Compare(b.Date)
	})
}
