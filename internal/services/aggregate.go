package services

import (
	"maps"
	"slices"
	"time"

	"sales-dashboard/internal/models"
)

// DailyTotals sums amounts per calendar date, ascending. Days without
// transactions are not filled in.
func DailyTotals(records []models.Transaction) []models.DailyTotal {
	groups := make(map[time.Time]float64)
	for _, tx := range records {
		groups[tx.Day()] += tx.Amount
	}

	result := make([]models.DailyTotal, 0, len(groups))
	for day, amount := range groups {
		result = append(result, models.DailyTotal{Date: day, Amount: amount})
	}
	slices.SortFunc(result, func(a, b models.DailyTotal) int {
		return a.Date.Compare(b.Date)
	})
	return result
}

// ProductTotals sums amounts per product. Products without records are absent.
func ProductTotals(records []models.Transaction) map[string]float64 {
	totals := make(map[string]float64)
	for _, tx := range records {
		totals[tx.Product] += tx.Amount
	}
	return totals
}

// ProductShare expresses each product total as a percentage of the grand
// total. A zero grand total yields an empty map.
func ProductShare(records []models.Transaction) map[string]float64 {
	totals := ProductTotals(records)

	var grand float64
	for _, v := range totals {
		grand += v
	}

	shares := make(map[string]float64, len(totals))
	if grand == 0 {
		return shares
	}
	for product, v := range totals {
		shares[product] = v / grand * 100
	}
	return shares
}

// SortedTotals orders product totals by product name for stable display.
func SortedTotals(totals map[string]float64) []models.ProductTotal {
	result := make([]models.ProductTotal, 0, len(totals))
	for _, product := range slices.Sorted(maps.Keys(totals)) {
		result = append(result, models.ProductTotal{Product: product, Amount: totals[product]})
	}
	return result
}

func SortedShares(shares map[string]float64) []models.ProductShare {
	result := make([]models.ProductShare, 0, len(shares))
	for _, product := range slices.Sorted(maps.Keys(shares)) {
		result = append(result, models.ProductShare{Product: product, Percent: shares[product]})
	}
	return result
}

func Count(records []models.Transaction) int {
	return len(records)
}

// UniqueProducts returns the distinct products in records, sorted.
func UniqueProducts(records []models.Transaction) []string {
	seen := make(map[string]struct{})
	for _, tx := range records {
		seen[tx.Product] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

func Sum(records []models.Transaction) float64 {
	var total float64
	for _, tx := range records {
		total += tx.Amount
	}
	return total
}

// Mean is undefined for an empty set.
func Mean(records []models.Transaction) models.NullFloat {
	if len(records) == 0 {
		return models.Undefined()
	}
	return models.Float(Sum(records) / float64(len(records)))
}

// Summarize computes the period metrics of a filtered record set.
func Summarize(records []models.Transaction) models.PeriodMetrics {
	return models.PeriodMetrics{
		TotalSales:     Sum(records),
		ActiveProducts: len(UniqueProducts(records)),
		AverageSale:    Mean(records),
		Transactions:   Count(records),
	}
}

// Bounds returns the first and last calendar dates present in records.
func Bounds(records []models.Transaction) (models.DateRange, bool) {
	if len(records) == 0 {
		return models.DateRange{}, false
	}
	first := slices.MinFunc(records, func(a, b models.Transaction) int {
		return a.Date.Compare(b.Date)
	})
	last := slices.MaxFunc(records, func(a, b models.Transaction) int {
		return a.Date.Compare(b.Date)
	})
	return models.NewDateRange(first.Date, last.Date), true
}
