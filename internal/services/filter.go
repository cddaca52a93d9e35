package services

import (
	"fmt"

	"sales-dashboard/internal/models"
)

// EmptySelection decides what an empty product selection means.
type EmptySelection string

const (
	// EmptySelectsNone treats an empty multiselect as "nothing selected".
	EmptySelectsNone EmptySelection = "none"
	// EmptySelectsAll skips the product filter when nothing is selected.
	EmptySelectsAll EmptySelection = "all"
)

func ParseEmptySelection(s string) (EmptySelection, error) {
	switch EmptySelection(s) {
	case EmptySelectsNone, EmptySelectsAll:
		return EmptySelection(s), nil
	default:
		return "", fmt.Errorf("unknown empty selection policy %q", s)
	}
}

// Filter narrows record sets by product membership and calendar date range.
type Filter struct {
	EmptySelection EmptySelection
}

func NewFilter(policy EmptySelection) Filter {
	return Filter{EmptySelection: policy}
}

// Apply returns a new slice holding the records that match the criteria, in
// their original order. The input is never modified.
func (f Filter) Apply(records []models.Transaction, criteria models.FilterCriteria) []models.Transaction {
	if len(criteria.Products) == 0 && f.EmptySelection != EmptySelectsAll {
		return []models.Transaction{}
	}

	var products map[string]struct{}
	if len(criteria.Products) > 0 {
		products = make(map[string]struct{}, len(criteria.Products))
		for _, p := range criteria.Products {
			products[p] = struct{}{}
		}
	}

	dateRange, hasRange := criteria.Range()

	result := make([]models.Transaction, 0, len(records))
	for _, tx := range records {
		if products != nil {
			if _, ok := products[tx.Product]; !ok {
				continue
			}
		}
		if hasRange && !dateRange.Contains(tx.Date) {
			continue
		}
		result = append(result, tx)
	}
	return result
}
