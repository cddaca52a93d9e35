package services

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"sales-dashboard/internal/models"
)

// Session is the per-interaction context the presentation layer owns. It
// pins the record set that was current when it was created.
type Session struct {
	ID        string
	Criteria  models.FilterCriteria
	CreatedAt time.Time

	records []models.Transaction
	catalog []string
}

func newSession(criteria models.FilterCriteria, records []models.Transaction, catalog []string) *Session {
	criteria.Products = slices.Clone(criteria.Products)
	return &Session{
		ID:        uuid.NewString(),
		Criteria:  criteria,
		CreatedAt: time.Now().UTC(),
		records:   records,
		catalog:   slices.Clone(catalog),
	}
}

// Catalog lists the products available when the session was created.
func (s *Session) Catalog() []string {
	return s.catalog
}
