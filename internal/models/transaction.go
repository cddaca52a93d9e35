package models

import (
	"encoding/json"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04"
)

// Transaction is a single immutable sale.
type Transaction struct {
	Date    time.Time `json:"date"`
	Product string    `json:"product"`
	Amount  float64   `json:"amount"`
}

// Day returns the calendar date of the transaction at UTC midnight.
func (t Transaction) Day() time.Time {
	return CalendarDate(t.Date)
}

// CalendarDate drops the time-of-day component, keeping the date as seen in
// the timestamp's own location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: CalendarDate(start), End: CalendarDate(end)}
}

// Days is the inclusive length of the range.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r DateRange) Contains(t time.Time) bool {
	day := CalendarDate(t)
	return !day.Before(r.Start) && !day.After(r.End)
}

func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"start": r.Start.Format(DateLayout),
		"end":   r.End.Format(DateLayout),
	})
}

// FilterCriteria is the user's selection for one interaction. A zero Start or
// End means that bound was not chosen.
type FilterCriteria struct {
	Products []string  `json:"products"`
	Start    time.Time `json:"start,omitzero"`
	End      time.Time `json:"end,omitzero"`
}

// Range reports the date range when both bounds are present.
func (c FilterCriteria) Range() (DateRange, bool) {
	if c.Start.IsZero() || c.End.IsZero() {
		return DateRange{}, false
	}
	return NewDateRange(c.Start, c.End), true
}

type DailyTotal struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

func (d DailyTotal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date   string  `json:"date"`
		Amount float64 `json:"amount"`
	}{d.Date.Format(DateLayout), d.Amount})
}

type ProductTotal struct {
	Product string  `json:"product"`
	Amount  float64 `json:"amount"`
}

type ProductShare struct {
	Product string  `json:"product"`
	Percent float64 `json:"percent"`
}
