package models

import (
	"encoding/json"
)

// NullFloat is a number that may be undefined, such as the mean of an empty
// set or a percentage against a zero baseline. It encodes as JSON null when
// not valid.
type NullFloat struct {
	Value float64
	Valid bool
}

func Float(v float64) NullFloat {
	return NullFloat{Value: v, Valid: true}
}

func Undefined() NullFloat {
	return NullFloat{}
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Float(v)
	return nil
}

// PeriodMetrics summarizes a filtered record set.
type PeriodMetrics struct {
	TotalSales     float64   `json:"total_sales"`
	ActiveProducts int       `json:"active_products"`
	AverageSale    NullFloat `json:"average_sale"`
	Transactions   int       `json:"transactions"`
}

// DeltaResult compares a current value to its prior-period baseline. Percent
// is undefined when the baseline is zero or missing.
type DeltaResult struct {
	Percent  NullFloat `json:"percent_change"`
	Absolute float64   `json:"absolute_change"`
}

func (d DeltaResult) Available() bool {
	return d.Percent.Valid
}

type MetricDeltas struct {
	TotalSales     DeltaResult `json:"total_sales"`
	ActiveProducts DeltaResult `json:"active_products"`
	AverageSale    DeltaResult `json:"average_sale"`
}

// Dashboard is everything the presentation layer renders for one interaction.
type Dashboard struct {
	SessionID     string         `json:"session_id"`
	Criteria      FilterCriteria `json:"criteria"`
	Range         *DateRange     `json:"range,omitempty"`
	PriorRange    *DateRange     `json:"prior_range,omitempty"`
	Metrics       PeriodMetrics  `json:"metrics"`
	PriorMetrics  *PeriodMetrics `json:"prior_metrics,omitempty"`
	Deltas        MetricDeltas   `json:"deltas"`
	DailyTotals   []DailyTotal   `json:"daily_totals"`
	ProductTotals []ProductTotal `json:"product_totals"`
	ProductShare  []ProductShare `json:"product_share"`
	Records       []Transaction  `json:"-"`
}
