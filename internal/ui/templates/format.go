package templates

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"sales-dashboard/internal/exporter"
	"sales-dashboard/internal/models"
)

const notAvailable = "N/A"

// Currency renders whole dollars, e.g. $12,345.
func Currency(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.", -v)
	}
	return "$" + humanize.FormatFloat("#,###.", v)
}

// CurrencyOrNA renders an optional amount with two decimals.
func CurrencyOrNA(v models.NullFloat) string {
	if !v.Valid {
		return notAvailable
	}
	return exporter.FormatAmount(v.Value)
}

// PercentDelta renders a percentage change such as 12.50% or -3.10%.
func PercentDelta(d models.DeltaResult) string {
	if !d.Available() {
		return notAvailable
	}
	return fmt.Sprintf("%.2f%%", d.Percent.Value)
}

// CountDelta renders the absolute change of a count, e.g. +3 or -1.
func CountDelta(d models.DeltaResult) string {
	return fmt.Sprintf("%+d", int(math.Round(d.Absolute)))
}

// Trend classifies a change for styling.
func Trend(v float64, available bool) string {
	switch {
	case !available || v == 0:
		return "flat"
	case v > 0:
		return "up"
	default:
		return "down"
	}
}
