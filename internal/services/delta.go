package services

import (
	"sales-dashboard/internal/models"
)

// Delta compares current against prior. The percentage is unavailable when
// either value is undefined or the prior value is zero.
func Delta(current, prior models.NullFloat) models.DeltaResult {
	result := models.DeltaResult{Absolute: current.Value - prior.Value}
	if !current.Valid || !prior.Valid || prior.Value == 0 {
		return result
	}
	result.Percent = models.Float((current.Value - prior.Value) / prior.Value * 100)
	return result
}

// PriorRange is the window of equal length ending the day before r starts.
func PriorRange(r models.DateRange) models.DateRange {
	days := r.Days()
	return models.DateRange{
		Start: r.Start.AddDate(0, 0, -days),
		End:   r.Start.AddDate(0, 0, -1),
	}
}

// CompareMetrics derives the delta of every metric. A nil prior means no
// prior period could be defined.
func CompareMetrics(current models.PeriodMetrics, prior *models.PeriodMetrics) models.MetricDeltas {
	base := models.PeriodMetrics{}
	priorTotal := models.Undefined()
	priorAverage := models.Undefined()
	if prior != nil {
		base = *prior
		priorTotal = models.Float(prior.TotalSales)
		priorAverage = prior.AverageSale
	}

	return models.MetricDeltas{
		TotalSales: Delta(models.Float(current.TotalSales), priorTotal),
		ActiveProducts: Delta(
			models.Float(float64(current.ActiveProducts)),
			models.Float(float64(base.ActiveProducts)),
		),
		AverageSale: Delta(current.AverageSale, priorAverage),
	}
}
