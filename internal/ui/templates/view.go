package templates

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/exporter"
	"sales-dashboard/internal/models"
)

const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"

type MetricCard struct {
	ID    string
	Label string
	Value string
	Delta string
	Trend string
}

type Row struct {
	Date    string
	Product string
	Amount  string
}

type TableView struct {
	Rows      []Row
	Total     int
	Truncated bool
}

type ProductOption struct {
	Name     string
	Selected bool
}

// View is everything the dashboard page renders.
type View struct {
	Title       string
	Products    []ProductOption
	Start       string
	End         string
	MinDate     string
	MaxDate     string
	Cards       []MetricCard
	PriorRange  string
	Charts      []charts.Fragment
	Table       TableView
	RecordCount int
	Signals     string
	CSVExport   string
	XLSXExport  string
}

// NewView builds the page model for a computed dashboard. catalog lists
// every product the user can pick; bounds limits the date inputs.
func NewView(d models.Dashboard, catalog []string, bounds *models.DateRange, frags []charts.Fragment, tableRows int) View {
	selected := make(map[string]bool, len(d.Criteria.Products))
	for _, p := range d.Criteria.Products {
		selected[p] = true
	}

	v := View{
		Title:       "Sales Dashboard",
		Products:    make([]ProductOption, 0, len(catalog)),
		Cards:       metricCards(d),
		Charts:      frags,
		Table:       newTable(d.Records, tableRows),
		RecordCount: len(d.Records),
	}
	for _, p := range catalog {
		v.Products = append(v.Products, ProductOption{Name: p, Selected: selected[p]})
	}
	if !d.Criteria.Start.IsZero() {
		v.Start = d.Criteria.Start.Format(models.DateLayout)
	}
	if !d.Criteria.End.IsZero() {
		v.End = d.Criteria.End.Format(models.DateLayout)
	}
	if bounds != nil {
		v.MinDate = bounds.Start.Format(models.DateLayout)
		v.MaxDate = bounds.End.Format(models.DateLayout)
	}
	if d.PriorRange != nil {
		v.PriorRange = d.PriorRange.Start.Format(models.DateLayout) + " to " + d.PriorRange.End.Format(models.DateLayout)
	}

	v.Signals = signals(d.Criteria, v.Start, v.End)
	query := exportQuery(d.Criteria.Products, v.Start, v.End)
	v.CSVExport = "/api/export.csv?" + query
	v.XLSXExport = "/api/export.xlsx?" + query
	return v
}

func metricCards(d models.Dashboard) []MetricCard {
	total := d.Deltas.TotalSales
	active := d.Deltas.ActiveProducts
	average := d.Deltas.AverageSale

	return []MetricCard{
		{
			ID:    "metric-total",
			Label: "Total Sales",
			Value: Currency(d.Metrics.TotalSales),
			Delta: PercentDelta(total),
			Trend: Trend(total.Percent.Value, total.Available()),
		},
		{
			ID:    "metric-products",
			Label: "Active Products",
			Value: formatInt(d.Metrics.ActiveProducts),
			Delta: CountDelta(active),
			Trend: Trend(active.Absolute, true),
		},
		{
			ID:    "metric-average",
			Label: "Average Sale",
			Value: CurrencyOrNA(d.Metrics.AverageSale),
			Delta: PercentDelta(average),
			Trend: Trend(average.Percent.Value, average.Available()),
		},
	}
}

func newTable(records []models.Transaction, limit int) TableView {
	t := TableView{Total: len(records)}
	shown := records
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
		t.Truncated = true
	}
	t.Rows = make([]Row, len(shown))
	for i, tx := range shown {
		t.Rows[i] = Row{
			Date:    exporter.FormatTimestamp(tx.Date),
			Product: tx.Product,
			Amount:  exporter.FormatAmount(tx.Amount),
		}
	}
	return t
}

type signalState struct {
	Products []string `json:"products"`
	Start    string   `json:"start"`
	End      string   `json:"end"`
}

func signals(c models.FilterCriteria, start, end string) string {
	products := c.Products
	if products == nil {
		products = []string{}
	}
	b, _ := json.Marshal(signalState{Products: products, Start: start, End: end})
	return string(b)
}

func exportQuery(products []string, start, end string) string {
	q := url.Values{}
	q.Set("products", strings.Join(products, ","))
	if start != "" {
		q.Set("start", start)
	}
	if end != "" {
		q.Set("end", end)
	}
	return q.Encode()
}

func formatInt(n int) string {
	return humanize.Comma(int64(n))
}
