// Package charts turns aggregate views into go-echarts fragments that can be
// embedded in the dashboard page or patched in over SSE.
package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"sales-dashboard/internal/models"
)

const (
	DailyTrendID = "daily_trend"
	ProductBarID = "product_totals"
	ShareDonutID = "product_share"

	// AssetsHost serves echarts.min.js for the page header.
	AssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
)

type Options struct {
	Theme          string
	Width          string
	Height         string
	LegendMaxItems int
}

func DefaultOptions() Options {
	return Options{
		Theme:          "dark",
		Width:          "100%",
		Height:         "360px",
		LegendMaxItems: 8,
	}
}

// Fragment is a rendered chart split into its container markup and the
// script that initializes it.
type Fragment struct {
	ID      string
	Title   string
	Element string
	Script  string
}

// Empty reports whether the fragment has nothing to draw.
func (f Fragment) Empty() bool {
	return f.Script == ""
}

type renderable interface {
	Render(w io.Writer) error
}

// Build renders the three dashboard charts in display order.
func Build(d models.Dashboard, o Options) ([]Fragment, error) {
	builders := []func() (Fragment, error){
		func() (Fragment, error) { return DailyTrend(d.DailyTotals, o) },
		func() (Fragment, error) { return ProductBar(d.ProductTotals, o) },
		func() (Fragment, error) { return ShareDonut(d.ProductShare, o) },
	}

	out := make([]Fragment, 0, len(builders))
	for _, build := range builders {
		f, err := build()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (o Options) init(id string) opts.Initialization {
	return opts.Initialization{
		ChartID:    id,
		Width:      o.Width,
		Height:     o.Height,
		Theme:      o.Theme,
		AssetsHost: AssetsHost,
	}
}

func tooltip(trigger string) opts.Tooltip {
	return opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}
}

// DailyTrend is a line chart of sales per day.
func DailyTrend(totals []models.DailyTotal, o Options) (Fragment, error) {
	const title = "Daily Sales Trend"
	if len(totals) == 0 {
		return empty(DailyTrendID, title), nil
	}

	labels := make([]string, len(totals))
	data := make([]opts.LineData, len(totals))
	for i, t := range totals {
		labels[i] = t.Date.Format(models.DateLayout)
		data[i] = opts.LineData{Value: round2(t.Amount)}
	}

	line := echarts.NewLine()
	line.SetGlobalOptions(
		echarts.WithInitializationOpts(o.init(DailyTrendID)),
		echarts.WithTooltipOpts(tooltip("axis")),
		echarts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		echarts.WithYAxisOpts(opts.YAxis{Name: "Sales ($)"}),
		echarts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
		echarts.WithGridOpts(opts.Grid{Left: "3%", Right: "4%", ContainLabel: opts.Bool(true)}),
	)
	line.SetXAxis(labels)
	line.AddSeries("Sales", data,
		echarts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		echarts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.15)}),
	)

	return render(DailyTrendID, title, line)
}

// ProductBar is a bar chart of sales per product.
func ProductBar(totals []models.ProductTotal, o Options) (Fragment, error) {
	const title = "Sales by Product"
	if len(totals) == 0 {
		return empty(ProductBarID, title), nil
	}

	labels := make([]string, len(totals))
	data := make([]opts.BarData, len(totals))
	for i, t := range totals {
		labels[i] = t.Product
		data[i] = opts.BarData{Value: round2(t.Amount)}
	}

	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithInitializationOpts(o.init(ProductBarID)),
		echarts.WithTooltipOpts(tooltip("axis")),
		echarts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Interval: "0", Rotate: 20}}),
		echarts.WithYAxisOpts(opts.YAxis{Name: "Sales ($)"}),
		echarts.WithGridOpts(opts.Grid{Left: "3%", Right: "4%", ContainLabel: opts.Bool(true)}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("Sales", data)

	return render(ProductBarID, title, bar)
}

// ShareDonut is a donut chart of each product's share of sales. The legend
// is hidden once there are more products than fit beside the chart.
func ShareDonut(shares []models.ProductShare, o Options) (Fragment, error) {
	const title = "Sales Distribution"
	if len(shares) == 0 {
		return empty(ShareDonutID, title), nil
	}

	data := make([]opts.PieData, len(shares))
	for i, s := range shares {
		data[i] = opts.PieData{Name: s.Product, Value: round2(s.Percent)}
	}

	showLegend := o.LegendMaxItems <= 0 || len(shares) <= o.LegendMaxItems

	pie := echarts.NewPie()
	pie.SetGlobalOptions(
		echarts.WithInitializationOpts(o.init(ShareDonutID)),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item", Formatter: "{b}: {c}%"}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(showLegend), Type: "scroll", Top: "bottom"}),
	)
	pie.AddSeries("Share", data).
		SetSeriesOptions(
			echarts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
			echarts.WithPieChartOpts(opts.PieChart{Radius: []string{"30%", "75%"}}),
		)

	return render(ShareDonutID, title, pie)
}

func empty(id, title string) Fragment {
	return Fragment{
		ID:      id,
		Title:   title,
		Element: fmt.Sprintf(`<div class="chart-box chart-empty" id="%s">No sales for the current selection</div>`, id),
	}
}

func render(id, title string, chart renderable) (Fragment, error) {
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		return Fragment{}, fmt.Errorf("rendering chart %s: %w", id, err)
	}

	element, script, err := extractChartContent(buf.String())
	if err != nil {
		return Fragment{}, fmt.Errorf("extracting chart %s: %w", id, err)
	}
	return Fragment{ID: id, Title: title, Element: element, Script: script}, nil
}

// extractChartContent pulls the chart container and its inline init script
// out of a full go-echarts page. The script is wrapped in a block so its
// top-level let bindings can run more than once on the same page.
func extractChartContent(html string) (element, script string, err error) {
	start := strings.Index(html, `<div class="container">`)
	if start == -1 {
		return "", "", fmt.Errorf("chart container not found")
	}

	rest := html[start:]
	scriptAt := inlineScriptIndex(rest)
	if scriptAt == -1 {
		return "", "", fmt.Errorf("chart script not found")
	}

	element = strings.TrimSpace(rest[:strings.Index(rest, "<script")])
	element = strings.Replace(element, `class="container"`, `class="chart-box"`, 1)

	body := rest[scriptAt:]
	body = body[strings.Index(body, ">")+1:]
	end := strings.Index(body, "</script>")
	if end == -1 {
		return "", "", fmt.Errorf("unterminated chart script")
	}
	body = strings.TrimSpace(body[:end])

	return element, "{\n" + body + "\n}", nil
}

// inlineScriptIndex finds the first <script> tag without a src attribute.
func inlineScriptIndex(s string) int {
	offset := 0
	for {
		i := strings.Index(s[offset:], "<script")
		if i == -1 {
			return -1
		}
		i += offset
		closeAt := strings.Index(s[i:], ">")
		if closeAt == -1 {
			return -1
		}
		if !strings.Contains(s[i:i+closeAt], "src=") {
			return i
		}
		offset = i + closeAt
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
