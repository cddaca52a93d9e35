// Package templates renders the dashboard page and the fragments the SSE
// endpoint patches into it.
package templates

import (
	"html/template"

	"github.com/a-h/templ"

	"sales-dashboard/internal/charts"
)

var funcs = template.FuncMap{
	"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	"safeJS":   func(s string) template.JS { return template.JS(s) },
}

const metricsTmpl = `{{define "metrics"}}<section id="metrics" class="metrics">
{{range .Cards}}<div class="metric-card" id="{{.ID}}">
<div class="metric-label">{{.Label}}</div>
<div class="metric-value">{{.Value}}</div>
<div class="metric-delta {{.Trend}}">{{.Delta}}</div>
</div>
{{end}}{{if .PriorRange}}<p class="metric-note">Compared with {{.PriorRange}}</p>{{end}}
</section>{{end}}`

const chartsTmpl = `{{define "charts"}}<section id="charts" class="charts">
{{range .Charts}}<div class="chart-card" id="card-{{.ID}}">
<h3>{{.Title}}</h3>
{{safeHTML .Element}}
</div>
{{end}}</section>{{end}}`

const tableTmpl = `{{define "table"}}<section id="table" class="detail">
<details>
<summary>View detailed data ({{.Table.Total}} rows)</summary>
{{if .Table.Rows}}<table class="modern-table">
<thead><tr><th>Date</th><th>Product</th><th>Amount</th></tr></thead>
<tbody>
{{range .Table.Rows}}<tr><td>{{.Date}}</td><td>{{.Product}}</td><td>{{.Amount}}</td></tr>
{{end}}</tbody>
</table>
{{if .Table.Truncated}}<p class="table-note">Showing the first {{len .Table.Rows}} of {{.Table.Total}} rows. Export for the full set.</p>{{end}}
{{else}}<p class="table-note">No transactions match the current filters.</p>{{end}}
</details>
</section>{{end}}`

const recordCountTmpl = `{{define "record-count"}}<span id="record-count">{{.RecordCount}}</span>{{end}}`

const pageTmpl = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script src="{{.EchartsScript}}"></script>
<script type="module" src="{{.DatastarScript}}"></script>
<style>
body{margin:0;font-family:system-ui,sans-serif;background:#0f172a;color:#e2e8f0;display:flex}
aside{width:280px;padding:1.5rem;background:#111827;min-height:100vh;box-sizing:border-box}
main{flex:1;padding:1.5rem}
label{display:block;margin-top:1rem;font-size:.85rem;color:#94a3b8}
select,input{width:100%;margin-top:.25rem;background:#1f2937;color:#e2e8f0;border:1px solid #334155;padding:.4rem}
.metrics{display:grid;grid-template-columns:repeat(3,1fr);gap:1rem}
.metric-card{background:#1e293b;padding:1rem;border-radius:.5rem}
.metric-value{font-size:1.8rem;font-weight:600}
.metric-delta.up{color:#22c55e}.metric-delta.down{color:#ef4444}.metric-delta.flat{color:#94a3b8}
.charts{display:grid;grid-template-columns:repeat(auto-fit,minmax(420px,1fr));gap:1rem;margin-top:1rem}
.chart-card{background:#1e293b;padding:1rem;border-radius:.5rem}
.chart-empty{padding:4rem 0;text-align:center;color:#94a3b8}
.modern-table{width:100%;border-collapse:collapse}
.modern-table td,.modern-table th{padding:.4rem;border-bottom:1px solid #334155;text-align:left}
.exports a{color:#38bdf8;margin-right:1rem}
</style>
</head>
<body data-signals="{{.Signals}}">
<aside>
<h2>Filters</h2>
<form data-on-change="@get('/sse/dashboard')">
<label for="products">Products</label>
<select id="products" multiple size="{{len .Products}}" data-bind-products>
{{range .Products}}<option value="{{.Name}}"{{if .Selected}} selected{{end}}>{{.Name}}</option>
{{end}}</select>
<label for="start">Start date</label>
<input id="start" type="date" min="{{.MinDate}}" max="{{.MaxDate}}" value="{{.Start}}" data-bind-start>
<label for="end">End date</label>
<input id="end" type="date" min="{{.MinDate}}" max="{{.MaxDate}}" value="{{.End}}" data-bind-end>
</form>
<p>Records: {{template "record-count" .}}</p>
</aside>
<main>
<h1>{{.Title}}</h1>
{{template "metrics" .}}
{{template "charts" .}}
<div class="exports">
<a id="export-csv" href="{{.CSVExport}}" data-attr-href="'/api/export.csv?products=' + encodeURIComponent($products.join(',')) + '&start=' + $start + '&end=' + $end">Download CSV</a>
<a id="export-xlsx" href="{{.XLSXExport}}" data-attr-href="'/api/export.xlsx?products=' + encodeURIComponent($products.join(',')) + '&start=' + $start + '&end=' + $end">Download Excel</a>
</div>
{{template "table" .}}
</main>
{{range .Charts}}{{if .Script}}<script>{{safeJS .Script}}</script>
{{end}}{{end}}</body>
</html>{{end}}`

var tmpl = template.Must(template.New("dashboard").Funcs(funcs).Parse(
	metricsTmpl + chartsTmpl + tableTmpl + recordCountTmpl + pageTmpl,
))

type pageData struct {
	View
	EchartsScript  string
	DatastarScript string
}

func lookup(name string) *template.Template {
	return tmpl.Lookup(name)
}

// Page is the full dashboard document.
func Page(v View) templ.Component {
	return templ.FromGoHTML(lookup("page"), pageData{
		View:           v,
		EchartsScript:  charts.AssetsHost + "echarts.min.js",
		DatastarScript: DatastarScript,
	})
}

// Metrics is the #metrics card row.
func Metrics(v View) templ.Component {
	return templ.FromGoHTML(lookup("metrics"), v)
}

// Charts is the #charts grid without the init scripts.
func Charts(v View) templ.Component {
	return templ.FromGoHTML(lookup("charts"), v)
}

// Table is the collapsible #table detail view.
func Table(v View) templ.Component {
	return templ.FromGoHTML(lookup("table"), v)
}

func RecordCount(v View) templ.Component {
	return templ.FromGoHTML(lookup("record-count"), v)
}
