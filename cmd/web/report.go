package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/ui/templates"
)

func newReportCmd(c *cli) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print metrics and product totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filters.productsSet = cmd.Flags().Changed("products")

			a, err := newApp(c.cfg, c.logger, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.load(cmd.Context()); err != nil {
				return err
			}

			criteria, err := filters.criteria(a.analytics.Catalog())
			if err != nil {
				return err
			}
			if !filters.productsSet && filters.start == "" && filters.end == "" {
				criteria = a.analytics.DefaultCriteria()
			}

			d, err := a.analytics.Dashboard(cmd.Context(), criteria)
			if err != nil {
				return err
			}

			writeReport(cmd.OutOrStdout(), d)
			return nil
		},
	}

	cmd.Flags().StringVar(&filters.products, "products", "", "comma separated products (default all)")
	cmd.Flags().StringVar(&filters.start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&filters.end, "end", "", "last day, YYYY-MM-DD")

	return cmd
}

func writeReport(w io.Writer, d models.Dashboard) {
	period := "all dates"
	if d.Range != nil {
		period = d.Range.Start.Format(models.DateLayout) + " to " + d.Range.End.Format(models.DateLayout)
	}
	fmt.Fprintf(w, "Sales report, %s\n\n", period)

	fmt.Fprintln(w, metricsTable(d).Render())
	fmt.Fprintln(w)
	fmt.Fprintln(w, productTable(d).Render())
}

func metricsTable(d models.Dashboard) table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Metric", "Current", "Prior", "Change"})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	prior := func(f func(models.PeriodMetrics) string) string {
		if d.PriorMetrics == nil {
			return "N/A"
		}
		return f(*d.PriorMetrics)
	}

	tbl.AppendRow(table.Row{
		"Total Sales",
		templates.Currency(d.Metrics.TotalSales),
		prior(func(m models.PeriodMetrics) string { return templates.Currency(m.TotalSales) }),
		templates.PercentDelta(d.Deltas.TotalSales),
	})
	tbl.AppendRow(table.Row{
		"Active Products",
		humanize.Comma(int64(d.Metrics.ActiveProducts)),
		prior(func(m models.PeriodMetrics) string { return humanize.Comma(int64(m.ActiveProducts)) }),
		templates.CountDelta(d.Deltas.ActiveProducts),
	})
	tbl.AppendRow(table.Row{
		"Average Sale",
		templates.CurrencyOrNA(d.Metrics.AverageSale),
		prior(func(m models.PeriodMetrics) string { return templates.CurrencyOrNA(m.AverageSale) }),
		templates.PercentDelta(d.Deltas.AverageSale),
	})
	tbl.AppendFooter(table.Row{"Transactions", humanize.Comma(int64(d.Metrics.Transactions)), "", ""})
	return tbl
}

func productTable(d models.Dashboard) table.Writer {
	shares := make(map[string]float64, len(d.ProductShare))
	for _, s := range d.ProductShare {
		shares[s.Product] = s.Percent
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Product", "Sales", "Share"})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})

	for _, t := range d.ProductTotals {
		tbl.AppendRow(table.Row{t.Product, templates.Currency(t.Amount), fmt.Sprintf("%.2f%%", shares[t.Product])})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d products", len(d.ProductTotals)), templates.Currency(d.Metrics.TotalSales), ""})
	return tbl
}
