package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sales-dashboard/internal/exporter"
)

const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

func newExportCmd(c *cli) *cobra.Command {
	var (
		filters filterFlags
		format  string
		out     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered records to CSV or Excel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filters.productsSet = cmd.Flags().Changed("products")
			return c.export(cmd, filters, format, out)
		},
	}

	cmd.Flags().StringVar(&filters.products, "products", "", "comma separated products (default all)")
	cmd.Flags().StringVar(&filters.start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&filters.end, "end", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVarP(&format, "format", "f", formatCSV, "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout (default sales_report_<date>.<format>)")

	return cmd
}

func (c *cli) export(cmd *cobra.Command, filters filterFlags, format, out string) error {
	var build func() ([]byte, error)

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
	records := a.analytics.Filtered(criteria)

	switch format {
	case formatCSV:
		build = func() ([]byte, error) { return exporter.CSV(records) }
	case formatXLSX:
		build = func() ([]byte, error) { return exporter.XLSX(records) }
	default:
		return fmt.Errorf("unknown export format %q", format)
	}

	body, err := build()
	if err != nil {
		return fmt.Errorf("build %s export: %w", format, err)
	}

	if out == "" {
		out = exporter.FileName(time.Now(), format)
	}
	if err := writeOutput(cmd.OutOrStdout(), out, body); err != nil {
		return err
	}

	c.logger.Info("export written",
		"format", format,
		"records", len(records),
		"out", out,
	)
	return nil
}

func writeOutput(stdout io.Writer, path string, body []byte) error {
	if path == "-" {
		_, err := stdout.Write(body)
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
