// Package exporter serializes filtered transactions for download.
package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"sales-dashboard/internal/models"
)

const (
	MIMECSV  = "text/csv; charset=utf-8"
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var Header = []string{"date", "product", "amount"}

// FormatAmount renders an amount as currency with two decimals, e.g. $1,234.50.
func FormatAmount(amount float64) string {
	if amount < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -amount)
	}
	return "$" + humanize.FormatFloat("#,###.##", amount)
}

func FormatTimestamp(t time.Time) string {
	return t.Format(models.TimestampLayout)
}

// WriteCSV writes a header row and one row per record, in input order.
func WriteCSV(w io.Writer, records []models.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, tx := range records {
		row := []string{FormatTimestamp(tx.Date), tx.Product, FormatAmount(tx.Amount)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV returns the UTF-8 encoded export of records.
func CSV(records []models.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName is the download name for an export taken at now,
// e.g. sales_report_20240131.csv.
func FileName(now time.Time, ext string) string {
	return fmt.Sprintf("sales_report_%s.%s", now.Format("20060102"), ext)
}
