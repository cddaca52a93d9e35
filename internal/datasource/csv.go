package datasource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
)

const (
	batchSize  = 10000
	maxWorkers = 10
)

var dateLayouts = []string{
	models.TimestampLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	models.DateLayout,
}

// CSV loads transactions from a file with a date,product,amount header.
// Rows that fail to parse are skipped.
type CSV struct {
	path   string
	logger *slog.Logger
}

func NewCSV(path string, logger *slog.Logger) *CSV {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSV{path: path, logger: logger}
}

func (c *CSV) Load(ctx context.Context) ([]models.Transaction, error) {
	file, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	start := time.Now()
	records, skipped, err := ReadCSV(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}

	c.logger.Info("csv source loaded",
		"path", c.path,
		"records", len(records),
		"skipped", skipped,
		"duration", time.Since(start),
	)
	return records, nil
}

// ReadCSV parses transactions from r in batches, returning the valid records
// sorted by date and the number of rows skipped.
func ReadCSV(ctx context.Context, r io.Reader) ([]models.Transaction, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, 0, err
	}

	var (
		records []models.Transaction
		skipped int
	)
	batch := make([][]string, 0, batchSize)

	flush := func() error {
		parsed, bad, err := parseBatch(ctx, batch, cols)
		if err != nil {
			return err
		}
		records = append(records, parsed...)
		skipped += bad
		batch = batch[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				continue
			}
			return nil, 0, fmt.Errorf("scan error: %w", err)
		}

		batch = append(batch, row)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return nil, 0, err
			}
		}
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return nil, 0, err
		}
	}

	if len(records) == 0 {
		return nil, skipped, ErrNoRecords
	}

	sortRecords(records)
	return records, skipped, nil
}

type columns struct {
	date, product, amount int
}

func columnIndex(header []string) (columns, error) {
	cols := columns{date: -1, product: -1, amount: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "date", "fecha":
			cols.date = i
		case "product", "producto":
			cols.product = i
		case "amount", "ventas", "sales":
			cols.amount = i
		}
	}
	if cols.date < 0 || cols.product < 0 || cols.amount < 0 {
		return cols, fmt.Errorf("header must contain date, product and amount columns, got %v", header)
	}
	return cols, nil
}

// parseBatch parses rows concurrently; results keep the batch order.
func parseBatch(ctx context.Context, batch [][]string, cols columns) ([]models.Transaction, int, error) {
	parsed := make([]models.Transaction, len(batch))
	valid := make([]bool, len(batch))

	var g errgroup.Group
	g.SetLimit(maxWorkers)

	chunk := (len(batch) + maxWorkers - 1) / maxWorkers
	for lo := 0; lo < len(batch); lo += chunk {
		hi := min(lo+chunk, len(batch))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				tx, err := parseRow(batch[i], cols)
				if err != nil {
					continue
				}
				parsed[i] = tx
				valid[i] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	out := make([]models.Transaction, 0, len(batch))
	bad := 0
	for i, ok := range valid {
		if !ok {
			bad++
			continue
		}
		out = append(out, parsed[i])
	}
	return out, bad, nil
}

func parseRow(row []string, cols columns) (models.Transaction, error) {
	if len(row) <= max(cols.date, cols.product, cols.amount) {
		return models.Transaction{}, fmt.Errorf("insufficient columns")
	}

	date, err := ParseTimestamp(row[cols.date])
	if err != nil {
		return models.Transaction{}, err
	}

	product := strings.TrimSpace(row[cols.product])
	if product == "" {
		return models.Transaction{}, fmt.Errorf("empty product")
	}

	amount, err := ParseAmount(row[cols.amount])
	if err != nil {
		return models.Transaction{}, err
	}
	if amount <= 0 {
		return models.Transaction{}, fmt.Errorf("amount must be positive, got %v", amount)
	}

	return models.Transaction{Date: date, Product: product, Amount: amount}, nil
}

// ParseTimestamp accepts the export layout, plain dates and RFC 3339.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseAmount accepts plain numbers and currency strings such as "$1,234.50".
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount: %w", err)
	}
	return v, nil
}
