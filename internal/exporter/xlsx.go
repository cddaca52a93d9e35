package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
)

const sheetName = "Sales"

// XLSX builds a single-sheet workbook with the same columns as the CSV
// export. Amounts stay numeric and carry a currency number format.
func XLSX(records []models.Transaction) ([]byte, error) {
	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	if err := wb.SetSheetName(wb.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	currencyFormat := "$#,##0.00"
	amountStyle, err := wb.NewStyle(&excelize.Style{CustomNumFmt: &currencyFormat})
	if err != nil {
		return nil, fmt.Errorf("create amount style: %w", err)
	}

	for i, name := range Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := wb.SetCellValue(sheetName, cell, name); err != nil {
			return nil, err
		}
	}
	if err := wb.SetCellStyle(sheetName, "A1", "C1", headerStyle); err != nil {
		return nil, err
	}

	for i, tx := range records {
		row := i + 2
		if err := wb.SetCellValue(sheetName, fmt.Sprintf("A%d", row), FormatTimestamp(tx.Date)); err != nil {
			return nil, err
		}
		if err := wb.SetCellValue(sheetName, fmt.Sprintf("B%d", row), tx.Product); err != nil {
			return nil, err
		}
		if err := wb.SetCellValue(sheetName, fmt.Sprintf("C%d", row), tx.Amount); err != nil {
			return nil, err
		}
	}
	if len(records) > 0 {
		last := fmt.Sprintf("C%d", len(records)+1)
		if err := wb.SetCellStyle(sheetName, "C2", last, amountStyle); err != nil {
			return nil, err
		}
	}

	if err := wb.SetColWidth(sheetName, "A", "A", 18); err != nil {
		return nil, err
	}
	if err := wb.SetColWidth(sheetName, "B", "B", 24); err != nil {
		return nil, err
	}
	if err := wb.SetColWidth(sheetName, "C", "C", 14); err != nil {
		return nil, err
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
