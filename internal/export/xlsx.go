package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"budgetbuddy/internal/domain"
)

const (
	expensesSheet = "Expenses"
	summarySheet  = "Summary"
	amountNumFmt  = 2 // 0.00
)

// WriteXLSX writes a workbook with an Expenses sheet and, when summary is
// non-nil, a Summary sheet with per-category totals.
func WriteXLSX(w io.Writer, expenses []domain.Expense, summary *domain.ExpenseSummary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", expensesSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: amountNumFmt})
	if err != nil {
		return fmt.Errorf("creating amount style: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := writeRow(f, expensesSheet, 1, header); err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(expensesSheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i := range expenses {
		e := &expenses[i]
		row := []interface{}{
			e.SpentOn.Format(domain.DateLayout),
			e.Description,
			string(e.Category),
			e.Vendor,
			e.Amount.InexactFloat64(),
			string(e.Source),
			e.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writeRow(f, expensesSheet, i+2, row); err != nil {
			return err
		}
	}
	if len(expenses) > 0 {
		last := fmt.Sprintf("E%d", len(expenses)+1)
		if err := f.SetCellStyle(expensesSheet, "E2", last, amountStyle); err != nil {
			return fmt.Errorf("styling amounts: %w", err)
		}
	}
	if err := f.SetColWidth(expensesSheet, "A", "A", 12); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}
	if err := f.SetColWidth(expensesSheet, "B", "D", 28); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}

	if summary != nil {
		if err := writeSummarySheet(f, summary, headerStyle, amountStyle); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, summary *domain.ExpenseSummary, headerStyle, amountStyle int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}
	if err := writeRow(f, summarySheet, 1, []interface{}{"Category", "Count", "Total"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "C1", headerStyle); err != nil {
		return fmt.Errorf("styling summary header: %w", err)
	}

	row := 2
	for _, t := range summary.ByCategory {
		if err := writeRow(f, summarySheet, row, []interface{}{string(t.Category), t.Count, t.Total.InexactFloat64()}); err != nil {
			return err
		}
		row++
	}
	if err := writeRow(f, summarySheet, row, []interface{}{"Total", summary.Count, summary.Total.InexactFloat64()}); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "C2", fmt.Sprintf("C%d", row), amountStyle); err != nil {
		return fmt.Errorf("styling summary totals: %w", err)
	}
	return f.SetColWidth(summarySheet, "A", "A", 20)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
