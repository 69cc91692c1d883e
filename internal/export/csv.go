package export

import (
	"encoding/csv"
	"io"
	"time"

	"budgetbuddy/internal/domain"
)

// BOM is the UTF-8 byte order mark, written first so Excel on Windows
// detects the encoding.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the header row shared by CSV and XLSX exports.
var columns = []string{
	"Date",
	"Description",
	"Category",
	"Vendor",
	"Amount",
	"Source",
	"Created At",
}

// CSVWriter wraps csv.Writer for exporting expenses.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteExpenses converts a batch of expenses to rows and writes them.
func (w *CSVWriter) WriteExpenses(expenses []domain.Expense) error {
	for i := range expenses {
		if err := w.csv.Write(expenseToRow(&expenses[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

func expenseToRow(e *domain.Expense) []string {
	return []string{
		e.SpentOn.Format(domain.DateLayout),
		e.Description,
		string(e.Category),
		e.Vendor,
		e.Amount.StringFixed(2),
		string(e.Source),
		e.CreatedAt.UTC().Format(time.RFC3339),
	}
}
