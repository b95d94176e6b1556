// Package export renders an invoice collection (usually the filtered view)
// into local CSV and XLSX files.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"facturador/internal/domain"
)

// BOM is the UTF-8 byte order mark, written ahead of CSV output for Excel
// compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"ID",
	"Invoice Number",
	"Invoice Type",
	"Date",
	"Issuer Legal Name",
	"Issuer Tax ID",
	"Line Items",
	"Total",
}

// Writer wraps csv.Writer for exporting invoices as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteInvoices converts a batch of invoices to CSV rows and writes them.
func (w *Writer) WriteInvoices(invoices []domain.Invoice) error {
	for i := range invoices {
		if err := w.csv.Write(invoiceToRow(&invoices[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func invoiceToRow(inv *domain.Invoice) []string {
	row := make([]string, len(columns))
	row[0] = strconv.FormatInt(inv.ID, 10)
	row[1] = inv.InvoiceNumber
	row[2] = inv.InvoiceType
	row[3] = inv.Date
	row[4] = inv.IssuerLegalName
	row[5] = inv.IssuerTaxID
	row[6] = strconv.Itoa(len(inv.LineItems))
	row[7] = formatMoney(inv.Total)
	return row
}

// formatMoney renders an amount with two decimals; a NaN (failed coercion
// that was never corrected) renders empty.
func formatMoney(a domain.Amount) string {
	if a.IsNaN() {
		return ""
	}
	return strconv.FormatFloat(float64(a), 'f', 2, 64)
}
