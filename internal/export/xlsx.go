package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"facturador/internal/domain"
)

// XLSXBytes returns an XLSX workbook (as bytes) with one sheet of invoices
// and one sheet of their line items.
func XLSXBytes(invoices []domain.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	const invoiceSheet = "Invoices"
	const itemSheet = "Line Items"

	index, err := f.NewSheet(invoiceSheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	if _, err := f.NewSheet(itemSheet); err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	// Drop the default sheet excelize creates.
	_ = f.DeleteSheet("Sheet1")

	if err := writeRow(f, invoiceSheet, 1, []any{
		"ID", "Invoice Number", "Invoice Type", "Date", "Issuer Legal Name", "Issuer Tax ID", "Total",
	}); err != nil {
		return nil, err
	}
	if err := writeRow(f, itemSheet, 1, []any{
		"Invoice ID", "Item", "Description", "Quantity", "Subtotal",
	}); err != nil {
		return nil, err
	}

	itemRow := 2
	for i := range invoices {
		inv := &invoices[i]
		if err := writeRow(f, invoiceSheet, i+2, []any{
			inv.ID, inv.InvoiceNumber, inv.InvoiceType, inv.Date,
			inv.IssuerLegalName, inv.IssuerTaxID, amountCell(inv.Total),
		}); err != nil {
			return nil, err
		}
		for j, it := range inv.LineItems {
			if err := writeRow(f, itemSheet, itemRow, []any{
				inv.ID, j + 1, it.Description, amountCell(it.Quantity), amountCell(it.Subtotal),
			}); err != nil {
				return nil, err
			}
			itemRow++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("setting %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// amountCell keeps NaN out of the workbook; excelize cannot store it.
func amountCell(a domain.Amount) any {
	if a.IsNaN() {
		return ""
	}
	return float64(a)
}
