package devserver

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"facturador/internal/domain"
)

// WritePDF renders the invoice collection as a one-table PDF.
func WritePDF(w io.Writer, invoices []domain.Invoice) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Facturas registradas")
	pdf.Ln(14)

	headers := []string{"Nro", "Tipo", "Fecha", "Razon social", "CUIT", "Total"}
	widths := []float64{35, 12, 24, 60, 28, 26}

	pdf.SetFont("Arial", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, inv := range invoices {
		cells := []string{
			inv.InvoiceNumber,
			inv.InvoiceType,
			inv.Date,
			inv.IssuerLegalName,
			inv.IssuerTaxID,
			formatTotal(inv.Total),
		}
		for i, v := range cells {
			pdf.CellFormat(widths[i], 8, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

func formatTotal(a domain.Amount) string {
	if a.IsNaN() {
		return ""
	}
	return fmt.Sprintf("%.2f", float64(a))
}
