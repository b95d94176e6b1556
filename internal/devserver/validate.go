package devserver

import (
	"math"

	"facturador/internal/domain"
	"facturador/internal/filter"
)

// Violation is one entry of the pydantic-style detail array.
type Violation struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

const totalMismatchMsg = "Value error, total no coincide con la suma de subtotales"

func violation(loc []any, msg string) Violation {
	return Violation{Loc: loc, Msg: msg, Type: "value_error"}
}

// validateInvoice reproduces the production backend's validations, including
// the cross-field total-vs-subtotal check reported against ["body"] alone.
func validateInvoice(inv *domain.Invoice) []Violation {
	var out []Violation

	if inv.InvoiceNumber == "" {
		out = append(out, violation([]any{"body", "invoiceNumber"},
			"Value error, el número de factura es obligatorio"))
	}
	if inv.IssuerLegalName == "" {
		out = append(out, violation([]any{"body", "issuerLegalName"},
			"Value error, la razón social es obligatoria"))
	}
	if len(inv.IssuerTaxID) != 11 || !allDigits(inv.IssuerTaxID) {
		out = append(out, violation([]any{"body", "issuerTaxId"},
			"Value error, el CUIT debe tener 11 dígitos"))
	}
	if inv.Date != "" && filter.ISODate(inv.Date) == "" {
		out = append(out, violation([]any{"body", "date"},
			"Value error, la fecha debe tener formato DD/MM/AAAA"))
	}

	sum := 0.0
	itemsNumeric := true
	for i, it := range inv.LineItems {
		switch {
		case it.Quantity.IsNaN():
			out = append(out, violation([]any{"body", "lineItems", i, "quantity"},
				"Value error, la cantidad debe ser un número"))
		case float64(it.Quantity) <= 0:
			out = append(out, violation([]any{"body", "lineItems", i, "quantity"},
				"Value error, la cantidad debe ser positiva"))
		}
		switch {
		case it.Subtotal.IsNaN():
			out = append(out, violation([]any{"body", "lineItems", i, "subtotal"},
				"Value error, el subtotal debe ser un número"))
			itemsNumeric = false
		case float64(it.Subtotal) < 0:
			out = append(out, violation([]any{"body", "lineItems", i, "subtotal"},
				"Value error, el subtotal debe ser positivo"))
		default:
			sum += float64(it.Subtotal)
		}
	}

	if inv.Total.IsNaN() {
		out = append(out, violation([]any{"body", "total"},
			"Value error, el total debe ser un número"))
	} else if itemsNumeric && math.Abs(float64(inv.Total)-sum) > 0.01 {
		out = append(out, violation([]any{"body"}, totalMismatchMsg))
	}

	return out
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
