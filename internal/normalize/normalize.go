// Package normalize converts form-originated invoice drafts into the
// canonical payload shape the backend accepts. It never rejects input: a
// value that cannot be coerced to a number becomes NaN and is forwarded for
// the backend to refuse.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"facturador/internal/domain"
)

// Payload transforms a draft into the backend payload: text fields trimmed,
// the issuer tax id reduced to its digits, and every numeric field coerced.
// It is idempotent: normalizing the draft of an already-normalized payload
// yields an identical payload.
func Payload(d domain.InvoiceDraft) domain.Invoice {
	items := make([]domain.LineItem, len(d.LineItems))
	for i, it := range d.LineItems {
		items[i] = domain.LineItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    Number(it.Quantity),
			Subtotal:    Number(it.Subtotal),
		}
	}
	return domain.Invoice{
		ID:              d.ID,
		InvoiceType:     strings.TrimSpace(d.InvoiceType),
		IssuerLegalName: strings.TrimSpace(d.IssuerLegalName),
		IssuerTaxID:     Digits(d.IssuerTaxID),
		InvoiceNumber:   strings.TrimSpace(d.InvoiceNumber),
		Date:            strings.TrimSpace(d.Date),
		LineItems:       items,
		Total:           Number(d.Total),
	}
}

// Number coerces a form value: an empty or all-whitespace string is 0,
// anything unparseable is NaN.
func Number(s string) domain.Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.Amount(math.NaN())
	}
	return domain.Amount(f)
}

// Digits strips every non-digit rune, removing the dashes and spaces a tax
// id is usually typed with.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
