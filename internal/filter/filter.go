// Package filter derives a view of the fetched invoice collection from
// three independent predicates combined with AND. Filtering is pure: the
// source slice is never mutated.
package filter

import (
	"strings"

	"facturador/internal/domain"
)

// Criteria holds the three filter inputs. An empty value makes that
// predicate match everything.
type Criteria struct {
	// Search matches case-insensitively against invoice number or legal name.
	Search string
	// Date is an ISO YYYY-MM-DD value compared for exact equality against
	// the invoice's normalized date.
	Date string
	// Provider matches case-insensitively against legal name only.
	Provider string
}

// Apply returns the invoices matching every set predicate, in input order.
func Apply(invoices []domain.Invoice, c Criteria) []domain.Invoice {
	out := make([]domain.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if matches(&inv, c) {
			out = append(out, inv)
		}
	}
	return out
}

func matches(inv *domain.Invoice, c Criteria) bool {
	if c.Search != "" {
		if !containsFold(inv.InvoiceNumber, c.Search) && !containsFold(inv.IssuerLegalName, c.Search) {
			return false
		}
	}
	if c.Date != "" && ISODate(inv.Date) != c.Date {
		return false
	}
	if c.Provider != "" && !containsFold(inv.IssuerLegalName, c.Provider) {
		return false
	}
	return true
}

// ISODate normalizes a stored DD/MM/YYYY date to YYYY-MM-DD, zero-padding
// day and month. A missing or malformed date yields "", which never equals
// a non-empty filter value.
func ISODate(stored string) string {
	parts := strings.Split(stored, "/")
	if len(parts) != 3 {
		return ""
	}
	day, month, year := parts[0], parts[1], parts[2]
	return year + "-" + pad2(month) + "-" + pad2(day)
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
