package domain

// LineItemDraft is the edit buffer for a single line item. Every field is
// text, exactly as it sits in a form input.
type LineItemDraft struct {
	Description string
	Quantity    string
	Subtotal    string
}

// InvoiceDraft is the loosely-typed edit buffer for an in-progress invoice.
// It is built from extracted or persisted data, mutated one field at a time,
// and turned back into a canonical Invoice by the normalizer on submit.
type InvoiceDraft struct {
	ID              int64
	InvoiceType     string
	IssuerLegalName string
	IssuerTaxID     string
	InvoiceNumber   string
	Date            string
	LineItems       []LineItemDraft
	Total           string
}

// DraftFromInvoice builds an edit buffer from an invoice. Numeric values are
// rendered with their shortest exact decimal form; a NaN renders as "NaN" and
// will coerce back to NaN on submit.
func DraftFromInvoice(inv Invoice) InvoiceDraft {
	items := make([]LineItemDraft, len(inv.LineItems))
	for i, it := range inv.LineItems {
		items[i] = LineItemDraft{
			Description: it.Description,
			Quantity:    it.Quantity.String(),
			Subtotal:    it.Subtotal.String(),
		}
	}
	return InvoiceDraft{
		ID:              inv.ID,
		InvoiceType:     inv.InvoiceType,
		IssuerLegalName: inv.IssuerLegalName,
		IssuerTaxID:     inv.IssuerTaxID,
		InvoiceNumber:   inv.InvoiceNumber,
		Date:            inv.Date,
		LineItems:       items,
		Total:           inv.Total.String(),
	}
}

// Clone returns a deep copy of the draft.
func (d InvoiceDraft) Clone() InvoiceDraft {
	out := d
	out.LineItems = make([]LineItemDraft, len(d.LineItems))
	copy(out.LineItems, d.LineItems)
	return out
}
