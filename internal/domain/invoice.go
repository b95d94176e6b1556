package domain

// LineItem is one row of an invoice's itemized detail.
type LineItem struct {
	Description string `json:"description"`
	Quantity    Amount `json:"quantity"`
	Subtotal    Amount `json:"subtotal"`
}

// Invoice is an invoice as it travels on the wire. ID is zero until the
// backend has persisted the record; the backend, not the client, enforces
// that Total equals the sum of the line item subtotals.
type Invoice struct {
	ID              int64      `json:"id,omitempty"`
	InvoiceType     string     `json:"invoiceType"`
	IssuerLegalName string     `json:"issuerLegalName"`
	IssuerTaxID     string     `json:"issuerTaxId"`
	InvoiceNumber   string     `json:"invoiceNumber"`
	Date            string     `json:"date"`
	LineItems       []LineItem `json:"lineItems"`
	Total           Amount     `json:"total"`
}

// Field names as they appear on the wire and as keys in field-error maps.
const (
	FieldInvoiceType     = "invoiceType"
	FieldIssuerLegalName = "issuerLegalName"
	FieldIssuerTaxID     = "issuerTaxId"
	FieldInvoiceNumber   = "invoiceNumber"
	FieldDate            = "date"
	FieldTotal           = "total"

	ItemFieldDescription = "description"
	ItemFieldQuantity    = "quantity"
	ItemFieldSubtotal    = "subtotal"
)
