// Package form owns the single invoice being reviewed or edited. The
// controller holds the edit buffer, applies one-field-at-a-time updates, and
// drives submission through the normalizer.
package form

import (
	"context"
	"errors"
	"fmt"

	"facturador/internal/client"
	"facturador/internal/domain"
	"facturador/internal/normalize"
	"facturador/internal/port"
)

// GenericFailureNotice is shown when a submission fails with no field-level
// detail to render.
const GenericFailureNotice = "No se pudo registrar la factura"

// Controller holds one in-progress invoice draft. It is the sole owner of
// the draft: all edits flow through SetField and SetLineItem.
type Controller struct {
	api         port.InvoiceSubmitter
	draft       domain.InvoiceDraft
	fieldErrors map[string]string
	notice      string
	submitting  bool
}

// NewController builds a controller around extracted or persisted invoice
// data. A non-zero invoice ID makes Submit update instead of create.
func NewController(api port.InvoiceSubmitter, inv domain.Invoice) *Controller {
	return &Controller{
		api:         api,
		draft:       domain.DraftFromInvoice(inv),
		fieldErrors: map[string]string{},
	}
}

// Draft returns a copy of the current edit buffer.
func (c *Controller) Draft() domain.InvoiceDraft {
	return c.draft.Clone()
}

// SetField replaces exactly one top-level field. The field name must be one
// of the domain.Field* constants; anything else is a programming error.
// Changing a field clears any stale error shown under it.
func (c *Controller) SetField(name, value string) {
	switch name {
	case domain.FieldInvoiceType:
		c.draft.InvoiceType = value
	case domain.FieldIssuerLegalName:
		c.draft.IssuerLegalName = value
	case domain.FieldIssuerTaxID:
		c.draft.IssuerTaxID = value
	case domain.FieldInvoiceNumber:
		c.draft.InvoiceNumber = value
	case domain.FieldDate:
		c.draft.Date = value
	case domain.FieldTotal:
		c.draft.Total = value
	default:
		panic(fmt.Sprintf("form: unknown invoice field %q", name))
	}
	delete(c.fieldErrors, name)
}

// SetLineItem replaces exactly one field of one line item. An out-of-bounds
// index or unknown item field is a programming error, not user input.
func (c *Controller) SetLineItem(index int, field, value string) {
	if index < 0 || index >= len(c.draft.LineItems) {
		panic(fmt.Sprintf("form: line item index %d out of range [0,%d)", index, len(c.draft.LineItems)))
	}
	switch field {
	case domain.ItemFieldDescription:
		c.draft.LineItems[index].Description = value
	case domain.ItemFieldQuantity:
		c.draft.LineItems[index].Quantity = value
	case domain.ItemFieldSubtotal:
		c.draft.LineItems[index].Subtotal = value
	default:
		panic(fmt.Sprintf("form: unknown line item field %q", field))
	}
	delete(c.fieldErrors, fmt.Sprintf("lineItems.%d.%s", index, field))
}

// Submit normalizes the draft and sends it to the backend: POST for a new
// invoice, PUT when the draft carries an ID. Prior errors are cleared at the
// start of every attempt; on failure the translator's output is stored for
// rendering and the error is returned. Resubmission is always permitted.
func (c *Controller) Submit(ctx context.Context) error {
	if c.submitting {
		return domain.ErrRequestInFlight
	}
	c.submitting = true
	defer func() { c.submitting = false }()

	c.fieldErrors = map[string]string{}
	c.notice = ""

	payload := normalize.Payload(c.draft)
	var err error
	if payload.ID != 0 {
		err = c.api.Update(ctx, &payload)
	} else {
		err = c.api.Create(ctx, &payload)
	}
	if err == nil {
		return nil
	}

	var vErr *client.ValidationError
	var cErr *client.ConflictError
	switch {
	case errors.As(err, &vErr):
		for field, msg := range vErr.Fields {
			c.fieldErrors[field] = msg
		}
		if len(c.fieldErrors) == 0 {
			c.notice = GenericFailureNotice
		}
	case errors.As(err, &cErr):
		c.fieldErrors[cErr.Field] = cErr.Message
	default:
		c.notice = GenericFailureNotice
	}
	return err
}

// FieldErrors returns a copy of the per-field error map from the last
// failed submission.
func (c *Controller) FieldErrors() map[string]string {
	out := make(map[string]string, len(c.fieldErrors))
	for k, v := range c.fieldErrors {
		out[k] = v
	}
	return out
}

// Notice returns the generic failure notification, if any.
func (c *Controller) Notice() string {
	return c.notice
}

// Submitting reports whether a submission is currently in flight; the
// confirm control stays disabled while it is.
func (c *Controller) Submitting() bool {
	return c.submitting
}
