// Package session orchestrates the digitization workflow: upload a
// document, review the extracted fields, confirm, then browse, edit, delete
// and export the stored collection. Each user-initiated request sets a
// loading flag for its own control until the response resolves; there is no
// cross-control de-duplication, no retry, and no cancellation of a request
// already sent.
package session

import (
	"context"
	"fmt"
	"io"
	"log"

	"facturador/internal/domain"
	"facturador/internal/filter"
	"facturador/internal/flow"
	"facturador/internal/form"
	"facturador/internal/port"
)

// Session owns the page flow, the single in-progress form controller, the
// fetched invoice collection and the filter criteria.
type Session struct {
	api  port.InvoiceAPI
	flow *flow.Machine
	form *form.Controller

	invoices []domain.Invoice
	criteria filter.Criteria

	uploading bool
	fetching  bool
	deleting  bool
	exporting bool
}

// New creates a session starting on the upload page.
func New(api port.InvoiceAPI) *Session {
	return &Session{api: api, flow: flow.New()}
}

// Page returns the page the UI should render.
func (s *Session) Page() flow.Page {
	return s.flow.Page()
}

// Form returns the controller for the invoice under review or edit, or nil.
func (s *Session) Form() *form.Controller {
	return s.form
}

// UploadAndExtract sends the document to the extraction service and, on
// success, moves to the results page with the extracted fields loaded into a
// fresh form controller.
func (s *Session) UploadAndExtract(ctx context.Context, filename string, r io.Reader) error {
	if s.uploading {
		return domain.ErrRequestInFlight
	}
	s.uploading = true
	defer func() { s.uploading = false }()

	inv, err := s.api.Upload(ctx, filename, r)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", filename, err)
	}
	if err := s.flow.ExtractionSucceeded(inv); err != nil {
		return err
	}
	s.form = form.NewController(s.api, *inv)
	log.Printf("session.Session: extracted %s with %d line item(s)", filename, len(inv.LineItems))
	return nil
}

// ConfirmDraft submits the reviewed draft. On success the draft is discarded,
// the flow moves to the invoices page and the collection is re-fetched. On
// failure the form controller keeps the field errors for rendering and the
// user may correct and confirm again.
func (s *Session) ConfirmDraft(ctx context.Context) error {
	if s.flow.Page() != flow.PageResults || s.form == nil {
		return domain.ErrNoDraft
	}
	if err := s.form.Submit(ctx); err != nil {
		return err
	}
	if err := s.flow.Confirmed(); err != nil {
		return err
	}
	s.form = nil
	return s.RefreshInvoices(ctx)
}

// CancelReview discards the in-progress draft and returns to upload.
func (s *Session) CancelReview() error {
	if err := s.flow.ReviewCancelled(); err != nil {
		return err
	}
	s.form = nil
	return nil
}

// NavigateUpload jumps to the upload page, discarding any in-progress work.
func (s *Session) NavigateUpload() {
	s.flow.NavigateUpload()
	s.form = nil
}

// RefreshInvoices re-fetches the full collection from the backend. On
// failure the local collection is cleared rather than left stale.
func (s *Session) RefreshInvoices(ctx context.Context) error {
	if s.fetching {
		return domain.ErrRequestInFlight
	}
	s.fetching = true
	defer func() { s.fetching = false }()

	invoices, err := s.api.List(ctx)
	if err != nil {
		s.invoices = nil
		return fmt.Errorf("loading invoices: %w", err)
	}
	s.invoices = invoices
	return nil
}

// Invoices returns the last fetched collection, in backend order.
func (s *Session) Invoices() []domain.Invoice {
	return s.invoices
}

// SetCriteria replaces the filter inputs.
func (s *Session) SetCriteria(c filter.Criteria) {
	s.criteria = c
}

// Filtered recomputes the filtered view from the full collection.
func (s *Session) Filtered() []domain.Invoice {
	return filter.Apply(s.invoices, s.criteria)
}

// OpenEditor moves to the editing page for one listed invoice. The invoice
// is taken from the fetched collection; an id not in the list falls back to
// a direct fetch.
func (s *Session) OpenEditor(ctx context.Context, id int64) error {
	var target *domain.Invoice
	for i := range s.invoices {
		if s.invoices[i].ID == id {
			inv := s.invoices[i]
			target = &inv
			break
		}
	}
	if target == nil {
		inv, err := s.api.Get(ctx, id)
		if err != nil {
			return err
		}
		target = inv
	}
	if err := s.flow.EditRequested(target); err != nil {
		return err
	}
	s.form = form.NewController(s.api, *target)
	return nil
}

// CloseEditor abandons the edit and returns to the invoices page.
func (s *Session) CloseEditor() error {
	if err := s.flow.EditClosed(); err != nil {
		return err
	}
	s.form = nil
	return nil
}

// SaveEdits submits the edited invoice. On success the editor closes and the
// collection is re-fetched; on failure the editor stays open with the field
// errors rendered.
func (s *Session) SaveEdits(ctx context.Context) error {
	if s.flow.Page() != flow.PageEditing || s.form == nil {
		return domain.ErrNoDraft
	}
	if err := s.form.Submit(ctx); err != nil {
		return err
	}
	if err := s.flow.EditClosed(); err != nil {
		return err
	}
	s.form = nil
	return s.RefreshInvoices(ctx)
}

// DeleteInvoice deletes one stored invoice. Local state changes only after
// the backend acknowledges: the collection is re-fetched, and if the deleted
// invoice was open in the editor the editor closes.
func (s *Session) DeleteInvoice(ctx context.Context, id int64) error {
	if s.deleting {
		return domain.ErrRequestInFlight
	}
	s.deleting = true
	defer func() { s.deleting = false }()

	if err := s.api.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting invoice %d: %w", id, err)
	}
	if editing := s.flow.Editing(); editing != nil && editing.ID == id {
		if err := s.flow.EditClosed(); err != nil {
			return err
		}
		s.form = nil
	}
	return s.RefreshInvoices(ctx)
}

// Export streams the backend export of the stored collection into w.
func (s *Session) Export(ctx context.Context, format string, w io.Writer) error {
	if s.exporting {
		return domain.ErrRequestInFlight
	}
	s.exporting = true
	defer func() { s.exporting = false }()
	return s.api.Export(ctx, format, w)
}
