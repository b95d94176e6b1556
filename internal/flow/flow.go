// Package flow is the navigation state machine between the application's
// pages. It replaces what used to be an ambient current-page variable with
// an explicit object whose transitions are the only way to move.
package flow

import "facturador/internal/domain"

// Page identifies one application view.
type Page string

const (
	PageUpload   Page = "upload"
	PageResults  Page = "results"
	PageInvoices Page = "invoices"
	PageEditing  Page = "editing"
)

// Machine holds the current page and the in-progress extracted invoice. Only
// the transitions below are valid; anything else returns
// domain.ErrInvalidTransition and leaves the machine untouched.
//
//	upload   -> results  extraction succeeded (extracted data becomes the draft)
//	results  -> invoices confirm succeeded (draft discarded)
//	results  -> upload   cancel (draft discarded)
//	invoices -> editing  edit action on one listed invoice
//	editing  -> invoices cancel, or update/delete succeeded
//	any      -> upload   direct navigation (draft discarded)
type Machine struct {
	page    Page
	draft   *domain.Invoice
	editing *domain.Invoice
}

// New creates a machine on the upload page with no draft.
func New() *Machine {
	return &Machine{page: PageUpload}
}

// Page returns the page to render. A results page with no extracted draft
// would render undefined data, so it falls back to the upload view.
func (m *Machine) Page() Page {
	if m.page == PageResults && m.draft == nil {
		return PageUpload
	}
	if m.page == PageEditing && m.editing == nil {
		return PageInvoices
	}
	return m.page
}

// Draft returns the in-progress extracted invoice, or nil outside results.
func (m *Machine) Draft() *domain.Invoice {
	return m.draft
}

// Editing returns the listed invoice currently opened for editing, or nil.
func (m *Machine) Editing() *domain.Invoice {
	return m.editing
}

// ExtractionSucceeded moves upload -> results with the extracted data.
func (m *Machine) ExtractionSucceeded(inv *domain.Invoice) error {
	if m.page != PageUpload || inv == nil {
		return domain.ErrInvalidTransition
	}
	m.page = PageResults
	m.draft = inv
	return nil
}

// Confirmed moves results -> invoices, discarding the draft.
func (m *Machine) Confirmed() error {
	if m.page != PageResults {
		return domain.ErrInvalidTransition
	}
	m.page = PageInvoices
	m.draft = nil
	return nil
}

// ReviewCancelled moves results -> upload, discarding the draft.
func (m *Machine) ReviewCancelled() error {
	if m.page != PageResults {
		return domain.ErrInvalidTransition
	}
	m.page = PageUpload
	m.draft = nil
	return nil
}

// EditRequested moves invoices -> editing for one listed invoice.
func (m *Machine) EditRequested(inv *domain.Invoice) error {
	if m.page != PageInvoices || inv == nil {
		return domain.ErrInvalidTransition
	}
	m.page = PageEditing
	m.editing = inv
	return nil
}

// EditClosed moves editing -> invoices, on cancel or after a successful
// update or delete.
func (m *Machine) EditClosed() error {
	if m.page != PageEditing {
		return domain.ErrInvalidTransition
	}
	m.page = PageInvoices
	m.editing = nil
	return nil
}

// NavigateUpload jumps to the upload page from anywhere, discarding any
// in-progress invoice.
func (m *Machine) NavigateUpload() {
	m.page = PageUpload
	m.draft = nil
	m.editing = nil
}
