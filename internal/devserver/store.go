// Package devserver is a development fixture backend: it reproduces the
// production invoice service's wire behavior (extraction stub, pydantic-style
// validation details, duplicate-CUIT conflicts, CSV/PDF export) over an
// in-memory store, so the client can be exercised end to end without real
// infrastructure.
package devserver

import (
	"sync"

	"facturador/internal/domain"
)

// Store keeps invoices in memory, in insertion order.
type Store struct {
	mu       sync.Mutex
	nextID   int64
	invoices []domain.Invoice
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Create assigns an id and appends the invoice.
func (s *Store) Create(inv domain.Invoice) domain.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv.ID = s.nextID
	s.nextID++
	s.invoices = append(s.invoices, inv)
	return inv
}

// List returns a copy of all invoices in insertion order.
func (s *Store) List() []domain.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Invoice, len(s.invoices))
	copy(out, s.invoices)
	return out
}

// Get returns the invoice with the given id.
func (s *Store) Get(id int64) (domain.Invoice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.invoices {
		if inv.ID == id {
			return inv, true
		}
	}
	return domain.Invoice{}, false
}

// Update replaces the invoice with the matching id.
func (s *Store) Update(inv domain.Invoice) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.invoices {
		if s.invoices[i].ID == inv.ID {
			s.invoices[i] = inv
			return true
		}
	}
	return false
}

// Delete removes the invoice with the given id.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.invoices {
		if s.invoices[i].ID == id {
			s.invoices = append(s.invoices[:i], s.invoices[i+1:]...)
			return true
		}
	}
	return false
}

// HasTaxID reports whether another invoice already uses the issuer tax id.
func (s *Store) HasTaxID(taxID string, excludeID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.invoices {
		if inv.ID != excludeID && inv.IssuerTaxID == taxID && taxID != "" {
			return true
		}
	}
	return false
}
