package port

import (
	"context"
	"io"

	"facturador/internal/domain"
)

// InvoiceSubmitter is the slice of the backend contract the form controller
// needs: persisting a new invoice or replacing an existing one.
type InvoiceSubmitter interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	Update(ctx context.Context, inv *domain.Invoice) error
}

// InvoiceAPI is the full backend contract consumed by the session layer.
type InvoiceAPI interface {
	InvoiceSubmitter

	// Upload sends a document to the extraction service and returns the
	// structured fields it recognized. The result carries no ID.
	Upload(ctx context.Context, filename string, r io.Reader) (*domain.Invoice, error)
	List(ctx context.Context) ([]domain.Invoice, error)
	Get(ctx context.Context, id int64) (*domain.Invoice, error)
	Delete(ctx context.Context, id int64) error

	// Export streams the backend's rendering of the stored collection in
	// the given format ("pdf" or "csv") into w.
	Export(ctx context.Context, format string, w io.Writer) error
}
