package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"facturador/internal/domain"
)

// MockInvoiceAPI is a mock implementation of port.InvoiceAPI.
type MockInvoiceAPI struct {
	mock.Mock
}

func (m *MockInvoiceAPI) Upload(ctx context.Context, filename string, r io.Reader) (*domain.Invoice, error) {
	args := m.Called(ctx, filename, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceAPI) Create(ctx context.Context, inv *domain.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceAPI) List(ctx context.Context) ([]domain.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceAPI) Get(ctx context.Context, id int64) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceAPI) Update(ctx context.Context, inv *domain.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceAPI) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceAPI) Export(ctx context.Context, format string, w io.Writer) error {
	args := m.Called(ctx, format, w)
	return args.Error(0)
}
