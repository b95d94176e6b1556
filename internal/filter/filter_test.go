package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"facturador/internal/domain"
	"facturador/internal/filter"
)

func sample() []domain.Invoice {
	return []domain.Invoice{
		{ID: 1, InvoiceNumber: "0001-00000001", IssuerLegalName: "Distribuidora El Sol S.A.", Date: "01/05/2024"},
		{ID: 2, InvoiceNumber: "0001-00000002", IssuerLegalName: "Librería Central SRL", Date: "15/05/2024"},
		{ID: 3, InvoiceNumber: "0002-00000099", IssuerLegalName: "El Sol Insumos", Date: "1/6/2024"},
	}
}

func TestApply_EmptyCriteriaReturnsAll(t *testing.T) {
	got := filter.Apply(sample(), filter.Criteria{})
	assert.Len(t, got, 3)
}

func TestApply_SearchMatchesNumberOrNameCaseInsensitive(t *testing.T) {
	got := filter.Apply(sample(), filter.Criteria{Search: "el sol"})
	assert.Len(t, got, 2)

	got = filter.Apply(sample(), filter.Criteria{Search: "0002-"})
	assert.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestApply_DateExactEquality(t *testing.T) {
	got := filter.Apply(sample(), filter.Criteria{Date: "2024-05-01"})
	assert.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	// Unpadded stored date still normalizes and matches.
	got = filter.Apply(sample(), filter.Criteria{Date: "2024-06-01"})
	assert.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestApply_PredicatesCombineWithAND(t *testing.T) {
	got := filter.Apply(sample(), filter.Criteria{Search: "el sol", Date: "2024-05-15"})
	assert.Empty(t, got)

	got = filter.Apply(sample(), filter.Criteria{Search: "0001", Provider: "distribuidora"})
	assert.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestApply_DoesNotMutateSource(t *testing.T) {
	src := sample()
	_ = filter.Apply(src, filter.Criteria{Search: "librería"})
	assert.Equal(t, sample(), src)
}

func TestApply_PreservesInputOrder(t *testing.T) {
	got := filter.Apply(sample(), filter.Criteria{Search: "el sol"})
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestISODate(t *testing.T) {
	assert.Equal(t, "2024-05-01", filter.ISODate("01/05/2024"))
	assert.Equal(t, "2024-06-01", filter.ISODate("1/6/2024"))
	assert.Equal(t, "", filter.ISODate("2024-05-01"))
	assert.Equal(t, "", filter.ISODate(""))
	assert.Equal(t, "", filter.ISODate("mayo"))
}

func TestApply_MalformedDateNeverMatches(t *testing.T) {
	invoices := []domain.Invoice{{ID: 1, Date: "sin fecha"}}
	got := filter.Apply(invoices, filter.Criteria{Date: "2024-05-01"})
	assert.Empty(t, got)
}
