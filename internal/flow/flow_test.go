package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturador/internal/domain"
	"facturador/internal/flow"
)

func TestMachine_StartsOnUpload(t *testing.T) {
	m := flow.New()
	assert.Equal(t, flow.PageUpload, m.Page())
	assert.Nil(t, m.Draft())
	assert.Nil(t, m.Editing())
}

func TestMachine_UploadToResultsToInvoices(t *testing.T) {
	m := flow.New()
	inv := &domain.Invoice{InvoiceNumber: "A-1"}

	require.NoError(t, m.ExtractionSucceeded(inv))
	assert.Equal(t, flow.PageResults, m.Page())
	assert.Same(t, inv, m.Draft())

	require.NoError(t, m.Confirmed())
	assert.Equal(t, flow.PageInvoices, m.Page())
	assert.Nil(t, m.Draft())
}

func TestMachine_CancelReviewDiscardsDraft(t *testing.T) {
	m := flow.New()
	require.NoError(t, m.ExtractionSucceeded(&domain.Invoice{}))

	require.NoError(t, m.ReviewCancelled())
	assert.Equal(t, flow.PageUpload, m.Page())
	assert.Nil(t, m.Draft())
}

func TestMachine_EditCycle(t *testing.T) {
	m := flow.New()
	require.NoError(t, m.ExtractionSucceeded(&domain.Invoice{}))
	require.NoError(t, m.Confirmed())

	inv := &domain.Invoice{ID: 4}
	require.NoError(t, m.EditRequested(inv))
	assert.Equal(t, flow.PageEditing, m.Page())
	assert.Same(t, inv, m.Editing())

	require.NoError(t, m.EditClosed())
	assert.Equal(t, flow.PageInvoices, m.Page())
	assert.Nil(t, m.Editing())
}

func TestMachine_InvalidTransitionsLeaveStateUntouched(t *testing.T) {
	m := flow.New()

	assert.ErrorIs(t, m.Confirmed(), domain.ErrInvalidTransition)
	assert.ErrorIs(t, m.ReviewCancelled(), domain.ErrInvalidTransition)
	assert.ErrorIs(t, m.EditRequested(&domain.Invoice{ID: 1}), domain.ErrInvalidTransition)
	assert.ErrorIs(t, m.EditClosed(), domain.ErrInvalidTransition)
	assert.Equal(t, flow.PageUpload, m.Page())

	require.NoError(t, m.ExtractionSucceeded(&domain.Invoice{}))
	assert.ErrorIs(t, m.ExtractionSucceeded(&domain.Invoice{}), domain.ErrInvalidTransition)
	assert.ErrorIs(t, m.EditClosed(), domain.ErrInvalidTransition)
	assert.Equal(t, flow.PageResults, m.Page())
}

func TestMachine_NilPayloadsAreInvalid(t *testing.T) {
	m := flow.New()
	assert.ErrorIs(t, m.ExtractionSucceeded(nil), domain.ErrInvalidTransition)

	require.NoError(t, m.ExtractionSucceeded(&domain.Invoice{}))
	require.NoError(t, m.Confirmed())
	assert.ErrorIs(t, m.EditRequested(nil), domain.ErrInvalidTransition)
}

func TestMachine_NavigateUploadFromAnywhere(t *testing.T) {
	m := flow.New()
	require.NoError(t, m.ExtractionSucceeded(&domain.Invoice{}))
	require.NoError(t, m.Confirmed())
	require.NoError(t, m.EditRequested(&domain.Invoice{ID: 9}))

	m.NavigateUpload()
	assert.Equal(t, flow.PageUpload, m.Page())
	assert.Nil(t, m.Draft())
	assert.Nil(t, m.Editing())
}
