package session_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"facturador/internal/client"
	"facturador/internal/domain"
	"facturador/internal/filter"
	"facturador/internal/flow"
	"facturador/internal/session"
	"facturador/mocks"
)

func extracted() *domain.Invoice {
	return &domain.Invoice{
		InvoiceType:     "A",
		IssuerLegalName: "Distribuidora El Sol S.A.",
		IssuerTaxID:     "30543211239",
		InvoiceNumber:   "0001-00001234",
		Date:            "02/01/2026",
		LineItems:       []domain.LineItem{{Description: "Resmas A4", Quantity: 3, Subtotal: 4500}},
		Total:           4500,
	}
}

func stored() []domain.Invoice {
	return []domain.Invoice{
		{ID: 1, InvoiceNumber: "0001-00000001", IssuerLegalName: "Distribuidora El Sol S.A.", Date: "01/05/2026"},
		{ID: 2, InvoiceNumber: "0001-00000002", IssuerLegalName: "Librería Central SRL", Date: "15/05/2026"},
	}
}

func upload(t *testing.T, api *mocks.MockInvoiceAPI, sess *session.Session) {
	t.Helper()
	api.On("Upload", mock.Anything, "factura.pdf", mock.Anything).Return(extracted(), nil).Once()
	require.NoError(t, sess.UploadAndExtract(context.Background(), "factura.pdf", strings.NewReader("%PDF")))
}

// reachInvoices walks a session to the invoices page the only way the flow
// allows: upload, review, confirm.
func reachInvoices(t *testing.T, api *mocks.MockInvoiceAPI, sess *session.Session) {
	t.Helper()
	upload(t, api, sess)
	api.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	api.On("List", mock.Anything).Return(stored(), nil).Once()
	require.NoError(t, sess.ConfirmDraft(context.Background()))
}

func TestSession_UploadMovesToResults(t *testing.T) {
	api := &mocks.MockInvoiceAPI{}
	sess := session.New(api)

	upload(t, api, sess)
	assert.Equal(t, flow.PageResults, sess.Page())
	require.NotNil(t, sess.Form())
	assert.Equal(t, "0001-00001234", sess.Form().Draft().InvoiceNumber)
}

func TestSession_UploadFailureStaysOnUpload(t *testing.T) {
	api := &mocks.MockInvoiceAPI{}
	api.On("Upload", mock.Anything, "roto.pdf", mock.Anything).
		Return(nil, &client.TransportError{Status: 500, Message: "boom"})
	sess := session.New(api)

	err := sess.UploadAndExtract(context.Background(), "roto.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, flow.PageUpload, sess.Page())
	assert.Nil(t, sess.Form())
}

func TestSession_ConfirmMovesToInvoicesAndRefreshes(t *testing.T) {
	api := &mocks.MockInvoiceAPI{}
	sess := session.New(api)
	upload(t, api, sess)

	api.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	api.On("List", mock.Anything).Return(stored(), nil).Once()

	require.NoError(t, sess.ConfirmDraft(context.Background()))
	assert.Equal(t, flow.PageInvoices, sess.Page())
	assert.Nil(t, sess.Form())
	assert.Len(t, sess.Invoices(), 2)
	api.AssertExpectations(t)
}

func TestSession_ConfirmFailureKeepsDraftForRetry(t *testing.T) {
	api := &mocks.MockInvoiceAPI{}
	sess := session.New(api)
	upload(t, api, sess)

	api.On("Create", mock.Anything, mock.Anything).Return(&client.ValidationError{
		Fields: map[string]string{domain.FieldTotal: "total no coincide con la suma de subtotales"},
	}).Once()

	require.Error(t, sess.ConfirmDraft(context.Background()))
	assert.Equal(t, flow.PageResults, sess.Page())
	require.NotNil(t, sess.Form())
	assert.Contains(t, sess.Form().FieldErrors(), domain.FieldTotal)

	// Correct and confirm again.
	api.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	api.On("List", mock.Anything).Return(stored(), nil).Once()
	sess.Form().SetField(domain.FieldTotal, "4500")
	require.NoError(t, sess.ConfirmDraft(context.Background()))
	assert.Equal(t, flow.PageInvoices, sess.Page())
}

func TestSession_CancelReviewDiscardsDraft(t *testing.T) {
	api := &mocks.MockInvoiceAPI{}
	sess := session.New(api)
	upload(t, api, sess)

	require.NoError(t, sess.CancelReview())
	assert.Equal(t, flow.PageUpload, sess.Page())
	assert.Nil(t, sess.Form())

	// A fresh upload starts from the extracted data, not the abandoned draft.
	upload(t, api, sess)
	assert.Equal(t, "0001-00001234", sess.Form().Draft().InvoiceNumber)
	api.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSession_ConfirmWithoutDraft(t *testing.T) {
	sess := session.New(&mocks.MockInvoiceAPI{})
	assert.ErrorIs(t, sess.ConfirmDraft(context.Background()), domain.ErrNoDraft)
}

func TestSession_RefreshFailureClearsCollection(t *testing.T) {
	api := &mocks.MockInvoiceAPI{}
	api.On("List", mock.Anything).Return(stored(), nil).Once()
	api.On("List", mock.Anything).Return(nil, &client.TransportError{Message: "down"}).Once()
	sess := session.New(api)

	require.NoError(t, sess.RefreshInvoices(context.Background()))
	assert.Len(t, sess.Invoices(), 2)

	require.Error(t, sess.RefreshInvoices(context.Background()))
	assert.Empty(t, sess.Invoices())
}

func TestSession_FilteredView(t *testing.T) {
	api := &mocks.MockInvoiceAPI{}
	api.On("List", mock.Anything).Return(stored(), nil)
	sess := session.New(api)
	require.NoError(t, sess.RefreshInvoices(context.Background()))

	sess.SetCriteria(filter.Criteria{Provider: "librería"})
	got := sess.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	// The underlying collection is untouched.
	assert.Len(t, sess.Invoices(), 2)
}

func TestSession_OpenEditorFromCollection(t *testing.T) {
	api := &mocks.MockInvoiceAPI{}
	sess := session.New(api)
	reachInvoices(t, api, sess)

	require.NoError(t, sess.OpenEditor(context.Background(), 2))
	assert.Equal(t, flow.PageEditing, sess.Page())
	assert.Equal(t, "0001-00000002", sess.Form().Draft().InvoiceNumber)
	api.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestSession_OpenEditorFallsBackToGet(t *testing.T) {
	api := &mocks.MockInvoiceAPI{}
	sess := session.New(api)
	reachInvoices(t, api, sess)
	api.On("Get", mock.Anything, int64(9)).
		Return(&domain.Invoice{ID: 9, InvoiceNumber: "0009-00000001"}, nil).Once()

	require.NoError(t, sess.OpenEditor(context.Background(), 9))
	assert.Equal(t, "0009-00000001", sess.Form().Draft().InvoiceNumber)
	api.AssertExpectations(t)
}

func TestSession_SaveEditsClosesEditorAndRefreshes(t *testing.T) {
	api := &mocks.MockInvoiceAPI{}
	sess := session.New(api)
	reachInvoices(t, api, sess)
	require.NoError(t, sess.OpenEditor(context.Background(), 1))

	api.On("Update", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.ID == 1 && inv.IssuerLegalName == "Otro Nombre SA"
	})).Return(nil).Once()
	api.On("List", mock.Anything).Return(stored(), nil).Once()

	sess.Form().SetField(domain.FieldIssuerLegalName, "Otro Nombre SA")
	require.NoError(t, sess.SaveEdits(context.Background()))
	assert.Equal(t, flow.PageInvoices, sess.Page())
	assert.Nil(t, sess.Form())
	api.AssertExpectations(t)
}

func TestSession_SaveEditsFailureKeepsEditorOpen(t *testing.T) {
	api := &mocks.MockInvoiceAPI{}
	sess := session.New(api)
	reachInvoices(t, api, sess)
	api.On("Update", mock.Anything, mock.Anything).Return(&client.ConflictError{
		Field:   domain.FieldIssuerTaxID,
		Message: client.DuplicateTaxIDMessage,
	})
	require.NoError(t, sess.OpenEditor(context.Background(), 1))

	require.Error(t, sess.SaveEdits(context.Background()))
	assert.Equal(t, flow.PageEditing, sess.Page())
	assert.Equal(t, client.DuplicateTaxIDMessage, sess.Form().FieldErrors()[domain.FieldIssuerTaxID])
}

func TestSession_DeleteWaitsForAcknowledgement(t *testing.T) {
	api := &mocks.MockInvoiceAPI{}
	api.On("List", mock.Anything).Return(stored(), nil).Once()
	sess := session.New(api)
	require.NoError(t, sess.RefreshInvoices(context.Background()))

	api.On("Delete", mock.Anything, int64(1)).Return(&client.TransportError{Message: "down"}).Once()
	require.Error(t, sess.DeleteInvoice(context.Background(), 1))
	// Rejected delete leaves the collection as-is.
	assert.Len(t, sess.Invoices(), 2)

	api.On("Delete", mock.Anything, int64(1)).Return(nil).Once()
	api.On("List", mock.Anything).Return(stored()[1:], nil).Once()
	require.NoError(t, sess.DeleteInvoice(context.Background(), 1))
	assert.Len(t, sess.Invoices(), 1)
	api.AssertExpectations(t)
}

func TestSession_DeleteEditedInvoiceClosesEditor(t *testing.T) {
	api := &mocks.MockInvoiceAPI{}
	sess := session.New(api)
	reachInvoices(t, api, sess)
	require.NoError(t, sess.OpenEditor(context.Background(), 1))

	api.On("Delete", mock.Anything, int64(1)).Return(nil)
	api.On("List", mock.Anything).Return(stored()[1:], nil).Once()
	require.NoError(t, sess.DeleteInvoice(context.Background(), 1))
	assert.Equal(t, flow.PageInvoices, sess.Page())
	assert.Nil(t, sess.Form())
}

// A list response that arrives after the user has navigated away is still
// applied to the collection; nothing ties a response to the page that
// requested it.
func TestSession_LateListResponseStillApplied(t *testing.T) {
	api := &mocks.MockInvoiceAPI{}
	sess := session.New(api)
	api.On("List", mock.Anything).Run(func(mock.Arguments) {
		sess.NavigateUpload()
	}).Return(stored(), nil)

	require.NoError(t, sess.RefreshInvoices(context.Background()))
	assert.Equal(t, flow.PageUpload, sess.Page())
	assert.Len(t, sess.Invoices(), 2)
}

func TestSession_Export(t *testing.T) {
	api := &mocks.MockInvoiceAPI{}
	api.On("Export", mock.Anything, "csv", mock.Anything).Run(func(args mock.Arguments) {
		args.Get(2).(*bytes.Buffer).WriteString("id,number\n")
	}).Return(nil)
	sess := session.New(api)

	var buf bytes.Buffer
	require.NoError(t, sess.Export(context.Background(), "csv", &buf))
	assert.Equal(t, "id,number\n", buf.String())
}
