package chain

import (
	"context"
	"testing"
	"time"

	"github.com/docflow/backend/internal/domain/document"
	"github.com/docflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type voidFixture struct {
	docs      *mockDocumentRepo
	poster    *mockLedgerPoster
	inventory *mockInventoryService
	service   *VoidService
}

func newVoidFixture() *voidFixture {
	f := &voidFixture{
		docs:      new(mockDocumentRepo),
		poster:    new(mockLedgerPoster),
		inventory: new(mockInventoryService),
	}
	f.service = NewVoidService(f.docs, f.poster, f.inventory, passthroughUoW{}, noopAudit{}, zap.NewNop())
	return f
}

func TestVoidService_HardDeletesEffectFreeDocument(t *testing.T) {
	f := newVoidFixture()
	tenantID := uuid.New()
	doc := fixtureSalesOrder(t, tenantID, fixtureCustomer(t), 10)

	f.docs.On("FindByID", mock.Anything, tenantID, doc.ID).Return(doc, nil)
	f.docs.On("FindChildren", mock.Anything, tenantID, doc.ID).Return([]*document.Document{}, nil)
	f.docs.On("HardDelete", mock.Anything, tenantID, doc.ID).Return(nil)

	result, err := f.service.Void(context.Background(), VoidCommand{
		TenantID:   tenantID,
		DocumentID: doc.ID,
		Reason:     "entered in error",
		ActorID:    "user-1",
	})

	require.NoError(t, err)
	assert.True(t, result.HardDeleted)
	assert.Contains(t, result.ReversedSteps, "document_deleted")
	f.docs.AssertExpectations(t)
}

func TestVoidService_SecondVoidAfterHardDeleteIsNotFound(t *testing.T) {
	f := newVoidFixture()
	tenantID := uuid.New()
	doc := fixtureSalesOrder(t, tenantID, fixtureCustomer(t), 10)

	f.docs.On("FindByID", mock.Anything, tenantID, doc.ID).Return(doc, nil).Once()
	f.docs.On("FindChildren", mock.Anything, tenantID, doc.ID).Return([]*document.Document{}, nil).Once()
	f.docs.On("HardDelete", mock.Anything, tenantID, doc.ID).Return(nil).Once()
	f.docs.On("FindByID", mock.Anything, tenantID, doc.ID).Return(nil, shared.ErrNotFound)

	cmd := VoidCommand{
		TenantID:   tenantID,
		DocumentID: doc.ID,
		Reason:     "entered in error",
		ActorID:    "user-1",
	}

	result, err := f.service.Void(context.Background(), cmd)
	require.NoError(t, err)
	require.True(t, result.HardDeleted)

	// the delete left no trace, so retrying is a lookup miss, not a
	// duplicate side effect
	_, err = f.service.Void(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.docs.AssertExpectations(t)
}

func TestVoidService_SoftVoidsTransferredDocument(t *testing.T) {
	f := newVoidFixture()
	tenantID := uuid.New()
	customer := fixtureCustomer(t)
	source := fixtureSalesOrder(t, tenantID, customer, 10)

	target, err := source.TransferTo(document.TypeSalesInvoice, "INV-0001", time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, target.MarkPosted(uuid.New()))

	f.docs.On("FindByID", mock.Anything, tenantID, target.ID).Return(target, nil)
	f.docs.On("FindChildren", mock.Anything, tenantID, target.ID).Return([]*document.Document{}, nil)
	f.docs.On("FindByID", mock.Anything, tenantID, source.ID).Return(source, nil)
	f.poster.On("UnpostDocument", mock.Anything, target).Return(nil)
	f.docs.On("SaveWithLock", mock.Anything, source, mock.AnythingOfType("int")).Return(nil)
	f.docs.On("SaveWithLock", mock.Anything, target, mock.AnythingOfType("int")).Return(nil)

	result, err := f.service.Void(context.Background(), VoidCommand{
		TenantID:   tenantID,
		DocumentID: target.ID,
		Reason:     "billing dispute",
		ActorID:    "user-1",
	})

	require.NoError(t, err)
	assert.False(t, result.HardDeleted)
	assert.Equal(t, []string{"ledger_invoice_voided", "source_quantities_restored", "document_voided"}, result.ReversedSteps)

	// voiding the invoice reopened the source
	assert.True(t, target.IsVoid)
	assert.Equal(t, document.StatusOpen, source.Status)
	assert.True(t, source.Lines[0].OutstandingQty.Equal(decimal.NewFromInt(10)))
	f.poster.AssertExpectations(t)
}

func TestVoidService_ReversesStockMovement(t *testing.T) {
	f := newVoidFixture()
	tenantID := uuid.New()
	source := fixtureSalesOrder(t, tenantID, fixtureCustomer(t), 5)

	target, err := source.TransferTo(document.TypeDeliveryOrder, "DO-0001", time.Now(), nil)
	require.NoError(t, err)

	f.docs.On("FindByID", mock.Anything, tenantID, target.ID).Return(target, nil)
	f.docs.On("FindChildren", mock.Anything, tenantID, target.ID).Return([]*document.Document{}, nil)
	f.docs.On("FindByID", mock.Anything, tenantID, source.ID).Return(source, nil)
	f.docs.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*document.Document"), mock.AnythingOfType("int")).Return(nil)
	f.inventory.On("RecordMovement", mock.Anything, tenantID, target, document.StockDirectionIn).Return(nil)

	result, err := f.service.Void(context.Background(), VoidCommand{
		TenantID:   tenantID,
		DocumentID: target.ID,
		Reason:     "wrong shipment",
		ActorID:    "user-1",
	})

	require.NoError(t, err)
	assert.Contains(t, result.ReversedSteps, "stock_movement_reversed")
	f.inventory.AssertExpectations(t)
}

func TestVoidService_RejectsWithDownstreamDocuments(t *testing.T) {
	f := newVoidFixture()
	tenantID := uuid.New()
	source := fixtureSalesOrder(t, tenantID, fixtureCustomer(t), 10)
	child, err := source.TransferTo(document.TypeSalesInvoice, "INV-0001", time.Now(), nil)
	require.NoError(t, err)

	f.docs.On("FindByID", mock.Anything, tenantID, source.ID).Return(source, nil)
	f.docs.On("FindChildren", mock.Anything, tenantID, source.ID).Return([]*document.Document{child}, nil)

	_, err = f.service.Void(context.Background(), VoidCommand{
		TenantID:   tenantID,
		DocumentID: source.ID,
		Reason:     "cancel order",
		ActorID:    "user-1",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "HAS_DOWNSTREAM_DOCUMENTS", domainErr.Code)
}

func TestVoidService_RejectsAlreadyVoid(t *testing.T) {
	f := newVoidFixture()
	tenantID := uuid.New()
	doc := fixtureSalesOrder(t, tenantID, fixtureCustomer(t), 10)
	require.NoError(t, doc.Void("first void"))

	f.docs.On("FindByID", mock.Anything, tenantID, doc.ID).Return(doc, nil)

	_, err := f.service.Void(context.Background(), VoidCommand{
		TenantID:   tenantID,
		DocumentID: doc.ID,
		Reason:     "second void",
		ActorID:    "user-1",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DOCUMENT_ALREADY_VOID", domainErr.Code)
}

func TestVoidService_RequiresReason(t *testing.T) {
	f := newVoidFixture()

	_, err := f.service.Void(context.Background(), VoidCommand{
		TenantID:   uuid.New(),
		DocumentID: uuid.New(),
		ActorID:    "user-1",
	})
	assert.Error(t, err)
}
