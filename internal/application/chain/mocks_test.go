package chain

import (
	"context"

	"github.com/docflow/backend/internal/domain/document"
	"github.com/docflow/backend/internal/domain/shared"
	"github.com/docflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockDocumentRepo struct {
	mock.Mock
}

func (m *mockDocumentRepo) Save(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *mockDocumentRepo) SaveWithLock(ctx context.Context, doc *document.Document, expectedVersion int) error {
	args := m.Called(ctx, doc, expectedVersion)
	return args.Error(0)
}

func (m *mockDocumentRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *mockDocumentRepo) FindByNumber(ctx context.Context, tenantID uuid.UUID, docType document.DocumentType, number string) (*document.Document, error) {
	args := m.Called(ctx, tenantID, docType, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *mockDocumentRepo) FindChildren(ctx context.Context, tenantID, sourceID uuid.UUID) ([]*document.Document, error) {
	args := m.Called(ctx, tenantID, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*document.Document), args.Error(1)
}

func (m *mockDocumentRepo) List(ctx context.Context, tenantID uuid.UUID, filter document.DocumentFilter) (*shared.Paginated[*document.Document], error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*document.Document]), args.Error(1)
}

func (m *mockDocumentRepo) HardDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *mockDocumentRepo) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, docType document.DocumentType, number string) (bool, error) {
	args := m.Called(ctx, tenantID, docType, number)
	return args.Bool(0), args.Error(1)
}

type mockNumberGenerator struct {
	mock.Mock
}

func (m *mockNumberGenerator) Next(ctx context.Context, tenantID uuid.UUID, docType document.DocumentType) (string, error) {
	args := m.Called(ctx, tenantID, docType)
	return args.String(0), args.Error(1)
}

type mockCounterpartyService struct {
	mock.Mock
}

func (m *mockCounterpartyService) Resolve(ctx context.Context, tenantID uuid.UUID, kind valueobject.CounterpartyKind, id uuid.UUID) (valueobject.CounterpartyRef, error) {
	args := m.Called(ctx, tenantID, kind, id)
	return args.Get(0).(valueobject.CounterpartyRef), args.Error(1)
}

type mockLedgerPoster struct {
	mock.Mock
}

func (m *mockLedgerPoster) PostDocument(ctx context.Context, doc *document.Document) (uuid.UUID, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockLedgerPoster) SyncDocument(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *mockLedgerPoster) UnpostDocument(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

type mockInventoryService struct {
	mock.Mock
}

func (m *mockInventoryService) RecordMovement(ctx context.Context, tenantID uuid.UUID, doc *document.Document, direction document.StockDirection) error {
	args := m.Called(ctx, tenantID, doc, direction)
	return args.Error(0)
}

// passthroughUoW runs the function directly; transactional behavior is
// covered at the persistence layer
type passthroughUoW struct{}

func (passthroughUoW) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopAudit struct{}

func (noopAudit) Record(ctx context.Context, actorID, action, entityType, entityID string) {}
