package ledger

import (
	"context"

	"github.com/docflow/backend/internal/domain/ledger"
	"github.com/docflow/backend/internal/domain/shared"
	"github.com/docflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockInvoiceRepo struct {
	mock.Mock
}

func (m *mockInvoiceRepo) Save(ctx context.Context, inv *ledger.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *mockInvoiceRepo) SaveWithLock(ctx context.Context, inv *ledger.Invoice, expectedVersion int) error {
	args := m.Called(ctx, inv, expectedVersion)
	return args.Error(0)
}

func (m *mockInvoiceRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) FindBySourceDocument(ctx context.Context, tenantID, sourceDocumentID uuid.UUID) (*ledger.Invoice, error) {
	args := m.Called(ctx, tenantID, sourceDocumentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) FindOutstandingByCounterparty(ctx context.Context, tenantID uuid.UUID, kind ledger.LedgerKind, counterpartyID uuid.UUID) ([]*ledger.Invoice, error) {
	args := m.Called(ctx, tenantID, kind, counterpartyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) List(ctx context.Context, tenantID uuid.UUID, filter ledger.InvoiceFilter) (*shared.Paginated[*ledger.Invoice], error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*ledger.Invoice]), args.Error(1)
}

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) Save(ctx context.Context, p *ledger.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Payment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*ledger.Payment, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Payment), args.Error(1)
}

func (m *mockPaymentRepo) List(ctx context.Context, tenantID uuid.UUID, filter ledger.PaymentFilter) (*shared.Paginated[*ledger.Payment], error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*ledger.Payment]), args.Error(1)
}

type mockPaymentNumbers struct {
	mock.Mock
}

func (m *mockPaymentNumbers) Next(ctx context.Context, tenantID uuid.UUID, kind ledger.LedgerKind) (string, error) {
	args := m.Called(ctx, tenantID, kind)
	return args.String(0), args.Error(1)
}

type mockCounterpartyService struct {
	mock.Mock
}

func (m *mockCounterpartyService) Resolve(ctx context.Context, tenantID uuid.UUID, kind valueobject.CounterpartyKind, id uuid.UUID) (valueobject.CounterpartyRef, error) {
	args := m.Called(ctx, tenantID, kind, id)
	return args.Get(0).(valueobject.CounterpartyRef), args.Error(1)
}

type mockIdempotencyStore struct {
	mock.Mock
}

func (m *mockIdempotencyStore) Get(ctx context.Context, tenantID uuid.UUID, key string) (uuid.UUID, bool, error) {
	args := m.Called(ctx, tenantID, key)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *mockIdempotencyStore) Put(ctx context.Context, tenantID uuid.UUID, key string, paymentID uuid.UUID) error {
	args := m.Called(ctx, tenantID, key, paymentID)
	return args.Error(0)
}

type passthroughUoW struct{}

func (passthroughUoW) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopAudit struct{}

func (noopAudit) Record(ctx context.Context, actorID, action, entityType, entityID string) {}
