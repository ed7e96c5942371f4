package ledger

import (
	"context"

	"github.com/docflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceFilter narrows ledger invoice listings
type InvoiceFilter struct {
	shared.Filter
	Kind            *LedgerKind
	Status          *InvoiceStatus
	CounterpartyID  *uuid.UUID
	OutstandingOnly bool
	IncludeVoided   bool
}

// InvoiceRepository provides persistence for ledger invoices
type InvoiceRepository interface {
	// Save persists a ledger invoice
	Save(ctx context.Context, inv *Invoice) error

	// SaveWithLock persists the invoice only if its stored version still
	// matches; returns a CONCURRENCY error on a lost race
	SaveWithLock(ctx context.Context, inv *Invoice, expectedVersion int) error

	// FindByID loads an invoice scoped to the tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindBySourceDocument loads the invoice derived from a source document
	FindBySourceDocument(ctx context.Context, tenantID, sourceDocumentID uuid.UUID) (*Invoice, error)

	// FindOutstandingByCounterparty returns unsettled invoices of one
	// counterparty, oldest due date first
	FindOutstandingByCounterparty(ctx context.Context, tenantID uuid.UUID, kind LedgerKind, counterpartyID uuid.UUID) ([]*Invoice, error)

	// List returns a filtered, paginated page of invoices
	List(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) (*shared.Paginated[*Invoice], error)
}

// PaymentFilter narrows payment listings
type PaymentFilter struct {
	shared.Filter
	Kind           *LedgerKind
	CounterpartyID *uuid.UUID
	IncludeVoided  bool
}

// PaymentNumberGenerator issues the next payment number, one gapless
// sequence per tenant and ledger kind
type PaymentNumberGenerator interface {
	Next(ctx context.Context, tenantID uuid.UUID, kind LedgerKind) (string, error)
}

// PaymentRepository provides persistence for payments and their knockoffs
type PaymentRepository interface {
	// Save persists a payment with its knockoff lines
	Save(ctx context.Context, p *Payment) error

	// FindByID loads a payment with its knockoffs, scoped to the tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)

	// FindByInvoice returns the active payments that knocked off against
	// the given invoice
	FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*Payment, error)

	// List returns a filtered, paginated page of payments
	List(ctx context.Context, tenantID uuid.UUID, filter PaymentFilter) (*shared.Paginated[*Payment], error)
}
