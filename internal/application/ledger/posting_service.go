package ledger

import (
	"context"
	"errors"

	"github.com/docflow/backend/internal/domain/document"
	"github.com/docflow/backend/internal/domain/ledger"
	"github.com/docflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostingService is the bridge between the document chains and the
// AR/AP books: it derives ledger invoices from posted invoice documents,
// keeps them aligned when the source is edited, and voids them when the
// source is voided.
type PostingService struct {
	invoices ledger.InvoiceRepository
	payments ledger.PaymentRepository
	logger   *zap.Logger
}

// NewPostingService creates a PostingService
func NewPostingService(invoices ledger.InvoiceRepository, payments ledger.PaymentRepository, logger *zap.Logger) *PostingService {
	return &PostingService{invoices: invoices, payments: payments, logger: logger}
}

// PostDocument derives a ledger invoice from an invoice-stage document.
// The document number doubles as the invoice number so both sides of the
// bridge stay traceable.
func (s *PostingService) PostDocument(ctx context.Context, doc *document.Document) (uuid.UUID, error) {
	if !doc.DocType.IsInvoice() {
		return uuid.Nil, shared.NewValidationError("NOT_AN_INVOICE",
			"Only invoice documents can be posted to the ledger")
	}

	existing, err := s.invoices.FindBySourceDocument(ctx, doc.TenantID, doc.ID)
	if err == nil && existing != nil && !existing.IsVoid {
		return uuid.Nil, shared.NewStateConflictError("ALREADY_POSTED",
			"Document is already posted to the ledger")
	}
	if err != nil {
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) || domainErr.Kind != shared.KindNotFound {
			return uuid.Nil, err
		}
	}

	kind := ledger.KindForCounterparty(doc.Counterparty.Kind)
	inv, err := ledger.NewInvoice(
		doc.TenantID,
		kind,
		doc.ID,
		doc.DocumentNumber,
		doc.DocumentDate,
		doc.DocumentDate.AddDate(0, 0, doc.Counterparty.CreditTermDays),
		doc.Counterparty,
		doc.NetTotal,
		doc.CurrencyCode,
	)
	if err != nil {
		return uuid.Nil, err
	}
	inv.Reference = doc.Reference

	if err := s.invoices.Save(ctx, inv); err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("document posted to ledger",
		zap.String("document_id", doc.ID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("kind", string(kind)))

	return inv.ID, nil
}

// SyncDocument realigns the linked ledger invoice with its edited source.
// Paid amounts survive the sync; only the total and header fields move.
func (s *PostingService) SyncDocument(ctx context.Context, doc *document.Document) error {
	inv, err := s.invoices.FindBySourceDocument(ctx, doc.TenantID, doc.ID)
	if err != nil {
		return err
	}
	expectedVersion := inv.GetVersion()

	if err := inv.SyncFromSource(doc.NetTotal, doc.DocumentDate, doc.Reference); err != nil {
		return err
	}
	return s.invoices.SaveWithLock(ctx, inv, expectedVersion)
}

// UnpostDocument voids the ledger invoice derived from the document.
// Payments applied against the invoice are released first: each knockoff
// is reversed and the freed amount returns to its payment's unapplied
// remainder, all inside the caller's transaction.
func (s *PostingService) UnpostDocument(ctx context.Context, doc *document.Document) error {
	inv, err := s.invoices.FindBySourceDocument(ctx, doc.TenantID, doc.ID)
	if err != nil {
		return err
	}
	expectedVersion := inv.GetVersion()

	if inv.PaidAmount.IsPositive() {
		paying, err := s.payments.FindByInvoice(ctx, doc.TenantID, inv.ID)
		if err != nil {
			return err
		}
		for _, p := range paying {
			released, err := p.ReleaseInvoice(inv.ID)
			if err != nil {
				return err
			}
			if released.IsZero() {
				continue
			}
			if err := inv.ReverseKnockoff(released); err != nil {
				return err
			}
			if err := s.payments.Save(ctx, p); err != nil {
				return err
			}
			s.logger.Info("payment knockoffs released",
				zap.String("payment_id", p.ID.String()),
				zap.String("invoice_id", inv.ID.String()),
				zap.String("released", released.String()))
		}
	}

	if err := inv.Void(); err != nil {
		return err
	}
	return s.invoices.SaveWithLock(ctx, inv, expectedVersion)
}

// GetInvoice loads one ledger invoice
func (s *PostingService) GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Invoice, error) {
	return s.invoices.FindByID(ctx, tenantID, id)
}

// ListInvoices returns a filtered page of ledger invoices
func (s *PostingService) ListInvoices(ctx context.Context, tenantID uuid.UUID, filter ledger.InvoiceFilter) (*shared.Paginated[*ledger.Invoice], error) {
	return s.invoices.List(ctx, tenantID, filter)
}
