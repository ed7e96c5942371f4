package ledger

import (
	"context"

	"github.com/docflow/backend/internal/domain/ledger"
	"github.com/docflow/backend/internal/domain/ledger/acl"
	"github.com/docflow/backend/internal/domain/shared"
	"github.com/docflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// IdempotencyStore deduplicates retried payment submissions. Keys are
// scoped per tenant and expire after a retention window.
type IdempotencyStore interface {
	// Get returns the payment ID previously stored under the key
	Get(ctx context.Context, tenantID uuid.UUID, key string) (uuid.UUID, bool, error)
	// Put stores the payment ID under the key
	Put(ctx context.Context, tenantID uuid.UUID, key string, paymentID uuid.UUID) error
}

// KnockoffService applies payments against outstanding ledger invoices and
// reverses them when a payment is voided. Every allocation carries the
// invoice's outstanding snapshot taken at application time.
type KnockoffService struct {
	payments       ledger.PaymentRepository
	invoices       ledger.InvoiceRepository
	numbers        ledger.PaymentNumberGenerator
	counterparties acl.CounterpartyService
	idempotency    IdempotencyStore
	uow            shared.UnitOfWork
	audit          shared.AuditSink
	events         shared.EventPublisher
	logger         *zap.Logger
}

// NewKnockoffService creates a KnockoffService
func NewKnockoffService(
	payments ledger.PaymentRepository,
	invoices ledger.InvoiceRepository,
	numbers ledger.PaymentNumberGenerator,
	counterparties acl.CounterpartyService,
	idempotency IdempotencyStore,
	uow shared.UnitOfWork,
	audit shared.AuditSink,
	logger *zap.Logger,
) *KnockoffService {
	return &KnockoffService{
		payments:       payments,
		invoices:       invoices,
		numbers:        numbers,
		counterparties: counterparties,
		idempotency:    idempotency,
		uow:            uow,
		audit:          audit,
		logger:         logger,
	}
}

// SetEventPublisher wires a bus for the domain events the aggregates
// record. Without one the events are discarded at commit.
func (s *KnockoffService) SetEventPublisher(events shared.EventPublisher) {
	s.events = events
}

// CreatePayment records a payment and knocks it off against invoices.
// Allocation order is the caller's; with AutoAllocate the amount spreads
// oldest due date first. A retried idempotency key returns the original
// payment instead of creating a duplicate.
func (s *KnockoffService) CreatePayment(ctx context.Context, cmd CreatePaymentCommand) (*ledger.Payment, error) {
	if cmd.IdempotencyKey != "" && s.idempotency != nil {
		if existingID, ok, err := s.idempotency.Get(ctx, cmd.TenantID, cmd.IdempotencyKey); err != nil {
			s.logger.Warn("idempotency lookup failed", zap.Error(err))
		} else if ok {
			return s.payments.FindByID(ctx, cmd.TenantID, existingID)
		}
	}

	counterparty, err := s.counterparties.Resolve(ctx, cmd.TenantID, counterpartyKindFor(cmd.Kind), cmd.CounterpartyID)
	if err != nil {
		return nil, err
	}

	var payment *ledger.Payment
	var touched []shared.AggregateRoot
	err = s.uow.WithinTx(ctx, func(ctx context.Context) error {
		number, err := s.numbers.Next(ctx, cmd.TenantID, cmd.Kind)
		if err != nil {
			return err
		}

		payment, err = ledger.NewPayment(cmd.TenantID, cmd.Kind, number, cmd.PaymentDate, counterparty, cmd.Amount, cmd.Method)
		if err != nil {
			return err
		}
		payment.Reference = cmd.Reference
		payment.Remark = cmd.Remark

		allocations, err := s.resolveAllocations(ctx, cmd, payment)
		if err != nil {
			return err
		}

		for _, alloc := range allocations {
			inv, err := s.invoices.FindByID(ctx, cmd.TenantID, alloc.InvoiceID)
			if err != nil {
				return err
			}
			expectedVersion := inv.GetVersion()

			if _, err := payment.ApplyToInvoice(inv, alloc.Amount); err != nil {
				return err
			}
			// the version check is what makes two racing payments against
			// the same invoice serialize instead of double-spending
			if err := s.invoices.SaveWithLock(ctx, inv, expectedVersion); err != nil {
				return err
			}
			touched = append(touched, inv)
		}

		return s.payments.Save(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	if cmd.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.Put(ctx, cmd.TenantID, cmd.IdempotencyKey, payment.ID); err != nil {
			s.logger.Warn("idempotency store failed", zap.Error(err))
		}
	}
	s.audit.Record(ctx, cmd.ActorID, "payment.create", "Payment", payment.ID.String())
	publishDomainEvents(ctx, s.events, s.logger, append(touched, payment)...)

	return payment, nil
}

// resolveAllocations turns the command into concrete invoice applications.
// Explicit zero-amount entries are dropped; a payment with no allocations
// at all is valid and stays fully unapplied.
func (s *KnockoffService) resolveAllocations(ctx context.Context, cmd CreatePaymentCommand, payment *ledger.Payment) ([]ledger.Allocation, error) {
	if len(cmd.Allocations) > 0 {
		allocations := make([]ledger.Allocation, 0, len(cmd.Allocations))
		for _, a := range cmd.Allocations {
			if a.Amount.IsZero() {
				continue
			}
			if a.Amount.IsNegative() {
				return nil, shared.NewValidationError("INVALID_KNOCKOFF_AMOUNT", "Knockoff amount cannot be negative")
			}
			allocations = append(allocations, ledger.Allocation{InvoiceID: a.InvoiceID, Amount: a.Amount})
		}
		return allocations, nil
	}

	if !cmd.AutoAllocate {
		return nil, nil
	}

	outstanding, err := s.invoices.FindOutstandingByCounterparty(ctx, cmd.TenantID, cmd.Kind, cmd.CounterpartyID)
	if err != nil {
		return nil, err
	}
	return ledger.AutoDistribute(payment.Amount, outstanding), nil
}

// VoidPayment cancels a payment and gives every knocked-off amount back to
// its invoice, all in one transaction
func (s *KnockoffService) VoidPayment(ctx context.Context, cmd VoidPaymentCommand) (*ledger.Payment, error) {
	var payment *ledger.Payment
	var touched []shared.AggregateRoot
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.payments.FindByID(ctx, cmd.TenantID, cmd.PaymentID)
		if err != nil {
			return err
		}

		for i := range payment.Knockoffs {
			inv, err := s.invoices.FindByID(ctx, cmd.TenantID, payment.Knockoffs[i].InvoiceID)
			if err != nil {
				return err
			}
			expectedVersion := inv.GetVersion()
			if err := inv.ReverseKnockoff(payment.Knockoffs[i].KnockoffAmount); err != nil {
				return err
			}
			if err := s.invoices.SaveWithLock(ctx, inv, expectedVersion); err != nil {
				return err
			}
			touched = append(touched, inv)
		}

		if err := payment.Void(cmd.Reason); err != nil {
			return err
		}
		return s.payments.Save(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, cmd.ActorID, "payment.void", "Payment", payment.ID.String())
	publishDomainEvents(ctx, s.events, s.logger, append(touched, payment)...)

	return payment, nil
}

// PreviewDistribution plans an oldest-first distribution without applying it
func (s *KnockoffService) PreviewDistribution(ctx context.Context, q DistributePreviewQuery) (*DistributePreview, error) {
	if q.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_PAYMENT_AMOUNT", "Amount must be positive")
	}

	outstanding, err := s.invoices.FindOutstandingByCounterparty(ctx, q.TenantID, q.Kind, q.CounterpartyID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*ledger.Invoice, len(outstanding))
	for _, inv := range outstanding {
		byID[inv.ID] = inv
	}

	plan := ledger.AutoDistribute(q.Amount, outstanding)
	preview := &DistributePreview{Allocations: make([]PlannedAllocation, 0, len(plan))}
	applied := decimal.Zero
	for _, alloc := range plan {
		inv := byID[alloc.InvoiceID]
		preview.Allocations = append(preview.Allocations, PlannedAllocation{
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			DueDate:       inv.DueDate,
			Outstanding:   inv.OutstandingAmount,
			Amount:        alloc.Amount,
		})
		applied = applied.Add(alloc.Amount)
	}
	preview.Unapplied = q.Amount.Sub(applied)

	return preview, nil
}

// GetPayment loads one payment with its knockoffs
func (s *KnockoffService) GetPayment(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Payment, error) {
	return s.payments.FindByID(ctx, tenantID, id)
}

// ListPayments returns a filtered page of payments
func (s *KnockoffService) ListPayments(ctx context.Context, tenantID uuid.UUID, filter ledger.PaymentFilter) (*shared.Paginated[*ledger.Payment], error) {
	return s.payments.List(ctx, tenantID, filter)
}

// ListOutstanding returns the unsettled invoices of one counterparty,
// oldest due date first
func (s *KnockoffService) ListOutstanding(ctx context.Context, tenantID uuid.UUID, kind ledger.LedgerKind, counterpartyID uuid.UUID) ([]*ledger.Invoice, error) {
	return s.invoices.FindOutstandingByCounterparty(ctx, tenantID, kind, counterpartyID)
}

func counterpartyKindFor(kind ledger.LedgerKind) valueobject.CounterpartyKind {
	if kind == ledger.KindPayable {
		return valueobject.KindVendor
	}
	return valueobject.KindCustomer
}
