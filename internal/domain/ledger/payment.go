package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/docflow/backend/internal/domain/shared"
	"github.com/docflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how the money moved
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCheque       PaymentMethod = "CHEQUE"
	MethodCard         PaymentMethod = "CARD"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodCheque, MethodCard:
		return true
	}
	return false
}

// PaymentStatus is the lifecycle status of a payment
type PaymentStatus string

const (
	PaymentStatusActive PaymentStatus = "ACTIVE"
	PaymentStatusVoid   PaymentStatus = "VOID"
)

// Knockoff is one application of a payment against one invoice, carrying
// the outstanding snapshot taken at application time
type Knockoff struct {
	ID                uuid.UUID       `json:"id"`
	PaymentID         uuid.UUID       `json:"payment_id"`
	InvoiceID         uuid.UUID       `json:"invoice_id"`
	InvoiceNumber     string          `json:"invoice_number"`
	DocumentAmount    decimal.Decimal `json:"document_amount"`
	OutstandingBefore decimal.Decimal `json:"outstanding_before"`
	KnockoffAmount    decimal.Decimal `json:"knockoff_amount"`
	OutstandingAfter  decimal.Decimal `json:"outstanding_after"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Payment is a receipt (AR) or disbursement (AP) applied against one or
// more invoices of the same counterparty. The sum of its knockoffs never
// exceeds the payment amount; the difference is the unapplied remainder.
type Payment struct {
	shared.TenantAggregateRoot
	Kind          LedgerKind                  `json:"kind"`
	PaymentNumber string                      `json:"payment_number"`
	PaymentDate   time.Time                   `json:"payment_date"`
	Counterparty  valueobject.CounterpartyRef `json:"counterparty"`
	CurrencyCode  valueobject.Currency        `json:"currency_code"`
	Amount        decimal.Decimal             `json:"amount"`
	Method        PaymentMethod               `json:"method"`
	Reference     string                      `json:"reference,omitempty"`
	Remark        string                      `json:"remark,omitempty"`
	Status        PaymentStatus               `json:"status"`
	VoidedAt      *time.Time                  `json:"voided_at,omitempty"`
	VoidReason    string                      `json:"void_reason,omitempty"`
	Knockoffs     []Knockoff                  `json:"knockoffs"`
}

// NewPayment creates a payment header with no knockoffs yet
func NewPayment(
	tenantID uuid.UUID,
	kind LedgerKind,
	paymentNumber string,
	paymentDate time.Time,
	counterparty valueobject.CounterpartyRef,
	amount decimal.Decimal,
	method PaymentMethod,
) (*Payment, error) {
	if !kind.IsValid() {
		return nil, shared.NewValidationError("INVALID_LEDGER_KIND", "Ledger kind must be AR or AP")
	}
	if paymentNumber == "" {
		return nil, shared.NewValidationError("INVALID_PAYMENT_NUMBER", "Payment number cannot be empty")
	}
	if paymentDate.IsZero() {
		return nil, shared.NewValidationError("INVALID_PAYMENT_DATE", "Payment date is required")
	}
	if counterparty.IsZero() {
		return nil, shared.NewValidationError("INVALID_COUNTERPARTY", "Counterparty is required")
	}
	if kind != KindForCounterparty(counterparty.Kind) {
		return nil, shared.NewValidationError("COUNTERPARTY_KIND_MISMATCH",
			fmt.Sprintf("%s payments require a %s counterparty", kind, counterparty.Kind))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_PAYMENT_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewValidationError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}

	p := &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Kind:                kind,
		PaymentNumber:       paymentNumber,
		PaymentDate:         paymentDate,
		Counterparty:        counterparty,
		CurrencyCode:        counterparty.Currency,
		Amount:              amount,
		Method:              method,
		Status:              PaymentStatusActive,
		Knockoffs:           make([]Knockoff, 0),
	}

	p.AddDomainEvent(NewPaymentCreatedEvent(p))

	return p, nil
}

// AppliedAmount returns the sum of all knockoff amounts
func (p *Payment) AppliedAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range p.Knockoffs {
		total = total.Add(p.Knockoffs[i].KnockoffAmount)
	}
	return total
}

// UnappliedAmount returns the payment amount not yet knocked off
func (p *Payment) UnappliedAmount() decimal.Decimal {
	return p.Amount.Sub(p.AppliedAmount())
}

// ApplyToInvoice knocks an amount off the given invoice and records the
// knockoff line. The invoice mutation and the knockoff record belong to
// the same unit of work at the persistence boundary.
func (p *Payment) ApplyToInvoice(inv *Invoice, amount decimal.Decimal) (*Knockoff, error) {
	if p.Status == PaymentStatusVoid {
		return nil, shared.NewStateConflictError("PAYMENT_VOID", "Cannot apply a voided payment")
	}
	if inv.TenantID != p.TenantID {
		return nil, shared.NewValidationError("TENANT_MISMATCH", "Invoice belongs to a different tenant")
	}
	if inv.Kind != p.Kind {
		return nil, shared.NewValidationError("LEDGER_KIND_MISMATCH",
			fmt.Sprintf("Cannot apply a %s payment to a %s invoice", p.Kind, inv.Kind))
	}
	if inv.Counterparty.ID != p.Counterparty.ID {
		return nil, shared.NewValidationError("COUNTERPARTY_MISMATCH",
			"Invoice and payment belong to different counterparties")
	}
	if inv.CurrencyCode != p.CurrencyCode {
		return nil, shared.NewValidationError("CURRENCY_MISMATCH",
			fmt.Sprintf("Invoice currency %s does not match payment currency %s", inv.CurrencyCode, p.CurrencyCode))
	}
	if amount.GreaterThan(p.UnappliedAmount()) {
		return nil, shared.NewReconciliationError("EXCEEDS_PAYMENT_AMOUNT",
			fmt.Sprintf("Knockoff amount %s exceeds unapplied payment amount %s",
				amount.String(), p.UnappliedAmount().String()))
	}

	result, err := inv.ApplyKnockoff(amount)
	if err != nil {
		return nil, err
	}

	k := Knockoff{
		ID:                uuid.New(),
		PaymentID:         p.ID,
		InvoiceID:         inv.ID,
		InvoiceNumber:     inv.InvoiceNumber,
		DocumentAmount:    inv.NetTotal,
		OutstandingBefore: result.OutstandingBefore,
		KnockoffAmount:    result.KnockoffAmount,
		OutstandingAfter:  result.OutstandingAfter,
		CreatedAt:         time.Now(),
	}
	p.Knockoffs = append(p.Knockoffs, k)
	p.Touch()

	return &p.Knockoffs[len(p.Knockoffs)-1], nil
}

// ReleaseInvoice removes this payment's knockoffs against the given
// invoice and returns the released total, which goes back to the unapplied
// remainder. Used when the invoice is voided out from under the payment;
// the caller reverses the same amount on the invoice.
func (p *Payment) ReleaseInvoice(invoiceID uuid.UUID) (decimal.Decimal, error) {
	if p.Status == PaymentStatusVoid {
		return decimal.Zero, shared.NewStateConflictError("PAYMENT_VOID", "Cannot release knockoffs of a voided payment")
	}

	released := decimal.Zero
	kept := p.Knockoffs[:0]
	for i := range p.Knockoffs {
		if p.Knockoffs[i].InvoiceID == invoiceID {
			released = released.Add(p.Knockoffs[i].KnockoffAmount)
			continue
		}
		kept = append(kept, p.Knockoffs[i])
	}
	if released.IsZero() {
		return decimal.Zero, nil
	}

	p.Knockoffs = kept
	p.Touch()

	return released, nil
}

// Void cancels the payment. The caller reverses each knockoff against its
// invoice in the same unit of work.
func (p *Payment) Void(reason string) error {
	if p.Status == PaymentStatusVoid {
		return shared.NewStateConflictError("PAYMENT_ALREADY_VOID", "Payment already voided")
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	p.Status = PaymentStatusVoid
	p.VoidedAt = &now
	p.VoidReason = reason
	p.Touch()
	p.AddDomainEvent(NewPaymentVoidedEvent(p))

	return nil
}

// Allocation is one planned application of an amount to an invoice
type Allocation struct {
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
}

// AutoDistribute plans how a payment amount spreads across outstanding
// invoices: oldest due date first, each invoice taken up to its
// outstanding amount until the money runs out. Settled and void invoices
// are skipped. The plan mutates nothing.
func AutoDistribute(amount decimal.Decimal, invoices []*Invoice) []Allocation {
	candidates := make([]*Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.IsVoid || inv.OutstandingAmount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		candidates = append(candidates, inv)
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		if !candidates[a].DueDate.Equal(candidates[b].DueDate) {
			return candidates[a].DueDate.Before(candidates[b].DueDate)
		}
		return candidates[a].InvoiceDate.Before(candidates[b].InvoiceDate)
	})

	remaining := amount
	allocations := make([]Allocation, 0, len(candidates))
	for _, inv := range candidates {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		take := decimal.Min(remaining, inv.OutstandingAmount)
		allocations = append(allocations, Allocation{InvoiceID: inv.ID, Amount: take})
		remaining = remaining.Sub(take)
	}
	return allocations
}
