package ledger

import (
	"fmt"
	"time"

	"github.com/docflow/backend/internal/domain/shared"
	"github.com/docflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerKind separates the two books: AR tracks what customers owe, AP
// tracks what we owe vendors.
type LedgerKind string

const (
	KindReceivable LedgerKind = "AR"
	KindPayable    LedgerKind = "AP"
)

// IsValid checks if the kind is a valid LedgerKind
func (k LedgerKind) IsValid() bool {
	return k == KindReceivable || k == KindPayable
}

// String returns the string representation of LedgerKind
func (k LedgerKind) String() string {
	return string(k)
}

// KindForCounterparty maps a counterparty side to its ledger book
func KindForCounterparty(kind valueobject.CounterpartyKind) LedgerKind {
	if kind == valueobject.KindVendor {
		return KindPayable
	}
	return KindReceivable
}

// InvoiceStatus is the settlement status of a ledger invoice
type InvoiceStatus string

const (
	InvoiceStatusOpen    InvoiceStatus = "OPEN"
	InvoiceStatusPartial InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusVoid    InvoiceStatus = "VOID"
)

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// Invoice is a ledger-side invoice derived from a posted source document.
// It is the unit that payments knock off against; the invariant
// outstanding = net total - paid holds at all times.
type Invoice struct {
	shared.TenantAggregateRoot
	Kind              LedgerKind                  `json:"kind"`
	SourceDocumentID  uuid.UUID                   `json:"source_document_id"`
	InvoiceNumber     string                      `json:"invoice_number"`
	InvoiceDate       time.Time                   `json:"invoice_date"`
	DueDate           time.Time                   `json:"due_date"`
	Counterparty      valueobject.CounterpartyRef `json:"counterparty"`
	CurrencyCode      valueobject.Currency        `json:"currency_code"`
	NetTotal          decimal.Decimal             `json:"net_total"`
	PaidAmount        decimal.Decimal             `json:"paid_amount"`
	OutstandingAmount decimal.Decimal             `json:"outstanding_amount"`
	Status            InvoiceStatus               `json:"status"`
	Reference         string                      `json:"reference,omitempty"`
	IsVoid            bool                        `json:"is_void"`
	VoidedAt          *time.Time                  `json:"voided_at,omitempty"`
}

// NewInvoice derives a ledger invoice from a posted source document
func NewInvoice(
	tenantID uuid.UUID,
	kind LedgerKind,
	sourceDocumentID uuid.UUID,
	invoiceNumber string,
	invoiceDate time.Time,
	dueDate time.Time,
	counterparty valueobject.CounterpartyRef,
	netTotal decimal.Decimal,
	currency valueobject.Currency,
) (*Invoice, error) {
	if !kind.IsValid() {
		return nil, shared.NewValidationError("INVALID_LEDGER_KIND", "Ledger kind must be AR or AP")
	}
	if sourceDocumentID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_SOURCE", "Source document ID cannot be empty")
	}
	if invoiceNumber == "" {
		return nil, shared.NewValidationError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if counterparty.IsZero() {
		return nil, shared.NewValidationError("INVALID_COUNTERPARTY", "Counterparty is required")
	}
	if kind != KindForCounterparty(counterparty.Kind) {
		return nil, shared.NewValidationError("COUNTERPARTY_KIND_MISMATCH",
			fmt.Sprintf("%s invoices require a %s counterparty", kind, counterparty.Kind))
	}
	if netTotal.IsNegative() {
		return nil, shared.NewValidationError("INVALID_NET_TOTAL", "Net total cannot be negative")
	}
	if dueDate.IsZero() {
		dueDate = invoiceDate.AddDate(0, 0, counterparty.CreditTermDays)
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Kind:                kind,
		SourceDocumentID:    sourceDocumentID,
		InvoiceNumber:       invoiceNumber,
		InvoiceDate:         invoiceDate,
		DueDate:             dueDate,
		Counterparty:        counterparty,
		CurrencyCode:        currency,
		NetTotal:            netTotal,
		PaidAmount:          decimal.Zero,
		OutstandingAmount:   netTotal,
		Status:              InvoiceStatusOpen,
	}
	if netTotal.IsZero() {
		inv.Status = InvoiceStatusPaid
	}

	inv.AddDomainEvent(NewInvoicePostedEvent(inv))

	return inv, nil
}

// KnockoffResult records the before and after outstanding amounts of one
// knockoff application, the audit trail a payment line carries.
type KnockoffResult struct {
	OutstandingBefore decimal.Decimal
	KnockoffAmount    decimal.Decimal
	OutstandingAfter  decimal.Decimal
}

// ApplyKnockoff reduces the invoice's outstanding amount by the given
// payment amount and returns the before/after snapshot
func (i *Invoice) ApplyKnockoff(amount decimal.Decimal) (KnockoffResult, error) {
	if i.IsVoid {
		return KnockoffResult{}, shared.NewStateConflictError("INVOICE_VOID", "Cannot apply payment to a voided invoice")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return KnockoffResult{}, shared.NewValidationError("INVALID_KNOCKOFF_AMOUNT", "Knockoff amount must be positive")
	}
	if amount.GreaterThan(i.OutstandingAmount) {
		return KnockoffResult{}, shared.NewReconciliationError("EXCEEDS_OUTSTANDING",
			fmt.Sprintf("Knockoff amount %s exceeds outstanding amount %s on invoice %s",
				amount.String(), i.OutstandingAmount.String(), i.InvoiceNumber))
	}

	result := KnockoffResult{
		OutstandingBefore: i.OutstandingAmount,
		KnockoffAmount:    amount,
		OutstandingAfter:  i.OutstandingAmount.Sub(amount),
	}

	i.PaidAmount = i.PaidAmount.Add(amount)
	i.OutstandingAmount = result.OutstandingAfter
	i.refreshStatus()
	i.Touch()
	i.AddDomainEvent(NewInvoiceKnockedOffEvent(i, amount))

	return result, nil
}

// ReverseKnockoff gives back a previously applied payment amount, used
// when the paying payment is voided
func (i *Invoice) ReverseKnockoff(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("INVALID_KNOCKOFF_AMOUNT", "Reversal amount must be positive")
	}
	if amount.GreaterThan(i.PaidAmount) {
		return shared.NewReconciliationError("EXCEEDS_PAID",
			fmt.Sprintf("Reversal amount %s exceeds paid amount %s on invoice %s",
				amount.String(), i.PaidAmount.String(), i.InvoiceNumber))
	}

	i.PaidAmount = i.PaidAmount.Sub(amount)
	i.OutstandingAmount = i.OutstandingAmount.Add(amount)
	i.refreshStatus()
	i.Touch()

	return nil
}

// SyncFromSource realigns the invoice with its edited source document.
// Totals and header fields follow the source; paid amount is preserved and
// outstanding is recomputed against the new total. An edit that drops the
// total below what was already paid clamps outstanding to zero, leaving the
// invoice settled with an overpaid remainder.
func (i *Invoice) SyncFromSource(netTotal decimal.Decimal, invoiceDate time.Time, reference string) error {
	if i.IsVoid {
		return shared.NewStateConflictError("INVOICE_VOID", "Cannot sync a voided invoice")
	}
	if netTotal.IsNegative() {
		return shared.NewValidationError("INVALID_NET_TOTAL", "Net total cannot be negative")
	}

	i.NetTotal = netTotal
	i.OutstandingAmount = decimal.Max(decimal.Zero, netTotal.Sub(i.PaidAmount))
	if !invoiceDate.IsZero() {
		i.InvoiceDate = invoiceDate
	}
	if reference != "" {
		i.Reference = reference
	}
	i.refreshStatus()
	i.Touch()
	i.AddDomainEvent(NewInvoiceSyncedEvent(i))

	return nil
}

// Void marks the ledger invoice as void; only invoices with no applied
// payments can be voided directly
func (i *Invoice) Void() error {
	if i.IsVoid {
		return shared.NewStateConflictError("INVOICE_ALREADY_VOID", "Invoice already voided")
	}
	if i.PaidAmount.IsPositive() {
		return shared.NewStateConflictError("INVOICE_HAS_PAYMENTS",
			"Cannot void an invoice with applied payments; void the payments first")
	}

	now := time.Now()
	i.IsVoid = true
	i.Status = InvoiceStatusVoid
	i.OutstandingAmount = decimal.Zero
	i.VoidedAt = &now
	i.Touch()
	i.AddDomainEvent(NewInvoiceVoidedEvent(i))

	return nil
}

// refreshStatus derives the settlement status from the amounts
func (i *Invoice) refreshStatus() {
	if i.IsVoid {
		i.Status = InvoiceStatusVoid
		return
	}
	switch {
	case i.OutstandingAmount.IsZero():
		i.Status = InvoiceStatusPaid
	case i.PaidAmount.IsPositive():
		i.Status = InvoiceStatusPartial
	default:
		i.Status = InvoiceStatusOpen
	}
}

// IsSettled returns true when nothing remains outstanding
func (i *Invoice) IsSettled() bool {
	return i.OutstandingAmount.IsZero()
}

// IsOverdue reports whether the invoice is past due and unsettled
func (i *Invoice) IsOverdue(now time.Time) bool {
	return !i.IsVoid && !i.IsSettled() && now.After(i.DueDate)
}
