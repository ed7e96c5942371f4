package ledger

import (
	"github.com/docflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the ledger aggregates
const (
	EventInvoicePosted     = "ledger.invoice.posted"
	EventInvoiceSynced     = "ledger.invoice.synced"
	EventInvoiceKnockedOff = "ledger.invoice.knocked_off"
	EventInvoiceVoided     = "ledger.invoice.voided"
	EventPaymentCreated    = "ledger.payment.created"
	EventPaymentVoided     = "ledger.payment.voided"
)

const (
	aggregateTypeInvoice = "LedgerInvoice"
	aggregateTypePayment = "Payment"
)

// InvoicePostedEvent is published when a ledger invoice is derived from a
// source document
type InvoicePostedEvent struct {
	shared.BaseDomainEvent
	Kind             LedgerKind      `json:"kind"`
	InvoiceNumber    string          `json:"invoice_number"`
	SourceDocumentID uuid.UUID       `json:"source_document_id"`
	NetTotal         decimal.Decimal `json:"net_total"`
}

// NewInvoicePostedEvent creates an InvoicePostedEvent
func NewInvoicePostedEvent(i *Invoice) *InvoicePostedEvent {
	return &InvoicePostedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventInvoicePosted, aggregateTypeInvoice, i.ID, i.TenantID),
		Kind:             i.Kind,
		InvoiceNumber:    i.InvoiceNumber,
		SourceDocumentID: i.SourceDocumentID,
		NetTotal:         i.NetTotal,
	}
}

// InvoiceSyncedEvent is published when an invoice re-syncs with its source
type InvoiceSyncedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	NetTotal      decimal.Decimal `json:"net_total"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// NewInvoiceSyncedEvent creates an InvoiceSyncedEvent
func NewInvoiceSyncedEvent(i *Invoice) *InvoiceSyncedEvent {
	return &InvoiceSyncedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceSynced, aggregateTypeInvoice, i.ID, i.TenantID),
		InvoiceNumber:   i.InvoiceNumber,
		NetTotal:        i.NetTotal,
		Outstanding:     i.OutstandingAmount,
	}
}

// InvoiceKnockedOffEvent is published when a payment amount is applied
type InvoiceKnockedOffEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	Status        InvoiceStatus   `json:"status"`
}

// NewInvoiceKnockedOffEvent creates an InvoiceKnockedOffEvent
func NewInvoiceKnockedOffEvent(i *Invoice, amount decimal.Decimal) *InvoiceKnockedOffEvent {
	return &InvoiceKnockedOffEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceKnockedOff, aggregateTypeInvoice, i.ID, i.TenantID),
		InvoiceNumber:   i.InvoiceNumber,
		Amount:          amount,
		Outstanding:     i.OutstandingAmount,
		Status:          i.Status,
	}
}

// InvoiceVoidedEvent is published when a ledger invoice is voided
type InvoiceVoidedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
}

// NewInvoiceVoidedEvent creates an InvoiceVoidedEvent
func NewInvoiceVoidedEvent(i *Invoice) *InvoiceVoidedEvent {
	return &InvoiceVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceVoided, aggregateTypeInvoice, i.ID, i.TenantID),
		InvoiceNumber:   i.InvoiceNumber,
	}
}

// PaymentCreatedEvent is published when a payment is created
type PaymentCreatedEvent struct {
	shared.BaseDomainEvent
	Kind          LedgerKind      `json:"kind"`
	PaymentNumber string          `json:"payment_number"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewPaymentCreatedEvent creates a PaymentCreatedEvent
func NewPaymentCreatedEvent(p *Payment) *PaymentCreatedEvent {
	return &PaymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPaymentCreated, aggregateTypePayment, p.ID, p.TenantID),
		Kind:            p.Kind,
		PaymentNumber:   p.PaymentNumber,
		Amount:          p.Amount,
	}
}

// PaymentVoidedEvent is published when a payment is voided
type PaymentVoidedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string `json:"payment_number"`
	Reason        string `json:"reason"`
}

// NewPaymentVoidedEvent creates a PaymentVoidedEvent
func NewPaymentVoidedEvent(p *Payment) *PaymentVoidedEvent {
	return &PaymentVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPaymentVoided, aggregateTypePayment, p.ID, p.TenantID),
		PaymentNumber:   p.PaymentNumber,
		Reason:          p.VoidReason,
	}
}
