package ledger

import (
	"time"

	"github.com/docflow/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePaymentCommand creates a payment and applies it against invoices
type CreatePaymentCommand struct {
	TenantID       uuid.UUID
	Kind           ledger.LedgerKind
	CounterpartyID uuid.UUID
	PaymentDate    time.Time
	Amount         decimal.Decimal
	Method         ledger.PaymentMethod
	Reference      string
	Remark         string
	// Allocations lists explicit invoice applications. Zero-amount entries
	// are dropped. Empty with AutoAllocate set means distribute oldest-first.
	Allocations  []AllocationCommand
	AutoAllocate bool
	// IdempotencyKey deduplicates retried submissions; empty disables the check
	IdempotencyKey string
	ActorID        string
}

// AllocationCommand applies part of a payment to one invoice
type AllocationCommand struct {
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
}

// VoidPaymentCommand cancels a payment and reverses its knockoffs
type VoidPaymentCommand struct {
	TenantID  uuid.UUID
	PaymentID uuid.UUID
	Reason    string
	ActorID   string
}

// DistributePreviewQuery plans an auto-distribution without mutating anything
type DistributePreviewQuery struct {
	TenantID       uuid.UUID
	Kind           ledger.LedgerKind
	CounterpartyID uuid.UUID
	Amount         decimal.Decimal
}

// DistributePreview is the planned allocation of an amount across invoices
type DistributePreview struct {
	Allocations []PlannedAllocation `json:"allocations"`
	Unapplied   decimal.Decimal     `json:"unapplied"`
}

// PlannedAllocation is one planned invoice application
type PlannedAllocation struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	DueDate       time.Time       `json:"due_date"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	Amount        decimal.Decimal `json:"amount"`
}
