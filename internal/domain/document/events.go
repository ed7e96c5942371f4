package document

import (
	"github.com/docflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the document aggregate
const (
	EventDocumentCreated     = "document.created"
	EventDocumentUpdated     = "document.updated"
	EventDocumentTransferred = "document.transferred"
	EventDocumentPosted      = "document.posted"
	EventDocumentVoided      = "document.voided"
)

const aggregateTypeDocument = "Document"

// DocumentCreatedEvent is published when a document is created
type DocumentCreatedEvent struct {
	shared.BaseDomainEvent
	DocType        DocumentType    `json:"doc_type"`
	DocumentNumber string          `json:"document_number"`
	NetTotal       decimal.Decimal `json:"net_total"`
	SourceID       *uuid.UUID      `json:"source_id,omitempty"`
}

// NewDocumentCreatedEvent creates a DocumentCreatedEvent
func NewDocumentCreatedEvent(d *Document) *DocumentCreatedEvent {
	return &DocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDocumentCreated, aggregateTypeDocument, d.ID, d.TenantID),
		DocType:         d.DocType,
		DocumentNumber:  d.DocumentNumber,
		NetTotal:        d.NetTotal,
		SourceID:        d.SourceID,
	}
}

// DocumentUpdatedEvent is published when document lines are edited
type DocumentUpdatedEvent struct {
	shared.BaseDomainEvent
	DocType        DocumentType    `json:"doc_type"`
	DocumentNumber string          `json:"document_number"`
	NetTotal       decimal.Decimal `json:"net_total"`
}

// NewDocumentUpdatedEvent creates a DocumentUpdatedEvent
func NewDocumentUpdatedEvent(d *Document) *DocumentUpdatedEvent {
	return &DocumentUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDocumentUpdated, aggregateTypeDocument, d.ID, d.TenantID),
		DocType:         d.DocType,
		DocumentNumber:  d.DocumentNumber,
		NetTotal:        d.NetTotal,
	}
}

// DocumentTransferredEvent is published on the source document when a
// transfer produces a downstream document
type DocumentTransferredEvent struct {
	shared.BaseDomainEvent
	SourceType     DocumentType   `json:"source_type"`
	TargetID       uuid.UUID      `json:"target_id"`
	TargetType     DocumentType   `json:"target_type"`
	TargetNumber   string         `json:"target_number"`
	TransferStatus TransferStatus `json:"transfer_status"`
}

// NewDocumentTransferredEvent creates a DocumentTransferredEvent
func NewDocumentTransferredEvent(source, target *Document) *DocumentTransferredEvent {
	return &DocumentTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDocumentTransferred, aggregateTypeDocument, source.ID, source.TenantID),
		SourceType:      source.DocType,
		TargetID:        target.ID,
		TargetType:      target.DocType,
		TargetNumber:    target.DocumentNumber,
		TransferStatus:  source.TransferStatus,
	}
}

// DocumentPostedEvent is published when an invoice document is posted to
// the ledger
type DocumentPostedEvent struct {
	shared.BaseDomainEvent
	DocType         DocumentType    `json:"doc_type"`
	DocumentNumber  string          `json:"document_number"`
	LedgerInvoiceID uuid.UUID       `json:"ledger_invoice_id"`
	NetTotal        decimal.Decimal `json:"net_total"`
}

// NewDocumentPostedEvent creates a DocumentPostedEvent
func NewDocumentPostedEvent(d *Document) *DocumentPostedEvent {
	var ledgerID uuid.UUID
	if d.LedgerInvoiceID != nil {
		ledgerID = *d.LedgerInvoiceID
	}
	return &DocumentPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDocumentPosted, aggregateTypeDocument, d.ID, d.TenantID),
		DocType:         d.DocType,
		DocumentNumber:  d.DocumentNumber,
		LedgerInvoiceID: ledgerID,
		NetTotal:        d.NetTotal,
	}
}

// DocumentVoidedEvent is published when a document is voided
type DocumentVoidedEvent struct {
	shared.BaseDomainEvent
	DocType        DocumentType `json:"doc_type"`
	DocumentNumber string       `json:"document_number"`
	Reason         string       `json:"reason"`
}

// NewDocumentVoidedEvent creates a DocumentVoidedEvent
func NewDocumentVoidedEvent(d *Document) *DocumentVoidedEvent {
	return &DocumentVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDocumentVoided, aggregateTypeDocument, d.ID, d.TenantID),
		DocType:         d.DocType,
		DocumentNumber:  d.DocumentNumber,
		Reason:          d.VoidReason,
	}
}
