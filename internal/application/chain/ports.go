package chain

import (
	"context"

	"github.com/docflow/backend/internal/domain/document"
	"github.com/google/uuid"
)

// LedgerPoster is the posting bridge seen from the chain side: invoice
// documents are posted to the ledger on creation, re-synced on edit and
// unposted on void.
type LedgerPoster interface {
	// PostDocument derives a ledger invoice from an invoice document and
	// returns its ID
	PostDocument(ctx context.Context, doc *document.Document) (uuid.UUID, error)

	// SyncDocument realigns the linked ledger invoice after a source edit
	SyncDocument(ctx context.Context, doc *document.Document) error

	// UnpostDocument voids the linked ledger invoice when the source
	// document is voided
	UnpostDocument(ctx context.Context, doc *document.Document) error
}

// InventoryService records physical stock movements caused by goods
// receipts and delivery orders. Implementations are called after the core
// transaction commits; a failure here never rolls back the document.
type InventoryService interface {
	RecordMovement(ctx context.Context, tenantID uuid.UUID, doc *document.Document, direction document.StockDirection) error
}
