package chain

import (
	"time"

	"github.com/docflow/backend/internal/domain/document"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDocumentCommand creates a new head-of-chain document
type CreateDocumentCommand struct {
	TenantID       uuid.UUID
	DocType        document.DocumentType
	CounterpartyID uuid.UUID
	DocumentDate   time.Time
	Reference      string
	Remark         string
	ExchangeRate   *decimal.Decimal
	Lines          []LineCommand
}

// LineCommand is one requested document line
type LineCommand struct {
	ProductID       uuid.UUID
	ProductCode     string
	ProductName     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

// UpdateDocumentCommand replaces the lines and header fields of a document
type UpdateDocumentCommand struct {
	TenantID     uuid.UUID
	DocumentID   uuid.UUID
	DocumentDate *time.Time
	Reference    *string
	Remark       *string
	Lines        []LineCommand
}

// TransferCommand converts a source document into a later-stage document
type TransferCommand struct {
	TenantID     uuid.UUID
	SourceID     uuid.UUID
	TargetType   document.DocumentType
	DocumentDate time.Time
	// Lines empty means transfer everything outstanding
	Lines []LineTransferCommand
}

// LineTransferCommand requests moving a quantity from one source line
type LineTransferCommand struct {
	LineID   uuid.UUID
	Quantity decimal.Decimal
}

// VoidCommand voids or deletes a document
type VoidCommand struct {
	TenantID   uuid.UUID
	DocumentID uuid.UUID
	Reason     string
	ActorID    string
}

// VoidResult reports what the void handler did
type VoidResult struct {
	// HardDeleted is true when the document had no downstream effects and
	// was removed outright instead of being marked void
	HardDeleted bool
	// ReversedSteps lists the compensations applied, in order
	ReversedSteps []string
}
