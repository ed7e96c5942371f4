package document

import (
	"context"

	"github.com/docflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentFilter narrows document listings
type DocumentFilter struct {
	shared.Filter
	DocType        *DocumentType
	Status         *DocumentStatus
	CounterpartyID *uuid.UUID
	IncludeVoided  bool
}

// Repository provides persistence for documents
type Repository interface {
	// Save persists a document and its lines
	Save(ctx context.Context, doc *Document) error

	// SaveWithLock persists the document only if its stored version still
	// matches; returns a CONCURRENCY error on a lost race
	SaveWithLock(ctx context.Context, doc *Document, expectedVersion int) error

	// FindByID loads a document with its lines, scoped to the tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Document, error)

	// FindByNumber loads a document by its document number
	FindByNumber(ctx context.Context, tenantID uuid.UUID, docType DocumentType, number string) (*Document, error)

	// FindChildren returns the non-void documents created by transfer from
	// the given source document
	FindChildren(ctx context.Context, tenantID, sourceID uuid.UUID) ([]*Document, error)

	// List returns a filtered, paginated page of documents
	List(ctx context.Context, tenantID uuid.UUID, filter DocumentFilter) (*shared.Paginated[*Document], error)

	// HardDelete removes an effect-free document and its lines entirely
	HardDelete(ctx context.Context, tenantID, id uuid.UUID) error

	// ExistsByNumber checks for a duplicate document number within a type
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, docType DocumentType, number string) (bool, error)
}

// NumberGenerator issues the next document number for a type, one gapless
// sequence per tenant and type
type NumberGenerator interface {
	Next(ctx context.Context, tenantID uuid.UUID, docType DocumentType) (string, error)
}
