package chain

import (
	"context"

	"github.com/docflow/backend/internal/domain/document"
	"github.com/docflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// VoidService cancels documents. Two tiers apply: a document that has
// caused no effects anywhere is hard-deleted, a document with consequences
// is kept, marked VOID, and each of its effects is reversed in the same
// transaction.
type VoidService struct {
	docs      document.Repository
	poster    LedgerPoster
	inventory InventoryService
	uow       shared.UnitOfWork
	audit     shared.AuditSink
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewVoidService creates a VoidService
func NewVoidService(
	docs document.Repository,
	poster LedgerPoster,
	inventory InventoryService,
	uow shared.UnitOfWork,
	audit shared.AuditSink,
	logger *zap.Logger,
) *VoidService {
	return &VoidService{
		docs:      docs,
		poster:    poster,
		inventory: inventory,
		uow:       uow,
		audit:     audit,
		logger:    logger,
	}
}

// SetEventPublisher wires a bus for the domain events the aggregates
// record. Without one the events are discarded at commit.
func (s *VoidService) SetEventPublisher(events shared.EventPublisher) {
	s.events = events
}

// Void cancels a document. Documents with live downstream documents are
// rejected; those must be voided first, leaf to root.
func (s *VoidService) Void(ctx context.Context, cmd VoidCommand) (*VoidResult, error) {
	if cmd.Reason == "" {
		return nil, shared.NewValidationError("INVALID_REASON", "Void reason is required")
	}

	result := &VoidResult{ReversedSteps: make([]string, 0, 3)}
	var doc *document.Document
	var stockReversal document.StockDirection = document.StockDirectionNone

	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.docs.FindByID(ctx, cmd.TenantID, cmd.DocumentID)
		if err != nil {
			return err
		}
		if doc.IsVoid {
			return shared.NewStateConflictError("DOCUMENT_ALREADY_VOID", "Document already voided")
		}

		children, err := s.docs.FindChildren(ctx, cmd.TenantID, doc.ID)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return shared.NewStateConflictError("HAS_DOWNSTREAM_DOCUMENTS",
				"Document has downstream documents; void those first")
		}

		if !doc.HasDownstreamEffects() {
			return s.hardDelete(ctx, doc, result)
		}
		return s.softVoid(ctx, doc, cmd.Reason, result, &stockReversal)
	})
	if err != nil {
		return nil, err
	}

	if stockReversal != document.StockDirectionNone && s.inventory != nil {
		if err := s.inventory.RecordMovement(ctx, doc.TenantID, doc, stockReversal); err != nil {
			s.logger.Error("inventory reversal failed",
				zap.String("document_id", doc.ID.String()),
				zap.String("direction", string(stockReversal)),
				zap.Error(err))
		}
	}
	s.audit.Record(ctx, cmd.ActorID, "document.void", "Document", doc.ID.String())
	publishDomainEvents(ctx, s.events, s.logger, doc)

	return result, nil
}

// hardDelete removes an effect-free document outright; nothing references
// it, so no trace needs to remain
func (s *VoidService) hardDelete(ctx context.Context, doc *document.Document, result *VoidResult) error {
	if err := s.restoreSource(ctx, doc, result); err != nil {
		return err
	}
	if err := s.docs.HardDelete(ctx, doc.TenantID, doc.ID); err != nil {
		return err
	}
	result.HardDeleted = true
	result.ReversedSteps = append(result.ReversedSteps, "document_deleted")
	return nil
}

// softVoid marks the document VOID and compensates each effect it caused
func (s *VoidService) softVoid(ctx context.Context, doc *document.Document, reason string, result *VoidResult, stockReversal *document.StockDirection) error {
	expectedVersion := doc.GetVersion()

	if doc.IsPosted {
		if err := s.poster.UnpostDocument(ctx, doc); err != nil {
			return err
		}
		result.ReversedSteps = append(result.ReversedSteps, "ledger_invoice_voided")
	}

	if err := s.restoreSource(ctx, doc, result); err != nil {
		return err
	}

	if direction := doc.DocType.StockDirection(); direction != document.StockDirectionNone {
		*stockReversal = direction.Opposite()
		result.ReversedSteps = append(result.ReversedSteps, "stock_movement_reversed")
	}

	if err := doc.Void(reason); err != nil {
		return err
	}
	result.ReversedSteps = append(result.ReversedSteps, "document_voided")
	return s.docs.SaveWithLock(ctx, doc, expectedVersion)
}

// restoreSource gives the voided document's quantities back to the source
// it was transferred from, reopening the source if it was fully transferred
func (s *VoidService) restoreSource(ctx context.Context, doc *document.Document, result *VoidResult) error {
	if !doc.HasSource() {
		return nil
	}
	source, err := s.docs.FindByID(ctx, doc.TenantID, *doc.SourceID)
	if err != nil {
		return err
	}
	expectedVersion := source.GetVersion()
	if err := source.RestoreTransferredQuantities(doc.Lines); err != nil {
		return err
	}
	if err := s.docs.SaveWithLock(ctx, source, expectedVersion); err != nil {
		return err
	}
	result.ReversedSteps = append(result.ReversedSteps, "source_quantities_restored")
	return nil
}
