package chain

import (
	"context"

	"github.com/docflow/backend/internal/domain/document"
	"github.com/docflow/backend/internal/domain/ledger/acl"
	"github.com/docflow/backend/internal/domain/shared"
	"github.com/docflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransferService owns the document chains: creating documents, editing
// them, and converting them stage to stage. Invoice-stage documents are
// handed to the posting bridge inside the same unit of work.
type TransferService struct {
	docs           document.Repository
	numbers        document.NumberGenerator
	counterparties acl.CounterpartyService
	poster         LedgerPoster
	inventory      InventoryService
	uow            shared.UnitOfWork
	audit          shared.AuditSink
	events         shared.EventPublisher
	logger         *zap.Logger
}

// NewTransferService creates a TransferService
func NewTransferService(
	docs document.Repository,
	numbers document.NumberGenerator,
	counterparties acl.CounterpartyService,
	poster LedgerPoster,
	inventory InventoryService,
	uow shared.UnitOfWork,
	audit shared.AuditSink,
	logger *zap.Logger,
) *TransferService {
	return &TransferService{
		docs:           docs,
		numbers:        numbers,
		counterparties: counterparties,
		poster:         poster,
		inventory:      inventory,
		uow:            uow,
		audit:          audit,
		logger:         logger,
	}
}

// SetEventPublisher wires a bus for the domain events the aggregates
// record. Without one the events are discarded at commit.
func (s *TransferService) SetEventPublisher(events shared.EventPublisher) {
	s.events = events
}

// CreateDocument creates a new document at any stage of a chain. Invoice
// documents are posted to the ledger in the same transaction.
func (s *TransferService) CreateDocument(ctx context.Context, cmd CreateDocumentCommand, actorID string) (*document.Document, error) {
	if len(cmd.Lines) == 0 {
		return nil, shared.NewValidationError("NO_LINES", "Document must have at least one line")
	}

	counterparty, err := s.counterparties.Resolve(ctx, cmd.TenantID, cmd.DocType.CounterpartyKind(), cmd.CounterpartyID)
	if err != nil {
		return nil, err
	}

	var doc *document.Document
	err = s.uow.WithinTx(ctx, func(ctx context.Context) error {
		number, err := s.numbers.Next(ctx, cmd.TenantID, cmd.DocType)
		if err != nil {
			return err
		}

		doc, err = document.NewDocument(cmd.TenantID, cmd.DocType, number, cmd.DocumentDate, counterparty)
		if err != nil {
			return err
		}
		if cmd.ExchangeRate != nil {
			if err := doc.SetExchangeRate(*cmd.ExchangeRate); err != nil {
				return err
			}
		}
		doc.SetReference(cmd.Reference)
		doc.SetRemark(cmd.Remark)

		for _, line := range cmd.Lines {
			input, err := toLineInput(line, doc.CurrencyCode)
			if err != nil {
				return err
			}
			if _, err := doc.AddLine(input); err != nil {
				return err
			}
		}

		if err := s.docs.Save(ctx, doc); err != nil {
			return err
		}

		if doc.DocType.IsInvoice() {
			ledgerID, err := s.poster.PostDocument(ctx, doc)
			if err != nil {
				return err
			}
			if err := doc.MarkPosted(ledgerID); err != nil {
				return err
			}
			return s.docs.Save(ctx, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, doc, doc.DocType.StockDirection(), actorID, "document.create")

	return doc, nil
}

// UpdateDocument replaces the lines and header fields of a document that
// has not yet been transferred. If the document is posted, the linked
// ledger invoice is re-synced in the same transaction.
func (s *TransferService) UpdateDocument(ctx context.Context, cmd UpdateDocumentCommand, actorID string) (*document.Document, error) {
	var doc *document.Document
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.docs.FindByID(ctx, cmd.TenantID, cmd.DocumentID)
		if err != nil {
			return err
		}
		expectedVersion := doc.GetVersion()

		if cmd.DocumentDate != nil {
			doc.DocumentDate = *cmd.DocumentDate
		}
		if cmd.Reference != nil {
			doc.SetReference(*cmd.Reference)
		}
		if cmd.Remark != nil {
			doc.SetRemark(*cmd.Remark)
		}

		if len(cmd.Lines) > 0 {
			inputs := make([]document.LineInput, 0, len(cmd.Lines))
			for _, line := range cmd.Lines {
				input, err := toLineInput(line, doc.CurrencyCode)
				if err != nil {
					return err
				}
				inputs = append(inputs, input)
			}
			if err := doc.ReplaceLines(inputs); err != nil {
				return err
			}
		}

		if err := s.docs.SaveWithLock(ctx, doc, expectedVersion); err != nil {
			return err
		}

		if doc.IsPosted {
			return s.poster.SyncDocument(ctx, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorID, "document.update", "Document", doc.ID.String())
	publishDomainEvents(ctx, s.events, s.logger, doc)

	return doc, nil
}

// Transfer converts a source document, or a subset of its lines, into a
// new document of a later stage. Source decrement and target creation
// commit atomically; invoice targets are posted in the same transaction.
func (s *TransferService) Transfer(ctx context.Context, cmd TransferCommand, actorID string) (*document.Document, error) {
	var source, target *document.Document
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		source, err = s.docs.FindByID(ctx, cmd.TenantID, cmd.SourceID)
		if err != nil {
			return err
		}
		expectedVersion := source.GetVersion()

		number, err := s.numbers.Next(ctx, cmd.TenantID, cmd.TargetType)
		if err != nil {
			return err
		}

		transfers := make([]document.LineTransfer, 0, len(cmd.Lines))
		for _, line := range cmd.Lines {
			transfers = append(transfers, document.LineTransfer{LineID: line.LineID, Quantity: line.Quantity})
		}

		target, err = source.TransferTo(cmd.TargetType, number, cmd.DocumentDate, transfers)
		if err != nil {
			return err
		}

		// version check on the source guards the outstanding quantities
		// against a concurrent transfer
		if err := s.docs.SaveWithLock(ctx, source, expectedVersion); err != nil {
			return err
		}
		if err := s.docs.Save(ctx, target); err != nil {
			return err
		}

		if target.DocType.IsInvoice() {
			ledgerID, err := s.poster.PostDocument(ctx, target)
			if err != nil {
				return err
			}
			if err := target.MarkPosted(ledgerID); err != nil {
				return err
			}
			return s.docs.Save(ctx, target)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, target, target.DocType.StockDirection(), actorID, "document.transfer")
	publishDomainEvents(ctx, s.events, s.logger, source)

	return target, nil
}

// GetDocument loads one document with its lines
func (s *TransferService) GetDocument(ctx context.Context, tenantID, id uuid.UUID) (*document.Document, error) {
	return s.docs.FindByID(ctx, tenantID, id)
}

// ListDocuments returns a filtered page of documents
func (s *TransferService) ListDocuments(ctx context.Context, tenantID uuid.UUID, filter document.DocumentFilter) (*shared.Paginated[*document.Document], error) {
	return s.docs.List(ctx, tenantID, filter)
}

// afterCommit runs the side effects that must not roll back the core
// transaction: stock movements and audit recording
func (s *TransferService) afterCommit(ctx context.Context, doc *document.Document, direction document.StockDirection, actorID, action string) {
	if direction != document.StockDirectionNone && s.inventory != nil {
		if err := s.inventory.RecordMovement(ctx, doc.TenantID, doc, direction); err != nil {
			s.logger.Error("inventory movement failed",
				zap.String("document_id", doc.ID.String()),
				zap.String("direction", string(direction)),
				zap.Error(err))
		}
	}
	s.audit.Record(ctx, actorID, action, "Document", doc.ID.String())
	publishDomainEvents(ctx, s.events, s.logger, doc)
}

func toLineInput(cmd LineCommand, currency valueobject.Currency) (document.LineInput, error) {
	price, err := valueobject.NewMoney(cmd.UnitPrice, currency)
	if err != nil {
		return document.LineInput{}, err
	}
	return document.LineInput{
		ProductID:       cmd.ProductID,
		ProductCode:     cmd.ProductCode,
		ProductName:     cmd.ProductName,
		Quantity:        cmd.Quantity,
		UnitPrice:       price,
		DiscountPercent: cmd.DiscountPercent,
		TaxPercent:      cmd.TaxPercent,
	}, nil
}
