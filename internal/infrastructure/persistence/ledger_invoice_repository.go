package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/docflow/backend/internal/domain/ledger"
	"github.com/docflow/backend/internal/domain/shared"
	"github.com/docflow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLedgerInvoiceRepository implements ledger.InvoiceRepository using GORM
type GormLedgerInvoiceRepository struct {
	db *gorm.DB
}

// NewGormLedgerInvoiceRepository creates a new GormLedgerInvoiceRepository
func NewGormLedgerInvoiceRepository(db *gorm.DB) *GormLedgerInvoiceRepository {
	return &GormLedgerInvoiceRepository{db: db}
}

// Save persists a ledger invoice
func (r *GormLedgerInvoiceRepository) Save(ctx context.Context, inv *ledger.Invoice) error {
	model := models.LedgerInvoiceModelFromDomain(inv)
	return dbFrom(ctx, r.db).Save(model).Error
}

// SaveWithLock persists the invoice only if its stored version still matches
func (r *GormLedgerInvoiceRepository) SaveWithLock(ctx context.Context, inv *ledger.Invoice, expectedVersion int) error {
	model := models.LedgerInvoiceModelFromDomain(inv)
	result := dbFrom(ctx, r.db).Model(&models.LedgerInvoiceModel{}).
		Where("id = ? AND version = ?", inv.ID, expectedVersion).
		Select("*").Omit("created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID loads an invoice scoped to the tenant
func (r *GormLedgerInvoiceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Invoice, error) {
	var model models.LedgerInvoiceModel
	if err := dbFrom(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySourceDocument loads the invoice derived from a source document
func (r *GormLedgerInvoiceRepository) FindBySourceDocument(ctx context.Context, tenantID, sourceDocumentID uuid.UUID) (*ledger.Invoice, error) {
	var model models.LedgerInvoiceModel
	if err := dbFrom(ctx, r.db).
		Where("tenant_id = ? AND source_document_id = ?", tenantID, sourceDocumentID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOutstandingByCounterparty returns unsettled invoices of one
// counterparty, oldest due date first
func (r *GormLedgerInvoiceRepository) FindOutstandingByCounterparty(ctx context.Context, tenantID uuid.UUID, kind ledger.LedgerKind, counterpartyID uuid.UUID) ([]*ledger.Invoice, error) {
	var invoiceModels []models.LedgerInvoiceModel
	if err := dbFrom(ctx, r.db).
		Where("tenant_id = ? AND kind = ? AND counterparty_id = ? AND is_void = ? AND outstanding_amount > 0",
			tenantID, kind, counterpartyID, false).
		Order("due_date asc, invoice_date asc").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	invoices := make([]*ledger.Invoice, 0, len(invoiceModels))
	for i := range invoiceModels {
		invoices = append(invoices, invoiceModels[i].ToDomain())
	}
	return invoices, nil
}

// List returns a filtered, paginated page of invoices
func (r *GormLedgerInvoiceRepository) List(ctx context.Context, tenantID uuid.UUID, filter ledger.InvoiceFilter) (*shared.Paginated[*ledger.Invoice], error) {
	query := dbFrom(ctx, r.db).Model(&models.LedgerInvoiceModel{}).Where("tenant_id = ?", tenantID)

	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if filter.OutstandingOnly {
		query = query.Where("outstanding_amount > 0")
	}
	if !filter.IncludeVoided {
		query = query.Where("is_void = ?", false)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(invoice_number) LIKE ? OR LOWER(counterparty_name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var invoiceModels []models.LedgerInvoiceModel
	if err := query.
		Order(orderClause(filter.OrderBy, filter.OrderDir)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]*ledger.Invoice, 0, len(invoiceModels))
	for i := range invoiceModels {
		invoices = append(invoices, invoiceModels[i].ToDomain())
	}
	result := shared.NewPaginated(invoices, total, page, pageSize)
	return &result, nil
}

var _ ledger.InvoiceRepository = (*GormLedgerInvoiceRepository)(nil)
