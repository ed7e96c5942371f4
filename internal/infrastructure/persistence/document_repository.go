package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/docflow/backend/internal/domain/document"
	"github.com/docflow/backend/internal/domain/shared"
	"github.com/docflow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDocumentRepository implements document.Repository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// Save persists a document and its lines
func (r *GormDocumentRepository) Save(ctx context.Context, doc *document.Document) error {
	model := models.DocumentModelFromDomain(doc)
	return dbFrom(ctx, r.db).Save(model).Error
}

// SaveWithLock persists the document only if its stored version still
// matches the expected one. Lines are replaced wholesale; the version
// check on the header guards the whole aggregate.
func (r *GormDocumentRepository) SaveWithLock(ctx context.Context, doc *document.Document, expectedVersion int) error {
	db := dbFrom(ctx, r.db)
	model := models.DocumentModelFromDomain(doc)

	result := db.Model(&models.DocumentModel{}).
		Where("id = ? AND version = ?", doc.ID, expectedVersion).
		Select("*").Omit("Lines", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	if err := db.Where("document_id = ?", doc.ID).Delete(&models.DocumentLineModel{}).Error; err != nil {
		return err
	}
	if len(model.Lines) > 0 {
		if err := db.Create(&model.Lines).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID loads a document with its lines, scoped to the tenant
func (r *GormDocumentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*document.Document, error) {
	var model models.DocumentModel
	if err := dbFrom(ctx, r.db).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber loads a document by its document number
func (r *GormDocumentRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, docType document.DocumentType, number string) (*document.Document, error) {
	var model models.DocumentModel
	if err := dbFrom(ctx, r.db).
		Preload("Lines").
		Where("tenant_id = ? AND doc_type = ? AND document_number = ?", tenantID, docType, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindChildren returns the non-void documents created by transfer from the
// given source document
func (r *GormDocumentRepository) FindChildren(ctx context.Context, tenantID, sourceID uuid.UUID) ([]*document.Document, error) {
	var docModels []models.DocumentModel
	if err := dbFrom(ctx, r.db).
		Preload("Lines").
		Where("tenant_id = ? AND source_id = ? AND is_void = ?", tenantID, sourceID, false).
		Find(&docModels).Error; err != nil {
		return nil, err
	}
	docs := make([]*document.Document, 0, len(docModels))
	for i := range docModels {
		docs = append(docs, docModels[i].ToDomain())
	}
	return docs, nil
}

// List returns a filtered, paginated page of documents
func (r *GormDocumentRepository) List(ctx context.Context, tenantID uuid.UUID, filter document.DocumentFilter) (*shared.Paginated[*document.Document], error) {
	db := dbFrom(ctx, r.db)
	query := db.Model(&models.DocumentModel{}).Where("tenant_id = ?", tenantID)

	if filter.DocType != nil {
		query = query.Where("doc_type = ?", *filter.DocType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if !filter.IncludeVoided {
		query = query.Where("is_void = ?", false)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(document_number) LIKE ? OR LOWER(counterparty_name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var docModels []models.DocumentModel
	if err := query.
		Preload("Lines").
		Order(orderClause(filter.OrderBy, filter.OrderDir)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&docModels).Error; err != nil {
		return nil, err
	}

	docs := make([]*document.Document, 0, len(docModels))
	for i := range docModels {
		docs = append(docs, docModels[i].ToDomain())
	}
	result := shared.NewPaginated(docs, total, page, pageSize)
	return &result, nil
}

// HardDelete removes a document and its lines entirely
func (r *GormDocumentRepository) HardDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	db := dbFrom(ctx, r.db)
	if err := db.Where("document_id = ?", id).Delete(&models.DocumentLineModel{}).Error; err != nil {
		return err
	}
	result := db.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.DocumentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByNumber checks for a duplicate document number within a type
func (r *GormDocumentRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, docType document.DocumentType, number string) (bool, error) {
	var count int64
	if err := dbFrom(ctx, r.db).Model(&models.DocumentModel{}).
		Where("tenant_id = ? AND doc_type = ? AND document_number = ?", tenantID, docType, number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	return page, pageSize
}

var allowedOrderColumns = map[string]bool{
	"created_at":      true,
	"updated_at":      true,
	"document_date":   true,
	"document_number": true,
	"net_total":       true,
	"due_date":        true,
	"payment_date":    true,
	"invoice_date":    true,
}

func orderClause(orderBy, orderDir string) string {
	if !allowedOrderColumns[orderBy] {
		orderBy = "created_at"
	}
	if strings.ToLower(orderDir) != "asc" {
		orderDir = "desc"
	}
	return orderBy + " " + orderDir
}

var _ document.Repository = (*GormDocumentRepository)(nil)
