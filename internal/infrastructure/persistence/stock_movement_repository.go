package persistence

import (
	"context"
	"time"

	"github.com/docflow/backend/internal/application/chain"
	"github.com/docflow/backend/internal/domain/document"
	"github.com/docflow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStockMovementRepository records the physical stock movements caused
// by goods receipts and delivery orders, one row per document line. Void
// reversals insert opposite-direction rows instead of deleting history.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// RecordMovement inserts one movement row per document line in the given
// direction
func (r *GormStockMovementRepository) RecordMovement(ctx context.Context, tenantID uuid.UUID, doc *document.Document, direction document.StockDirection) error {
	if direction == document.StockDirectionNone || len(doc.Lines) == 0 {
		return nil
	}
	now := time.Now()
	movements := make([]models.StockMovementModel, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		movements = append(movements, models.StockMovementModel{
			BaseModel: models.BaseModel{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			TenantID:    tenantID,
			DocumentID:  doc.ID,
			DocType:     string(doc.DocType),
			ProductID:   line.ProductID,
			ProductCode: line.ProductCode,
			Direction:   string(direction),
			Quantity:    line.Quantity,
		})
	}
	return dbFrom(ctx, r.db).Create(&movements).Error
}

// StockOnHand sums movements for one product: IN adds, OUT subtracts
func (r *GormStockMovementRepository) StockOnHand(ctx context.Context, tenantID, productID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := dbFrom(ctx, r.db).Model(&models.StockMovementModel{}).
		Select("COALESCE(SUM(CASE WHEN direction = 'IN' THEN quantity ELSE -quantity END), 0)").
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

var _ chain.InventoryService = (*GormStockMovementRepository)(nil)
