package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/docflow/backend/internal/domain/document"
	"github.com/docflow/backend/internal/domain/ledger"
	"github.com/docflow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// number prefixes per sequence scope
var sequencePrefixes = map[string]string{
	string(document.TypePurchaseRequest): "PR",
	string(document.TypePurchaseOrder):   "PO",
	string(document.TypeGoodsReceived):   "GR",
	string(document.TypePurchaseInvoice): "PI",
	string(document.TypeSalesQuotation):  "SQ",
	string(document.TypeSalesOrder):      "SO",
	string(document.TypeDeliveryOrder):   "DO",
	string(document.TypeSalesInvoice):    "INV",
	string(ledger.KindReceivable):        "RCP",
	string(ledger.KindPayable):           "PV",
}

// GormSequenceRepository issues per-tenant number sequences for documents
// and payments. The bump is a single UPDATE, so concurrent callers
// serialize on the row without an explicit lock; running it inside the
// caller's unit of work keeps issued numbers gapless on rollback.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next issues the next document number for the given type
func (r *GormSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, docType document.DocumentType) (string, error) {
	return r.next(ctx, tenantID, string(docType))
}

func (r *GormSequenceRepository) next(ctx context.Context, tenantID uuid.UUID, scope string) (string, error) {
	db := dbFrom(ctx, r.db)
	prefix, ok := sequencePrefixes[scope]
	if !ok {
		return "", fmt.Errorf("no number sequence for scope %q", scope)
	}

	result := db.Model(&models.NumberSequenceModel{}).
		Where("tenant_id = ? AND scope = ?", tenantID, scope).
		Updates(map[string]interface{}{
			"next_value": gorm.Expr("next_value + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		seq := models.NumberSequenceModel{
			TenantID:  tenantID,
			Scope:     scope,
			Prefix:    prefix,
			NextValue: 2,
			UpdatedAt: time.Now(),
		}
		if err := db.Create(&seq).Error; err != nil {
			return "", err
		}
		return fmt.Sprintf("%s-%06d", prefix, 1), nil
	}

	var seq models.NumberSequenceModel
	if err := db.Where("tenant_id = ? AND scope = ?", tenantID, scope).First(&seq).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", seq.Prefix, seq.NextValue-1), nil
}

// GormPaymentSequenceRepository adapts the sequence table to payment numbers
type GormPaymentSequenceRepository struct {
	inner *GormSequenceRepository
}

// NewGormPaymentSequenceRepository creates a payment number generator
func NewGormPaymentSequenceRepository(db *gorm.DB) *GormPaymentSequenceRepository {
	return &GormPaymentSequenceRepository{inner: NewGormSequenceRepository(db)}
}

// Next issues the next payment number for the given ledger kind
func (r *GormPaymentSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, kind ledger.LedgerKind) (string, error) {
	return r.inner.next(ctx, tenantID, string(kind))
}

var (
	_ document.NumberGenerator      = (*GormSequenceRepository)(nil)
	_ ledger.PaymentNumberGenerator = (*GormPaymentSequenceRepository)(nil)
)
