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

// GormPaymentRepository implements ledger.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Save persists a payment with its knockoff lines
func (r *GormPaymentRepository) Save(ctx context.Context, p *ledger.Payment) error {
	model := models.PaymentModelFromDomain(p)
	return dbFrom(ctx, r.db).Save(model).Error
}

// FindByID loads a payment with its knockoffs, scoped to the tenant
func (r *GormPaymentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Payment, error) {
	var model models.PaymentModel
	if err := dbFrom(ctx, r.db).
		Preload("Knockoffs").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByInvoice returns the active payments that knocked off against the
// given invoice
func (r *GormPaymentRepository) FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*ledger.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := dbFrom(ctx, r.db).
		Preload("Knockoffs").
		Joins("JOIN payment_knockoffs ON payment_knockoffs.payment_id = payments.id").
		Where("payments.tenant_id = ? AND payment_knockoffs.invoice_id = ? AND payments.status = ?",
			tenantID, invoiceID, ledger.PaymentStatusActive).
		Distinct("payments.*").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	payments := make([]*ledger.Payment, 0, len(paymentModels))
	for i := range paymentModels {
		payments = append(payments, paymentModels[i].ToDomain())
	}
	return payments, nil
}

// List returns a filtered, paginated page of payments
func (r *GormPaymentRepository) List(ctx context.Context, tenantID uuid.UUID, filter ledger.PaymentFilter) (*shared.Paginated[*ledger.Payment], error) {
	query := dbFrom(ctx, r.db).Model(&models.PaymentModel{}).Where("tenant_id = ?", tenantID)

	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if !filter.IncludeVoided {
		query = query.Where("status = ?", ledger.PaymentStatusActive)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(payment_number) LIKE ? OR LOWER(counterparty_name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var paymentModels []models.PaymentModel
	if err := query.
		Preload("Knockoffs").
		Order(orderClause(filter.OrderBy, filter.OrderDir)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]*ledger.Payment, 0, len(paymentModels))
	for i := range paymentModels {
		payments = append(payments, paymentModels[i].ToDomain())
	}
	result := shared.NewPaginated(payments, total, page, pageSize)
	return &result, nil
}

var _ ledger.PaymentRepository = (*GormPaymentRepository)(nil)
