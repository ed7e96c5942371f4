package persistence

import (
	"context"
	"errors"

	"github.com/docflow/backend/internal/domain/ledger/acl"
	"github.com/docflow/backend/internal/domain/shared"
	"github.com/docflow/backend/internal/domain/shared/valueobject"
	"github.com/docflow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCounterpartyRepository resolves counterparty snapshots from the
// master-data table. It implements the anti-corruption port the document
// and ledger cores depend on.
type GormCounterpartyRepository struct {
	db *gorm.DB
}

// NewGormCounterpartyRepository creates a new GormCounterpartyRepository
func NewGormCounterpartyRepository(db *gorm.DB) *GormCounterpartyRepository {
	return &GormCounterpartyRepository{db: db}
}

// Resolve returns a point-in-time snapshot of an active counterparty of
// the given kind
func (r *GormCounterpartyRepository) Resolve(ctx context.Context, tenantID uuid.UUID, kind valueobject.CounterpartyKind, id uuid.UUID) (valueobject.CounterpartyRef, error) {
	var model models.CounterpartyModel
	err := dbFrom(ctx, r.db).
		Where("tenant_id = ? AND id = ? AND kind = ? AND is_active = ?", tenantID, id, kind, true).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return valueobject.CounterpartyRef{}, shared.NewNotFoundError("COUNTERPARTY_NOT_FOUND",
			"no active "+string(kind)+" with this ID")
	}
	if err != nil {
		return valueobject.CounterpartyRef{}, err
	}
	return valueobject.NewCounterpartyRef(
		valueobject.CounterpartyKind(model.Kind),
		model.ID,
		model.Code,
		model.Name,
		valueobject.Currency(model.CurrencyCode),
		model.CreditTermDays,
	)
}

// Upsert creates or updates a counterparty master-data record
func (r *GormCounterpartyRepository) Upsert(ctx context.Context, model *models.CounterpartyModel) error {
	return dbFrom(ctx, r.db).Save(model).Error
}

var _ acl.CounterpartyService = (*GormCounterpartyRepository)(nil)
