package persistence

import (
	"testing"
	"time"

	"github.com/docflow/backend/internal/domain/document"
	"github.com/docflow/backend/internal/domain/shared"
	"github.com/docflow/backend/internal/domain/shared/valueobject"
	"github.com/docflow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedCounterparty(t *testing.T, repo *GormCounterpartyRepository, tenantID uuid.UUID, kind valueobject.CounterpartyKind, active bool) *models.CounterpartyModel {
	t.Helper()
	now := time.Now()
	model := &models.CounterpartyModel{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TenantID:       tenantID,
		Kind:           string(kind),
		Code:           "CP-" + uuid.NewString()[:8],
		Name:           "Test Counterparty",
		CurrencyCode:   string(valueobject.USD),
		CreditTermDays: 30,
		IsActive:       active,
	}
	require.NoError(t, repo.Upsert(ctxBG(), model))
	return model
}

func TestGormCounterpartyRepository_Resolve(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCounterpartyRepository(db)
	tenantID := uuid.New()

	model := seedCounterparty(t, repo, tenantID, valueobject.KindCustomer, true)

	ref, err := repo.Resolve(ctxBG(), tenantID, valueobject.KindCustomer, model.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.KindCustomer, ref.Kind)
	assert.Equal(t, model.ID, ref.ID)
	assert.Equal(t, model.Code, ref.Code)
	assert.Equal(t, valueobject.USD, ref.Currency)
	assert.Equal(t, 30, ref.CreditTermDays)
}

func TestGormCounterpartyRepository_Resolve_WrongKind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCounterpartyRepository(db)
	tenantID := uuid.New()

	model := seedCounterparty(t, repo, tenantID, valueobject.KindCustomer, true)

	_, err := repo.Resolve(ctxBG(), tenantID, valueobject.KindVendor, model.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.KindNotFound, domainErr.Kind)
}

func TestGormCounterpartyRepository_Resolve_Inactive(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCounterpartyRepository(db)
	tenantID := uuid.New()

	model := seedCounterparty(t, repo, tenantID, valueobject.KindVendor, false)

	_, err := repo.Resolve(ctxBG(), tenantID, valueobject.KindVendor, model.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.KindNotFound, domainErr.Kind)
}

func TestGormStockMovementRepository_RecordMovementAndStockOnHand(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStockMovementRepository(db)
	tenantID := uuid.New()

	doc := newSalesOrder(t, tenantID, "DO-000001", testCustomer(t))
	productID := doc.Lines[0].ProductID

	require.NoError(t, repo.RecordMovement(ctxBG(), tenantID, doc, document.StockDirectionIn))

	onHand, err := repo.StockOnHand(ctxBG(), tenantID, productID)
	require.NoError(t, err)
	assert.True(t, onHand.Equal(decimal.NewFromInt(10)))

	// the reversal entry nets the product back to zero
	require.NoError(t, repo.RecordMovement(ctxBG(), tenantID, doc, document.StockDirectionOut))

	onHand, err = repo.StockOnHand(ctxBG(), tenantID, productID)
	require.NoError(t, err)
	assert.True(t, onHand.IsZero())
}

func TestGormStockMovementRepository_NoDirectionNoRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStockMovementRepository(db)
	tenantID := uuid.New()

	doc := newSalesOrder(t, tenantID, "SO-000001", testCustomer(t))
	require.NoError(t, repo.RecordMovement(ctxBG(), tenantID, doc, document.StockDirectionNone))

	var count int64
	require.NoError(t, db.Model(&models.StockMovementModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGormAuditSink_RecordsEntryWithTenant(t *testing.T) {
	db := newTestDB(t)
	sink := NewGormAuditSink(db, zap.NewNop())
	tenantID := uuid.New()

	ctx := shared.WithTenant(ctxBG(), tenantID)
	sink.Record(ctx, "user-1", "document.voided", "Document", uuid.NewString())

	var entries []models.AuditLogModel
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, tenantID, entries[0].TenantID)
	assert.Equal(t, "user-1", entries[0].ActorID)
	assert.Equal(t, "document.voided", entries[0].Action)
}
