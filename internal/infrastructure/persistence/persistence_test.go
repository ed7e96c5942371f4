package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/docflow/backend/internal/domain/document"
	"github.com/docflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

func testCustomer(t *testing.T) valueobject.CounterpartyRef {
	t.Helper()
	ref, err := valueobject.NewCounterpartyRef(
		valueobject.KindCustomer, uuid.New(), "CUST-001", "Acme Trading", valueobject.USD, 30)
	require.NoError(t, err)
	return ref
}

func testVendor(t *testing.T) valueobject.CounterpartyRef {
	t.Helper()
	ref, err := valueobject.NewCounterpartyRef(
		valueobject.KindVendor, uuid.New(), "VEND-001", "Globex Supplies", valueobject.USD, 45)
	require.NoError(t, err)
	return ref
}

func newSalesOrder(t *testing.T, tenantID uuid.UUID, number string, customer valueobject.CounterpartyRef) *document.Document {
	t.Helper()
	doc, err := document.NewDocument(tenantID, document.TypeSalesOrder, number, time.Now(), customer)
	require.NoError(t, err)
	_, err = doc.AddLine(document.LineInput{
		ProductID:   uuid.New(),
		ProductCode: "SKU-100",
		ProductName: "Widget",
		Quantity:    decimal.NewFromInt(10),
		UnitPrice:   valueobject.MustMoney(decimal.NewFromInt(100), valueobject.USD),
		TaxPercent:  decimal.NewFromInt(6),
	})
	require.NoError(t, err)
	return doc
}

func mustUSD(t *testing.T, amount int64) valueobject.Money {
	t.Helper()
	return valueobject.MustMoney(decimal.NewFromInt(amount), valueobject.USD)
}

func ctxBG() context.Context {
	return context.Background()
}
