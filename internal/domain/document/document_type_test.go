package document

import (
	"testing"

	"github.com/docflow/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
)

func TestDocumentType_CanTransferTo(t *testing.T) {
	tests := []struct {
		name     string
		from     DocumentType
		to       DocumentType
		expected bool
	}{
		{"order to invoice", TypeSalesOrder, TypeSalesInvoice, true},
		{"quotation to order", TypeSalesQuotation, TypeSalesOrder, true},
		{"quotation skips to invoice", TypeSalesQuotation, TypeSalesInvoice, true},
		{"request to order", TypePurchaseRequest, TypePurchaseOrder, true},
		{"order to goods received", TypePurchaseOrder, TypeGoodsReceived, true},
		{"same stage", TypeSalesOrder, TypeSalesOrder, false},
		{"backwards", TypeSalesInvoice, TypeSalesOrder, false},
		{"cross domain", TypePurchaseOrder, TypeSalesInvoice, false},
		{"invalid target", TypeSalesOrder, DocumentType("BOGUS"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.from.CanTransferTo(tc.to))
		})
	}
}

func TestDocumentType_Domain(t *testing.T) {
	assert.Equal(t, DomainPurchase, TypeGoodsReceived.Domain())
	assert.Equal(t, DomainSales, TypeDeliveryOrder.Domain())
	assert.Equal(t, DocumentDomain(""), DocumentType("BOGUS").Domain())
}

func TestDocumentType_IsInvoice(t *testing.T) {
	assert.True(t, TypePurchaseInvoice.IsInvoice())
	assert.True(t, TypeSalesInvoice.IsInvoice())
	assert.False(t, TypeSalesOrder.IsInvoice())
	assert.False(t, TypeGoodsReceived.IsInvoice())
}

func TestDocumentType_CounterpartyKind(t *testing.T) {
	assert.Equal(t, valueobject.KindVendor, TypePurchaseOrder.CounterpartyKind())
	assert.Equal(t, valueobject.KindCustomer, TypeSalesQuotation.CounterpartyKind())
}

func TestDocumentType_StockDirection(t *testing.T) {
	assert.Equal(t, StockDirectionIn, TypeGoodsReceived.StockDirection())
	assert.Equal(t, StockDirectionOut, TypeDeliveryOrder.StockDirection())
	assert.Equal(t, StockDirectionNone, TypeSalesInvoice.StockDirection())

	assert.Equal(t, StockDirectionOut, StockDirectionIn.Opposite())
	assert.Equal(t, StockDirectionIn, StockDirectionOut.Opposite())
	assert.Equal(t, StockDirectionNone, StockDirectionNone.Opposite())
}
