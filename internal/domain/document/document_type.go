package document

import (
	"github.com/docflow/backend/internal/domain/shared/valueobject"
)

// DocumentDomain identifies which chain a document belongs to
type DocumentDomain string

const (
	DomainPurchase DocumentDomain = "PURCHASE"
	DomainSales    DocumentDomain = "SALES"
)

// DocumentType identifies a stage in a document chain. Stages are ordered
// within a domain; a document can only be transferred to a later stage of
// the same domain.
type DocumentType string

const (
	TypePurchaseRequest DocumentType = "PURCHASE_REQUEST"
	TypePurchaseOrder   DocumentType = "PURCHASE_ORDER"
	TypeGoodsReceived   DocumentType = "GOODS_RECEIVED"
	TypePurchaseInvoice DocumentType = "PURCHASE_INVOICE"

	TypeSalesQuotation DocumentType = "SALES_QUOTATION"
	TypeSalesOrder     DocumentType = "SALES_ORDER"
	TypeDeliveryOrder  DocumentType = "DELIVERY_ORDER"
	TypeSalesInvoice   DocumentType = "SALES_INVOICE"
)

var documentStages = map[DocumentType]int{
	TypePurchaseRequest: 0,
	TypePurchaseOrder:   1,
	TypeGoodsReceived:   2,
	TypePurchaseInvoice: 3,

	TypeSalesQuotation: 0,
	TypeSalesOrder:     1,
	TypeDeliveryOrder:  2,
	TypeSalesInvoice:   3,
}

// IsValid checks if the type is a known DocumentType
func (t DocumentType) IsValid() bool {
	_, ok := documentStages[t]
	return ok
}

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// Domain returns the chain the type belongs to
func (t DocumentType) Domain() DocumentDomain {
	switch t {
	case TypePurchaseRequest, TypePurchaseOrder, TypeGoodsReceived, TypePurchaseInvoice:
		return DomainPurchase
	case TypeSalesQuotation, TypeSalesOrder, TypeDeliveryOrder, TypeSalesInvoice:
		return DomainSales
	}
	return ""
}

// Stage returns the position of the type within its chain (0-based)
func (t DocumentType) Stage() int {
	return documentStages[t]
}

// CanTransferTo reports whether a document of this type may be transferred
// into a document of the target type: same domain, strictly later stage.
func (t DocumentType) CanTransferTo(target DocumentType) bool {
	if !t.IsValid() || !target.IsValid() {
		return false
	}
	if t.Domain() != target.Domain() {
		return false
	}
	return target.Stage() > t.Stage()
}

// IsInvoice returns true for the terminal invoice stage of either chain.
// Invoice documents are handed to the posting bridge on creation.
func (t DocumentType) IsInvoice() bool {
	return t == TypePurchaseInvoice || t == TypeSalesInvoice
}

// CounterpartyKind returns the counterparty side this type trades with
func (t DocumentType) CounterpartyKind() valueobject.CounterpartyKind {
	if t.Domain() == DomainPurchase {
		return valueobject.KindVendor
	}
	return valueobject.KindCustomer
}

// StockDirection indicates the physical goods movement a document type causes
type StockDirection string

const (
	StockDirectionNone StockDirection = "NONE"
	StockDirectionIn   StockDirection = "IN"
	StockDirectionOut  StockDirection = "OUT"
)

// StockDirection returns IN for goods receipt, OUT for delivery, NONE otherwise
func (t DocumentType) StockDirection() StockDirection {
	switch t {
	case TypeGoodsReceived:
		return StockDirectionIn
	case TypeDeliveryOrder:
		return StockDirectionOut
	}
	return StockDirectionNone
}

// Opposite returns the reversing direction for a stock movement
func (d StockDirection) Opposite() StockDirection {
	switch d {
	case StockDirectionIn:
		return StockDirectionOut
	case StockDirectionOut:
		return StockDirectionIn
	}
	return StockDirectionNone
}
