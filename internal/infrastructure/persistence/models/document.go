package models

import (
	"time"

	"github.com/docflow/backend/internal/domain/document"
	"github.com/docflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentModel is the persistence model for commercial documents
type DocumentModel struct {
	TenantAggregateModel
	DocType             string          `gorm:"type:varchar(30);not null;index:idx_documents_tenant_type"`
	// uniqueness is per tenant, enforced by the idx_documents_tenant_number
	// migration index; numbers from different tenants may collide
	DocumentNumber      string          `gorm:"type:varchar(50);not null;index:idx_documents_number"`
	DocumentDate        time.Time       `gorm:"not null"`
	CounterpartyKind    string          `gorm:"type:varchar(10);not null"`
	CounterpartyID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CounterpartyCode    string          `gorm:"type:varchar(50)"`
	CounterpartyName    string          `gorm:"type:varchar(255);not null"`
	CounterpartyCredit  int             `gorm:"not null;default:0"`
	CurrencyCode        string          `gorm:"type:varchar(3);not null"`
	ExchangeRate        decimal.Decimal `gorm:"type:decimal(20,8);not null"`
	Subtotal            decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	DiscountAmount      decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	TaxAmount           decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	NetTotal            decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Status              string          `gorm:"type:varchar(20);not null;index"`
	TransferStatus      string          `gorm:"type:varchar(20);not null"`
	SourceType          *string         `gorm:"type:varchar(30)"`
	SourceID            *uuid.UUID      `gorm:"type:uuid;index"`
	IsPosted            bool            `gorm:"not null;default:false"`
	LedgerInvoiceID     *uuid.UUID      `gorm:"type:uuid"`
	IsVoid              bool            `gorm:"not null;default:false"`
	VoidedAt            *time.Time
	VoidReason          string              `gorm:"type:text"`
	Reference           string              `gorm:"type:varchar(255)"`
	Remark              string              `gorm:"type:text"`
	Lines               []DocumentLineModel `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for DocumentModel
func (DocumentModel) TableName() string {
	return "documents"
}

// DocumentLineModel is the persistence model for document lines
type DocumentLineModel struct {
	BaseModel
	DocumentID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	SourceLineID    *uuid.UUID      `gorm:"type:uuid;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	ProductCode     string          `gorm:"type:varchar(50)"`
	ProductName     string          `gorm:"type:varchar(255)"`
	Quantity        decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	TransferredQty  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	OutstandingQty  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
}

// TableName returns the table name for DocumentLineModel
func (DocumentLineModel) TableName() string {
	return "document_lines"
}

// DocumentModelFromDomain converts a domain Document to its persistence model
func DocumentModelFromDomain(d *document.Document) *DocumentModel {
	m := &DocumentModel{
		DocType:            string(d.DocType),
		DocumentNumber:     d.DocumentNumber,
		DocumentDate:       d.DocumentDate,
		CounterpartyKind:   string(d.Counterparty.Kind),
		CounterpartyID:     d.Counterparty.ID,
		CounterpartyCode:   d.Counterparty.Code,
		CounterpartyName:   d.Counterparty.Name,
		CounterpartyCredit: d.Counterparty.CreditTermDays,
		CurrencyCode:       string(d.CurrencyCode),
		ExchangeRate:       d.ExchangeRate,
		Subtotal:           d.Subtotal,
		DiscountAmount:     d.DiscountAmount,
		TaxAmount:          d.TaxAmount,
		NetTotal:           d.NetTotal,
		Status:             string(d.Status),
		TransferStatus:     string(d.TransferStatus),
		SourceID:           d.SourceID,
		IsPosted:           d.IsPosted,
		LedgerInvoiceID:    d.LedgerInvoiceID,
		IsVoid:             d.IsVoid,
		VoidedAt:           d.VoidedAt,
		VoidReason:         d.VoidReason,
		Reference:          d.Reference,
		Remark:             d.Remark,
	}
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	if d.SourceType != nil {
		st := string(*d.SourceType)
		m.SourceType = &st
	}
	m.Lines = make([]DocumentLineModel, 0, len(d.Lines))
	for i := range d.Lines {
		m.Lines = append(m.Lines, documentLineModelFromDomain(&d.Lines[i]))
	}
	return m
}

func documentLineModelFromDomain(l *document.DocumentLine) DocumentLineModel {
	return DocumentLineModel{
		BaseModel: BaseModel{
			ID:        l.ID,
			CreatedAt: l.CreatedAt,
			UpdatedAt: l.UpdatedAt,
		},
		DocumentID:      l.DocumentID,
		SourceLineID:    l.SourceLineID,
		ProductID:       l.ProductID,
		ProductCode:     l.ProductCode,
		ProductName:     l.ProductName,
		Quantity:        l.Quantity,
		UnitPrice:       l.UnitPrice,
		DiscountPercent: l.DiscountPercent,
		TaxPercent:      l.TaxPercent,
		LineTotal:       l.LineTotal,
		TransferredQty:  l.TransferredQty,
		OutstandingQty:  l.OutstandingQty,
	}
}

// ToDomain converts the persistence model to a domain Document
func (m *DocumentModel) ToDomain() *document.Document {
	d := &document.Document{
		DocType:        document.DocumentType(m.DocType),
		DocumentNumber: m.DocumentNumber,
		DocumentDate:   m.DocumentDate,
		Counterparty: valueobject.CounterpartyRef{
			Kind:           valueobject.CounterpartyKind(m.CounterpartyKind),
			ID:             m.CounterpartyID,
			Code:           m.CounterpartyCode,
			Name:           m.CounterpartyName,
			Currency:       valueobject.Currency(m.CurrencyCode),
			CreditTermDays: m.CounterpartyCredit,
		},
		CurrencyCode:    valueobject.Currency(m.CurrencyCode),
		ExchangeRate:    m.ExchangeRate,
		Subtotal:        m.Subtotal,
		DiscountAmount:  m.DiscountAmount,
		TaxAmount:       m.TaxAmount,
		NetTotal:        m.NetTotal,
		Status:          document.DocumentStatus(m.Status),
		TransferStatus:  document.TransferStatus(m.TransferStatus),
		SourceID:        m.SourceID,
		IsPosted:        m.IsPosted,
		LedgerInvoiceID: m.LedgerInvoiceID,
		IsVoid:          m.IsVoid,
		VoidedAt:        m.VoidedAt,
		VoidReason:      m.VoidReason,
		Reference:       m.Reference,
		Remark:          m.Remark,
	}
	m.PopulateTenantAggregateRoot(&d.TenantAggregateRoot)
	if m.SourceType != nil {
		st := document.DocumentType(*m.SourceType)
		d.SourceType = &st
	}
	d.Lines = make([]document.DocumentLine, 0, len(m.Lines))
	for i := range m.Lines {
		d.Lines = append(d.Lines, m.Lines[i].toDomain())
	}
	return d
}

func (m *DocumentLineModel) toDomain() document.DocumentLine {
	return document.DocumentLine{
		ID:              m.ID,
		DocumentID:      m.DocumentID,
		SourceLineID:    m.SourceLineID,
		ProductID:       m.ProductID,
		ProductCode:     m.ProductCode,
		ProductName:     m.ProductName,
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
		DiscountPercent: m.DiscountPercent,
		TaxPercent:      m.TaxPercent,
		LineTotal:       m.LineTotal,
		TransferredQty:  m.TransferredQty,
		OutstandingQty:  m.OutstandingQty,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
