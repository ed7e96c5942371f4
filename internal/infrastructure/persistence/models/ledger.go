package models

import (
	"time"

	"github.com/docflow/backend/internal/domain/ledger"
	"github.com/docflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerInvoiceModel is the persistence model for AR/AP invoices
type LedgerInvoiceModel struct {
	TenantAggregateModel
	Kind               string          `gorm:"type:varchar(2);not null;index:idx_ledger_invoices_tenant_kind"`
	SourceDocumentID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_invoices_source"`
	InvoiceNumber      string          `gorm:"type:varchar(50);not null;index"`
	InvoiceDate        time.Time       `gorm:"not null"`
	DueDate            time.Time       `gorm:"not null;index"`
	CounterpartyKind   string          `gorm:"type:varchar(10);not null"`
	CounterpartyID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CounterpartyCode   string          `gorm:"type:varchar(50)"`
	CounterpartyName   string          `gorm:"type:varchar(255);not null"`
	CounterpartyCredit int             `gorm:"not null;default:0"`
	CurrencyCode       string          `gorm:"type:varchar(3);not null"`
	NetTotal           decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	PaidAmount         decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	OutstandingAmount  decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Status             string          `gorm:"type:varchar(20);not null;index"`
	Reference          string          `gorm:"type:varchar(255)"`
	IsVoid             bool            `gorm:"not null;default:false"`
	VoidedAt           *time.Time
}

// TableName returns the table name for LedgerInvoiceModel
func (LedgerInvoiceModel) TableName() string {
	return "ledger_invoices"
}

// LedgerInvoiceModelFromDomain converts a domain Invoice to its persistence model
func LedgerInvoiceModelFromDomain(i *ledger.Invoice) *LedgerInvoiceModel {
	m := &LedgerInvoiceModel{
		Kind:               string(i.Kind),
		SourceDocumentID:   i.SourceDocumentID,
		InvoiceNumber:      i.InvoiceNumber,
		InvoiceDate:        i.InvoiceDate,
		DueDate:            i.DueDate,
		CounterpartyKind:   string(i.Counterparty.Kind),
		CounterpartyID:     i.Counterparty.ID,
		CounterpartyCode:   i.Counterparty.Code,
		CounterpartyName:   i.Counterparty.Name,
		CounterpartyCredit: i.Counterparty.CreditTermDays,
		CurrencyCode:       string(i.CurrencyCode),
		NetTotal:           i.NetTotal,
		PaidAmount:         i.PaidAmount,
		OutstandingAmount:  i.OutstandingAmount,
		Status:             string(i.Status),
		Reference:          i.Reference,
		IsVoid:             i.IsVoid,
		VoidedAt:           i.VoidedAt,
	}
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	return m
}

// ToDomain converts the persistence model to a domain Invoice
func (m *LedgerInvoiceModel) ToDomain() *ledger.Invoice {
	i := &ledger.Invoice{
		Kind:             ledger.LedgerKind(m.Kind),
		SourceDocumentID: m.SourceDocumentID,
		InvoiceNumber:    m.InvoiceNumber,
		InvoiceDate:      m.InvoiceDate,
		DueDate:          m.DueDate,
		Counterparty: valueobject.CounterpartyRef{
			Kind:           valueobject.CounterpartyKind(m.CounterpartyKind),
			ID:             m.CounterpartyID,
			Code:           m.CounterpartyCode,
			Name:           m.CounterpartyName,
			Currency:       valueobject.Currency(m.CurrencyCode),
			CreditTermDays: m.CounterpartyCredit,
		},
		CurrencyCode:      valueobject.Currency(m.CurrencyCode),
		NetTotal:          m.NetTotal,
		PaidAmount:        m.PaidAmount,
		OutstandingAmount: m.OutstandingAmount,
		Status:            ledger.InvoiceStatus(m.Status),
		Reference:         m.Reference,
		IsVoid:            m.IsVoid,
		VoidedAt:          m.VoidedAt,
	}
	m.PopulateTenantAggregateRoot(&i.TenantAggregateRoot)
	return i
}

// PaymentModel is the persistence model for payments
type PaymentModel struct {
	TenantAggregateModel
	Kind               string          `gorm:"type:varchar(2);not null;index:idx_payments_tenant_kind"`
	// per-tenant uniqueness enforced by the idx_payments_tenant_number
	// migration index
	PaymentNumber      string          `gorm:"type:varchar(50);not null;index:idx_payments_number"`
	PaymentDate        time.Time       `gorm:"not null"`
	CounterpartyKind   string          `gorm:"type:varchar(10);not null"`
	CounterpartyID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CounterpartyCode   string          `gorm:"type:varchar(50)"`
	CounterpartyName   string          `gorm:"type:varchar(255);not null"`
	CounterpartyCredit int             `gorm:"not null;default:0"`
	CurrencyCode       string          `gorm:"type:varchar(3);not null"`
	Amount             decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Method             string          `gorm:"type:varchar(20);not null"`
	Reference          string          `gorm:"type:varchar(255)"`
	Remark             string          `gorm:"type:text"`
	Status             string          `gorm:"type:varchar(10);not null;index"`
	VoidedAt           *time.Time
	VoidReason         string          `gorm:"type:text"`
	Knockoffs          []KnockoffModel `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for PaymentModel
func (PaymentModel) TableName() string {
	return "payments"
}

// KnockoffModel is the persistence model for payment knockoff lines
type KnockoffModel struct {
	BaseModel
	PaymentID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceNumber     string          `gorm:"type:varchar(50);not null"`
	DocumentAmount    decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	OutstandingBefore decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	KnockoffAmount    decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	OutstandingAfter  decimal.Decimal `gorm:"type:decimal(20,2);not null"`
}

// TableName returns the table name for KnockoffModel
func (KnockoffModel) TableName() string {
	return "payment_knockoffs"
}

// PaymentModelFromDomain converts a domain Payment to its persistence model
func PaymentModelFromDomain(p *ledger.Payment) *PaymentModel {
	m := &PaymentModel{
		Kind:               string(p.Kind),
		PaymentNumber:      p.PaymentNumber,
		PaymentDate:        p.PaymentDate,
		CounterpartyKind:   string(p.Counterparty.Kind),
		CounterpartyID:     p.Counterparty.ID,
		CounterpartyCode:   p.Counterparty.Code,
		CounterpartyName:   p.Counterparty.Name,
		CounterpartyCredit: p.Counterparty.CreditTermDays,
		CurrencyCode:       string(p.CurrencyCode),
		Amount:             p.Amount,
		Method:             string(p.Method),
		Reference:          p.Reference,
		Remark:             p.Remark,
		Status:             string(p.Status),
		VoidedAt:           p.VoidedAt,
		VoidReason:         p.VoidReason,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Knockoffs = make([]KnockoffModel, 0, len(p.Knockoffs))
	for i := range p.Knockoffs {
		k := &p.Knockoffs[i]
		m.Knockoffs = append(m.Knockoffs, KnockoffModel{
			BaseModel: BaseModel{
				ID:        k.ID,
				CreatedAt: k.CreatedAt,
				UpdatedAt: k.CreatedAt,
			},
			PaymentID:         k.PaymentID,
			InvoiceID:         k.InvoiceID,
			InvoiceNumber:     k.InvoiceNumber,
			DocumentAmount:    k.DocumentAmount,
			OutstandingBefore: k.OutstandingBefore,
			KnockoffAmount:    k.KnockoffAmount,
			OutstandingAfter:  k.OutstandingAfter,
		})
	}
	return m
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *ledger.Payment {
	p := &ledger.Payment{
		Kind:          ledger.LedgerKind(m.Kind),
		PaymentNumber: m.PaymentNumber,
		PaymentDate:   m.PaymentDate,
		Counterparty: valueobject.CounterpartyRef{
			Kind:           valueobject.CounterpartyKind(m.CounterpartyKind),
			ID:             m.CounterpartyID,
			Code:           m.CounterpartyCode,
			Name:           m.CounterpartyName,
			Currency:       valueobject.Currency(m.CurrencyCode),
			CreditTermDays: m.CounterpartyCredit,
		},
		CurrencyCode: valueobject.Currency(m.CurrencyCode),
		Amount:       m.Amount,
		Method:       ledger.PaymentMethod(m.Method),
		Reference:    m.Reference,
		Remark:       m.Remark,
		Status:       ledger.PaymentStatus(m.Status),
		VoidedAt:     m.VoidedAt,
		VoidReason:   m.VoidReason,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	p.Knockoffs = make([]ledger.Knockoff, 0, len(m.Knockoffs))
	for i := range m.Knockoffs {
		k := &m.Knockoffs[i]
		p.Knockoffs = append(p.Knockoffs, ledger.Knockoff{
			ID:                k.ID,
			PaymentID:         k.PaymentID,
			InvoiceID:         k.InvoiceID,
			InvoiceNumber:     k.InvoiceNumber,
			DocumentAmount:    k.DocumentAmount,
			OutstandingBefore: k.OutstandingBefore,
			KnockoffAmount:    k.KnockoffAmount,
			OutstandingAfter:  k.OutstandingAfter,
			CreatedAt:         k.CreatedAt,
		})
	}
	return p
}
