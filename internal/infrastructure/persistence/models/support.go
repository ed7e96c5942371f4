package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NumberSequenceModel backs the per-tenant gapless document and payment
// number sequences. One row per tenant and scope, bumped inside the
// caller's transaction.
type NumberSequenceModel struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Scope     string    `gorm:"type:varchar(30);primaryKey"`
	Prefix    string    `gorm:"type:varchar(10);not null"`
	NextValue int64     `gorm:"not null;default:1"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for NumberSequenceModel
func (NumberSequenceModel) TableName() string {
	return "number_sequences"
}

// AuditLogModel is the append-only audit trail of state-changing operations
type AuditLogModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_tenant_entity"`
	ActorID    string    `gorm:"type:varchar(100);not null"`
	Action     string    `gorm:"type:varchar(50);not null"`
	EntityType string    `gorm:"type:varchar(50);not null;index:idx_audit_tenant_entity"`
	EntityID   string    `gorm:"type:varchar(100);not null;index:idx_audit_tenant_entity"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

// TableName returns the table name for AuditLogModel
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// CounterpartyModel is the master-data record for vendors and customers
type CounterpartyModel struct {
	BaseModel
	TenantID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_counterparties_tenant_code"`
	Kind           string    `gorm:"type:varchar(10);not null;index"`
	Code           string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_counterparties_tenant_code"`
	Name           string    `gorm:"type:varchar(255);not null"`
	CurrencyCode   string    `gorm:"type:varchar(3);not null"`
	CreditTermDays int       `gorm:"not null;default:0"`
	IsActive       bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for CounterpartyModel
func (CounterpartyModel) TableName() string {
	return "counterparties"
}

// StockMovementModel records physical stock in/out caused by goods
// receipts and delivery orders, including reversal entries from voids
type StockMovementModel struct {
	BaseModel
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_tenant_product"`
	DocumentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	DocType     string          `gorm:"type:varchar(30);not null"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_tenant_product"`
	ProductCode string          `gorm:"type:varchar(50)"`
	Direction   string          `gorm:"type:varchar(5);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
}

// TableName returns the table name for StockMovementModel
func (StockMovementModel) TableName() string {
	return "stock_movements"
}
