package persistence

import (
	"context"
	"time"

	"github.com/docflow/backend/internal/domain/shared"
	"github.com/docflow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormAuditSink appends audit entries to the audit_logs table. Recording
// happens after the caller's transaction commits and never fails the
// caller: write errors are logged and swallowed.
type GormAuditSink struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormAuditSink creates a new GormAuditSink
func NewGormAuditSink(db *gorm.DB, logger *zap.Logger) *GormAuditSink {
	return &GormAuditSink{db: db, logger: logger}
}

// Record appends one audit entry. The tenant comes from the request
// context set by the tenant middleware.
func (s *GormAuditSink) Record(ctx context.Context, actorID, action, entityType, entityID string) {
	tenantID, _ := shared.TenantFromContext(ctx)
	entry := models.AuditLogModel{
		ID:         uuid.New(),
		TenantID:   tenantID,
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  time.Now(),
	}
	// deliberately not dbFrom: audit entries go on the base connection so
	// a rolled-back caller transaction cannot take them down with it
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.logger.Error("failed to record audit entry",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}

var _ shared.AuditSink = (*GormAuditSink)(nil)
