package event

import (
	"context"

	"github.com/docflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LoggingHandler is a catch-all subscriber that writes one structured log
// line per domain event. It gives operators a trace of every state change
// without touching the aggregates themselves.
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a LoggingHandler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

// Handle logs the event
func (h *LoggingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice, subscribing the handler to all events
func (h *LoggingHandler) EventTypes() []string {
	return nil
}
