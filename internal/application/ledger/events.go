package ledger

import (
	"context"

	"github.com/docflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// publishDomainEvents drains the pending events of the aggregates into the
// bus. Runs after commit only; a publish failure is logged, never returned,
// so event delivery cannot undo persisted state.
func publishDomainEvents(ctx context.Context, bus shared.EventPublisher, logger *zap.Logger, aggregates ...shared.AggregateRoot) {
	for _, agg := range aggregates {
		if agg == nil {
			continue
		}
		pending := agg.GetDomainEvents()
		agg.ClearDomainEvents()
		if bus == nil || len(pending) == 0 {
			continue
		}
		if err := bus.Publish(ctx, pending...); err != nil {
			logger.Warn("domain event publish failed", zap.Error(err))
		}
	}
}
