package shared

import "context"

// UnitOfWork executes a function so that every repository call made with the
// derived context joins the same atomic transaction. Either every write in fn
// becomes visible or none do.
//
// All multi-aggregate mutations in this core (transfer + target creation,
// knockoff + invoice balance update, void cascades) must run inside one
// unit of work; a half-applied state is a consistency violation, never an
// acceptable outcome.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditSink records state-changing operations in an append-only log.
// Implementations must never fail the caller's transaction: recording happens
// after commit and errors are logged, not propagated.
type AuditSink interface {
	Record(ctx context.Context, actorID, action, entityType, entityID string)
}
