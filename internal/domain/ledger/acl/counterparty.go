// Package acl is the anti-corruption layer between the ledger core and the
// master-data services that own vendors and customers. The core never talks
// to those services directly; it asks for a snapshot through this port.
package acl

import (
	"context"

	"github.com/docflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CounterpartyService resolves a counterparty ID into the point-in-time
// snapshot stamped onto documents, invoices and payments
type CounterpartyService interface {
	// Resolve returns the snapshot for an active counterparty of the given
	// kind, or a NOT_FOUND error
	Resolve(ctx context.Context, tenantID uuid.UUID, kind valueobject.CounterpartyKind, id uuid.UUID) (valueobject.CounterpartyRef, error)
}
