package shared

import (
	"context"

	"github.com/google/uuid"
)

type tenantContextKey struct{}

// WithTenant returns a context carrying the tenant the request acts for
func WithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, tenantID)
}

// TenantFromContext extracts the tenant set by WithTenant, if any
func TenantFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(tenantContextKey{}).(uuid.UUID)
	return id, ok
}
