package domain

import "context"

type contextKey string

const organizationIDKey contextKey = "organization_id"

// WithOrganizationID returns a context carrying the tenant organization ID.
func WithOrganizationID(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, organizationIDKey, orgID)
}

// GetOrganizationIDFromContext returns the organization ID set by the
// middleware, or "" when none is present.
func GetOrganizationIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(organizationIDKey).(string); ok {
		return v
	}
	return ""
}
