// Package scope defines the ambient operation scope: the frozen
// identity/tenant/role snapshot established once per inbound operation.
//
// The scope is built by the auth boundary after the authentication layer
// has verified identity, attached to the operation's context, and never
// mutated afterwards. Everything downstream — repository filtering, audit
// stamping, validation rules — reads it through FromContext. There is no
// package-level current scope; an operation that never received one is
// treated as unauthenticated.
package scope

import (
	"context"

	"finbook/pkg/domain"
)

// Scope is the identity/tenant/role snapshot for one operation.
//
// Invariants:
//   - Constructed exactly once per operation, before any repository access
//   - Immutable for the operation's lifetime (value semantics, no setters)
//   - Admin scopes bypass tenant filtering but still act as the audit actor
type Scope struct {
	UserID   domain.UserID
	TenantID domain.TenantID
	Admin    bool
}

// HasTenant reports whether the scope resolved a tenant membership.
// System and admin operations may legitimately have none.
func (s Scope) HasTenant() bool { return !s.TenantID.IsNil() }

type scopeKey struct{}

// ContextKeyScope is exported for tests that need raw context.WithValue.
var ContextKeyScope = scopeKey{}

// WithScope attaches an operation scope to the context.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, ContextKeyScope, s)
}

// FromContext retrieves the operation scope. ok is false when the
// operation was never authenticated; tenant-owned repository operations
// then fail with an authorization error rather than silently defaulting.
func FromContext(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(ContextKeyScope).(Scope)
	return s, ok
}
