// Package repository provides the generic tenant-scoped data-access
// gateway every feature module goes through.
//
// A Repository is typed over one entity and bound to a Session (unit of
// work). Reads see only committed state; Add/Update/Delete are staged on
// the session and take effect atomically at SaveChanges, or not at all.
//
// Tenant filtering happens inside the engines themselves — the memory
// engine's predicate chain and the postgres engine's WHERE builder — so no
// calling code can reach rows outside its scope, and audit/tenant fields
// are stamped here rather than by callers.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"finbook/internal/scope"
	"finbook/pkg/domain"
	dErrors "finbook/pkg/domain-errors"
	"finbook/pkg/platform/sentinel"
)

// Repository is the data-access contract exposed to services and
// validation rules. Mutations are staged; commit happens on the session.
type Repository[T domain.Entity] interface {
	// Query returns committed rows visible to the current scope.
	// Tenant-owned collections are restricted to the scope's tenant
	// unless the scope is admin; inactive rows are skipped unless
	// WithInactive is given.
	Query(ctx context.Context, opts ...QueryOption) ([]T, error)

	// FindByID returns the row with the given key, or
	// sentinel.ErrNotFound both when it does not exist and when it
	// belongs to another tenant. The two cases are indistinguishable on
	// purpose: existence of another tenant's row must not be observable.
	FindByID(ctx context.Context, key uuid.UUID) (T, error)

	// Add stages an insert. Audited entities are stamped with the
	// scope's user and the request time; tenant-owned entities get their
	// owner overwritten with the scope's tenant.
	Add(ctx context.Context, entity T) error

	// Update stages a modification of an existing visible row and
	// re-stamps the modifier fields. Returns sentinel.ErrNotFound for
	// rows that are missing or out of scope.
	Update(ctx context.Context, entity T) error

	// Delete stages removal of an existing visible row.
	Delete(ctx context.Context, entity T) error
}

// UnitOfWork commits or discards the mutations staged by the repositories
// bound to one session.
type UnitOfWork interface {
	// SaveChanges applies every staged change atomically. A violated
	// uniqueness invariant surfaces as sentinel.ErrConflict with nothing
	// applied; a cancelled context discards the staged changes.
	SaveChanges(ctx context.Context) error

	// Discard drops staged changes without applying them.
	Discard()
}

// Query captures the caller-controllable part of a read. The tenant
// predicate is never part of it.
type Query struct {
	IncludeInactive bool
	Fields          map[string]any
}

// QueryOption narrows or widens a Query.
type QueryOption func(*Query)

// WithInactive includes rows whose activity flag is off.
func WithInactive() QueryOption {
	return func(q *Query) { q.IncludeInactive = true }
}

// WithField restricts results to rows whose named query field equals
// value. Field names are declared per entity in its descriptor.
func WithField(name string, value any) QueryOption {
	return func(q *Query) {
		if q.Fields == nil {
			q.Fields = make(map[string]any)
		}
		q.Fields[name] = value
	}
}

func buildQuery(opts []QueryOption) Query {
	var q Query
	for _, opt := range opts {
		opt(&q)
	}
	return q
}

// operationScope resolves the acting scope for a repository call.
//
// Tenant-scoped collections require an authenticated scope with a tenant
// membership (admins are exempt from the membership requirement). Global
// collections accept anonymous callers. Raised here, at consult time, so
// the authorization category is never mixed into validation results.
func operationScope(ctx context.Context, tenantScoped bool) (scope.Scope, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		if tenantScoped {
			return scope.Scope{}, dErrors.New(dErrors.CodeUnauthorized, "operation requires an authenticated scope")
		}
		return scope.Scope{}, nil
	}
	if tenantScoped && !sc.Admin && !sc.HasTenant() {
		return scope.Scope{}, dErrors.New(dErrors.CodeForbidden, "scope has no tenant membership")
	}
	return sc, nil
}

// stampForAdd applies audit attribution and tenant ownership to a staged
// insert. Non-admin scopes always own the row; an admin acting inside a
// tenant does too, while a tenant-less admin must say which tenant the
// row belongs to.
func stampForAdd(entity domain.Entity, sc scope.Scope, now timeSource, tenantScoped bool) error {
	if audited, ok := entity.(domain.Audited); ok {
		at := now()
		audited.StampCreated(sc.UserID, at)
		audited.StampModified(sc.UserID, at)
	}
	owned, ok := entity.(domain.TenantOwned)
	if !ok || !tenantScoped {
		return nil
	}
	if !sc.Admin || sc.HasTenant() {
		owned.SetOwnerTenant(sc.TenantID)
		return nil
	}
	if owned.OwnerTenant().IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "admin insert requires an owner tenant")
	}
	return nil
}

func stampForUpdate(entity domain.Entity, sc scope.Scope, now timeSource) {
	if audited, ok := entity.(domain.Audited); ok {
		audited.StampModified(sc.UserID, now())
	}
}

// timeSource abstracts the audit clock. Engines feed it from
// requestcontext.Now so tests can pin stamp times via WithTime.
type timeSource func() time.Time

// IsNotFound reports whether err is the store's not-found fact.
func IsNotFound(err error) bool { return errors.Is(err, sentinel.ErrNotFound) }

// IsConflict reports whether err is a violated uniqueness invariant.
func IsConflict(err error) bool { return errors.Is(err, sentinel.ErrConflict) }
