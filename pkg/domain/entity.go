package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the minimal capability every persisted row has: a stable key.
type Entity interface {
	Key() uuid.UUID
}

// Audited is the capability of carrying creator/modifier attribution.
// The repository stamps these fields; calling code never sets them.
type Audited interface {
	Entity
	StampCreated(actor UserID, at time.Time)
	StampModified(actor UserID, at time.Time)
}

// TenantOwned is the capability of belonging to exactly one tenant.
// The repository injects the owner on Add and filters every read by it;
// a pre-set value is overwritten, never trusted.
type TenantOwned interface {
	Entity
	OwnerTenant() TenantID
	SetOwnerTenant(TenantID)
}

// Audit is the embeddable mixin implementing the Audited capability.
type Audit struct {
	CreatedBy UserID    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedBy UserID    `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Audit) StampCreated(actor UserID, at time.Time) {
	a.CreatedBy = actor
	a.CreatedAt = at
}

func (a *Audit) StampModified(actor UserID, at time.Time) {
	a.UpdatedBy = actor
	a.UpdatedAt = at
}

// Owned is the embeddable mixin implementing the TenantOwned capability.
type Owned struct {
	TenantID TenantID `json:"tenant_id"`
}

func (o *Owned) OwnerTenant() TenantID     { return o.TenantID }
func (o *Owned) SetOwnerTenant(t TenantID) { o.TenantID = t }
