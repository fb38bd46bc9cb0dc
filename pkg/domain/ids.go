// Package domain holds the typed identifiers and entity capabilities shared
// by every feature module.
//
// Identifiers are distinct types over uuid.UUID so the compiler rejects
// cross-assignment (a WalletID can never be passed where a TenantID is
// expected). Parse functions enforce the invariant that IDs are valid,
// non-empty, non-nil UUIDs at trust boundaries.
package domain

import (
	"fmt"

	"github.com/google/uuid"

	dErrors "finbook/pkg/domain-errors"
)

type (
	UserID        uuid.UUID
	TenantID      uuid.UUID
	WalletID      uuid.UUID
	TitleID       uuid.UUID
	CardID        uuid.UUID
	BrandID       uuid.UUID
	InstitutionID uuid.UUID
	CategoryID    uuid.UUID
	PersonID      uuid.UUID
	MenuID        uuid.UUID
)

func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("invalid %s id %q", kind, raw))
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id cannot be the nil uuid")
	}
	return parsed, nil
}

func ParseUserID(raw string) (UserID, error) {
	u, err := parseUUID(raw, "user")
	return UserID(u), err
}

func ParseTenantID(raw string) (TenantID, error) {
	u, err := parseUUID(raw, "tenant")
	return TenantID(u), err
}

func ParseWalletID(raw string) (WalletID, error) {
	u, err := parseUUID(raw, "wallet")
	return WalletID(u), err
}

func ParseTitleID(raw string) (TitleID, error) {
	u, err := parseUUID(raw, "title")
	return TitleID(u), err
}

func ParseCardID(raw string) (CardID, error) {
	u, err := parseUUID(raw, "card")
	return CardID(u), err
}

func ParseBrandID(raw string) (BrandID, error) {
	u, err := parseUUID(raw, "brand")
	return BrandID(u), err
}

func ParseInstitutionID(raw string) (InstitutionID, error) {
	u, err := parseUUID(raw, "institution")
	return InstitutionID(u), err
}

func ParseCategoryID(raw string) (CategoryID, error) {
	u, err := parseUUID(raw, "category")
	return CategoryID(u), err
}

func ParsePersonID(raw string) (PersonID, error) {
	u, err := parseUUID(raw, "person")
	return PersonID(u), err
}

func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id TenantID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id WalletID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id TitleID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id CardID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id BrandID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id InstitutionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id CategoryID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id PersonID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id MenuID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }

func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id TenantID) String() string      { return uuid.UUID(id).String() }
func (id WalletID) String() string      { return uuid.UUID(id).String() }
func (id TitleID) String() string       { return uuid.UUID(id).String() }
func (id CardID) String() string        { return uuid.UUID(id).String() }
func (id BrandID) String() string       { return uuid.UUID(id).String() }
func (id InstitutionID) String() string { return uuid.UUID(id).String() }
func (id CategoryID) String() string    { return uuid.UUID(id).String() }
func (id PersonID) String() string      { return uuid.UUID(id).String() }
func (id MenuID) String() string        { return uuid.UUID(id).String() }
