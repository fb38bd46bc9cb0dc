package models

import (
	"github.com/google/uuid"

	"finbook/pkg/domain"
	dErrors "finbook/pkg/domain-errors"
	platformstrings "finbook/pkg/platform/strings"
)

// CardBrand is a tenant-owned card network entry (seeded per tenant so
// tenants can rename or extend the list without affecting each other).
type CardBrand struct {
	ID domain.BrandID `json:"id"`
	domain.Audit
	domain.Owned
	Name string `json:"name"`
}

func (b *CardBrand) Key() uuid.UUID { return uuid.UUID(b.ID) }

func (b *CardBrand) NormalizedName() string { return platformstrings.NormalizeName(b.Name) }

func NewCardBrand(name string) (*CardBrand, error) {
	if platformstrings.NormalizeName(name) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "card brand name cannot be empty")
	}
	return &CardBrand{ID: domain.BrandID(uuid.New()), Name: name}, nil
}
