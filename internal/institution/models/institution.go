package models

import (
	"github.com/google/uuid"

	"finbook/pkg/domain"
	dErrors "finbook/pkg/domain-errors"
	platformstrings "finbook/pkg/platform/strings"
)

// FinancialInstitution is a bank or broker a tenant holds accounts with.
//
// Invariants:
//   - Name is non-empty and unique per tenant (normalized)
type FinancialInstitution struct {
	ID domain.InstitutionID `json:"id"`
	domain.Audit
	domain.Owned
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func (f *FinancialInstitution) Key() uuid.UUID { return uuid.UUID(f.ID) }

func (f *FinancialInstitution) NormalizedName() string {
	return platformstrings.NormalizeName(f.Name)
}

func NewFinancialInstitution(name string) (*FinancialInstitution, error) {
	if platformstrings.NormalizeName(name) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "institution name cannot be empty")
	}
	return &FinancialInstitution{
		ID:     domain.InstitutionID(uuid.New()),
		Name:   name,
		Active: true,
	}, nil
}
