package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finbook/pkg/domain"
	dErrors "finbook/pkg/domain-errors"
	platformstrings "finbook/pkg/platform/strings"
)

// CreditCard is a tenant-owned card with billing-cycle days.
//
// Invariants:
//   - Name is non-empty and unique per tenant (normalized)
//   - ClosingDay and DueDay are in [1, 28] so every month has them
type CreditCard struct {
	ID domain.CardID `json:"id"`
	domain.Audit
	domain.Owned
	Name          string               `json:"name"`
	Limit         decimal.Decimal      `json:"limit"`
	ClosingDay    int                  `json:"closing_day"`
	DueDay        int                  `json:"due_day"`
	BrandID       domain.BrandID       `json:"brand_id"`
	InstitutionID domain.InstitutionID `json:"institution_id"`
	Active        bool                 `json:"active"`
}

func (c *CreditCard) Key() uuid.UUID { return uuid.UUID(c.ID) }

func (c *CreditCard) NormalizedName() string { return platformstrings.NormalizeName(c.Name) }

// ValidCycleDay reports whether a billing-cycle day exists in every month.
func ValidCycleDay(day int) bool { return day >= 1 && day <= 28 }

func NewCreditCard(name string, limit decimal.Decimal, closingDay, dueDay int, brandID domain.BrandID, institutionID domain.InstitutionID) (*CreditCard, error) {
	if platformstrings.NormalizeName(name) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "credit card name cannot be empty")
	}
	if !ValidCycleDay(closingDay) || !ValidCycleDay(dueDay) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "billing cycle days must be between 1 and 28")
	}
	return &CreditCard{
		ID:            domain.CardID(uuid.New()),
		Name:          name,
		Limit:         limit,
		ClosingDay:    closingDay,
		DueDay:        dueDay,
		BrandID:       brandID,
		InstitutionID: institutionID,
		Active:        true,
	}, nil
}
