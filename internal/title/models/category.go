package models

import (
	"github.com/google/uuid"

	"finbook/pkg/domain"
	dErrors "finbook/pkg/domain-errors"
	platformstrings "finbook/pkg/platform/strings"
)

// Category groups titles for reporting. Name is unique per tenant.
type Category struct {
	ID domain.CategoryID `json:"id"`
	domain.Audit
	domain.Owned
	Name string `json:"name"`
}

func (c *Category) Key() uuid.UUID { return uuid.UUID(c.ID) }

func (c *Category) NormalizedName() string { return platformstrings.NormalizeName(c.Name) }

func NewCategory(name string) (*Category, error) {
	if platformstrings.NormalizeName(name) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "category name cannot be empty")
	}
	return &Category{ID: domain.CategoryID(uuid.New()), Name: name}, nil
}
