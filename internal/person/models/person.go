package models

import (
	"github.com/google/uuid"

	"finbook/pkg/domain"
	dErrors "finbook/pkg/domain-errors"
	platformstrings "finbook/pkg/platform/strings"
)

// Person is a tenant-owned counterparty (payer or payee) referenced by
// titles through its id.
type Person struct {
	ID domain.PersonID `json:"id"`
	domain.Audit
	domain.Owned
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func (p *Person) Key() uuid.UUID { return uuid.UUID(p.ID) }

func NewPerson(name, email string) (*Person, error) {
	if platformstrings.NormalizeName(name) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "person name cannot be empty")
	}
	return &Person{ID: domain.PersonID(uuid.New()), Name: name, Email: email}, nil
}
