// Package store declares the engine mappings for persons.
package store

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"finbook/internal/person/models"
	"finbook/internal/repository"
	"finbook/pkg/domain"
)

func Memory() repository.Descriptor[*models.Person] {
	return repository.Descriptor[*models.Person]{
		Collection:   "persons",
		TenantScoped: true,
		Clone: func(p *models.Person) *models.Person {
			cp := *p
			return &cp
		},
		Fields: func(p *models.Person) map[string]any {
			return map[string]any{}
		},
	}
}

func SQL() repository.SQLDescriptor[*models.Person] {
	return repository.SQLDescriptor[*models.Person]{
		Table:        "persons",
		TenantScoped: true,
		Columns:      []string{"id", "tenant_id", "name", "email", "created_by", "created_at", "updated_by", "updated_at"},
		Values: func(p *models.Person) []any {
			return []any{
				uuid.UUID(p.ID), uuid.UUID(p.TenantID), p.Name, p.Email,
				uuid.UUID(p.CreatedBy), p.CreatedAt, uuid.UUID(p.UpdatedBy), p.UpdatedAt,
			}
		},
		Scan: func(rows pgx.Rows) (*models.Person, error) {
			var (
				p                    models.Person
				id, tenant, cBy, uBy uuid.UUID
			)
			if err := rows.Scan(&id, &tenant, &p.Name, &p.Email, &cBy, &p.CreatedAt, &uBy, &p.UpdatedAt); err != nil {
				return nil, err
			}
			p.ID = domain.PersonID(id)
			p.TenantID = domain.TenantID(tenant)
			p.CreatedBy = domain.UserID(cBy)
			p.UpdatedBy = domain.UserID(uBy)
			return &p, nil
		},
	}
}
