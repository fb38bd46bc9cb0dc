// Package store declares the engine mappings for the global menu
// collection. Menus are audited but not tenant-owned, so neither engine
// applies a tenant clause to them.
package store

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"finbook/internal/menu/models"
	"finbook/internal/repository"
	"finbook/pkg/domain"
)

func Memory() repository.Descriptor[*models.Menu] {
	return repository.Descriptor[*models.Menu]{
		Collection: "menus",
		Clone: func(m *models.Menu) *models.Menu {
			cp := *m
			return &cp
		},
		Fields: func(m *models.Menu) map[string]any {
			return map[string]any{}
		},
	}
}

func SQL() repository.SQLDescriptor[*models.Menu] {
	return repository.SQLDescriptor[*models.Menu]{
		Table:   "menus",
		Columns: []string{"id", "name", "path", "position", "created_by", "created_at", "updated_by", "updated_at"},
		Values: func(m *models.Menu) []any {
			return []any{
				uuid.UUID(m.ID), m.Name, m.Path, m.Position,
				uuid.UUID(m.CreatedBy), m.CreatedAt, uuid.UUID(m.UpdatedBy), m.UpdatedAt,
			}
		},
		Scan: func(rows pgx.Rows) (*models.Menu, error) {
			var (
				m            models.Menu
				id, cBy, uBy uuid.UUID
			)
			if err := rows.Scan(&id, &m.Name, &m.Path, &m.Position, &cBy, &m.CreatedAt, &uBy, &m.UpdatedAt); err != nil {
				return nil, err
			}
			m.ID = domain.MenuID(id)
			m.CreatedBy = domain.UserID(cBy)
			m.UpdatedBy = domain.UserID(uBy)
			return &m, nil
		},
	}
}
