package models

import (
	"github.com/google/uuid"

	"finbook/pkg/domain"
)

// Menu is a global navigation entry shared by all tenants: audited but
// not tenant-owned, so the repository applies no tenant filter to it
// regardless of the caller's role.
type Menu struct {
	ID domain.MenuID `json:"id"`
	domain.Audit
	Name     string `json:"name"`
	Path     string `json:"path"`
	Position int    `json:"position"`
}

func (m *Menu) Key() uuid.UUID { return uuid.UUID(m.ID) }

func NewMenu(name, path string, position int) *Menu {
	return &Menu{ID: domain.MenuID(uuid.New()), Name: name, Path: path, Position: position}
}
