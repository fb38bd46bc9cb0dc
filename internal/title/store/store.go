// Package store declares the engine mappings for titles and their
// categories.
package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"finbook/internal/repository"
	"finbook/internal/title/models"
	"finbook/pkg/domain"
)

// Query fields exposed by the title collection.
const (
	FieldWalletID   = "wallet_id"
	FieldCategoryID = "category_id"
	FieldPersonID   = "person_id"
	FieldPaid       = "paid"
)

// FieldName is the query field for normalized category names.
const FieldName = "name"

func Memory() repository.Descriptor[*models.Title] {
	return repository.Descriptor[*models.Title]{
		Collection:   "titles",
		TenantScoped: true,
		Clone: func(t *models.Title) *models.Title {
			c := *t
			if t.PaidAt != nil {
				at := *t.PaidAt
				c.PaidAt = &at
			}
			return &c
		},
		Fields: func(t *models.Title) map[string]any {
			return map[string]any{
				FieldWalletID:   uuid.UUID(t.WalletID),
				FieldCategoryID: uuid.UUID(t.CategoryID),
				FieldPersonID:   uuid.UUID(t.PersonID),
				FieldPaid:       t.Paid,
			}
		},
	}
}

func SQL() repository.SQLDescriptor[*models.Title] {
	return repository.SQLDescriptor[*models.Title]{
		Table:        "titles",
		TenantScoped: true,
		Columns: []string{
			"id", "tenant_id", "description", "amount", "due_date",
			"wallet_id", "category_id", "person_id", "paid", "paid_at",
			"created_by", "created_at", "updated_by", "updated_at",
		},
		Values: func(t *models.Title) []any {
			var personID *uuid.UUID
			if !t.PersonID.IsNil() {
				pid := uuid.UUID(t.PersonID)
				personID = &pid
			}
			return []any{
				uuid.UUID(t.ID), uuid.UUID(t.TenantID), t.Description, t.Amount, t.DueDate,
				uuid.UUID(t.WalletID), uuid.UUID(t.CategoryID), personID, t.Paid, t.PaidAt,
				uuid.UUID(t.CreatedBy), t.CreatedAt, uuid.UUID(t.UpdatedBy), t.UpdatedAt,
			}
		},
		Scan: func(rows pgx.Rows) (*models.Title, error) {
			var (
				t                            models.Title
				id, tenant, wallet, category uuid.UUID
				person                       *uuid.UUID
				paidAt                       *time.Time
				cBy, uBy                     uuid.UUID
			)
			if err := rows.Scan(&id, &tenant, &t.Description, &t.Amount, &t.DueDate,
				&wallet, &category, &person, &t.Paid, &paidAt,
				&cBy, &t.CreatedAt, &uBy, &t.UpdatedAt); err != nil {
				return nil, err
			}
			t.ID = domain.TitleID(id)
			t.TenantID = domain.TenantID(tenant)
			t.WalletID = domain.WalletID(wallet)
			t.CategoryID = domain.CategoryID(category)
			if person != nil {
				t.PersonID = domain.PersonID(*person)
			}
			t.PaidAt = paidAt
			t.CreatedBy = domain.UserID(cBy)
			t.UpdatedBy = domain.UserID(uBy)
			return &t, nil
		},
		FieldColumns: map[string]string{
			FieldWalletID:   "wallet_id",
			FieldCategoryID: "category_id",
			FieldPersonID:   "person_id",
			FieldPaid:       "paid",
		},
	}
}

func MemoryCategories() repository.Descriptor[*models.Category] {
	return repository.Descriptor[*models.Category]{
		Collection:   "title_categories",
		TenantScoped: true,
		Clone: func(c *models.Category) *models.Category {
			cp := *c
			return &cp
		},
		Fields: func(c *models.Category) map[string]any {
			return map[string]any{FieldName: c.NormalizedName()}
		},
		UniqueKey: func(c *models.Category) (string, bool) {
			return c.TenantID.String() + "/" + c.NormalizedName(), true
		},
	}
}

func SQLCategories() repository.SQLDescriptor[*models.Category] {
	return repository.SQLDescriptor[*models.Category]{
		Table:        "title_categories",
		TenantScoped: true,
		Columns:      []string{"id", "tenant_id", "name", "created_by", "created_at", "updated_by", "updated_at"},
		Values: func(c *models.Category) []any {
			return []any{
				uuid.UUID(c.ID), uuid.UUID(c.TenantID), c.Name,
				uuid.UUID(c.CreatedBy), c.CreatedAt, uuid.UUID(c.UpdatedBy), c.UpdatedAt,
			}
		},
		Scan: func(rows pgx.Rows) (*models.Category, error) {
			var (
				c                    models.Category
				id, tenant, cBy, uBy uuid.UUID
			)
			if err := rows.Scan(&id, &tenant, &c.Name, &cBy, &c.CreatedAt, &uBy, &c.UpdatedAt); err != nil {
				return nil, err
			}
			c.ID = domain.CategoryID(id)
			c.TenantID = domain.TenantID(tenant)
			c.CreatedBy = domain.UserID(cBy)
			c.UpdatedBy = domain.UserID(uBy)
			return &c, nil
		},
		FieldColumns: map[string]string{FieldName: "lower(name)"},
	}
}
