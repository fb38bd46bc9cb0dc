// Package store declares the engine mappings for credit cards and card
// brands.
package store

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"finbook/internal/creditcard/models"
	"finbook/internal/repository"
	"finbook/pkg/domain"
)

const (
	FieldName          = "name"
	FieldBrandID       = "brand_id"
	FieldInstitutionID = "institution_id"
)

func Memory() repository.Descriptor[*models.CreditCard] {
	return repository.Descriptor[*models.CreditCard]{
		Collection:   "credit_cards",
		TenantScoped: true,
		Clone: func(c *models.CreditCard) *models.CreditCard {
			cp := *c
			return &cp
		},
		Fields: func(c *models.CreditCard) map[string]any {
			return map[string]any{
				FieldName:          c.NormalizedName(),
				FieldBrandID:       uuid.UUID(c.BrandID),
				FieldInstitutionID: uuid.UUID(c.InstitutionID),
			}
		},
		UniqueKey: func(c *models.CreditCard) (string, bool) {
			return c.TenantID.String() + "/" + c.NormalizedName(), true
		},
		Active: func(c *models.CreditCard) bool { return c.Active },
	}
}

func SQL() repository.SQLDescriptor[*models.CreditCard] {
	return repository.SQLDescriptor[*models.CreditCard]{
		Table:        "credit_cards",
		TenantScoped: true,
		ActiveColumn: "active",
		Columns: []string{
			"id", "tenant_id", "name", "credit_limit", "closing_day", "due_day",
			"brand_id", "institution_id", "active",
			"created_by", "created_at", "updated_by", "updated_at",
		},
		Values: func(c *models.CreditCard) []any {
			return []any{
				uuid.UUID(c.ID), uuid.UUID(c.TenantID), c.Name, c.Limit, c.ClosingDay, c.DueDay,
				uuid.UUID(c.BrandID), uuid.UUID(c.InstitutionID), c.Active,
				uuid.UUID(c.CreatedBy), c.CreatedAt, uuid.UUID(c.UpdatedBy), c.UpdatedAt,
			}
		},
		Scan: func(rows pgx.Rows) (*models.CreditCard, error) {
			var (
				c                                         models.CreditCard
				id, tenant, brand, institution, cBy, uBy  uuid.UUID
			)
			if err := rows.Scan(&id, &tenant, &c.Name, &c.Limit, &c.ClosingDay, &c.DueDay,
				&brand, &institution, &c.Active,
				&cBy, &c.CreatedAt, &uBy, &c.UpdatedAt); err != nil {
				return nil, err
			}
			c.ID = domain.CardID(id)
			c.TenantID = domain.TenantID(tenant)
			c.BrandID = domain.BrandID(brand)
			c.InstitutionID = domain.InstitutionID(institution)
			c.CreatedBy = domain.UserID(cBy)
			c.UpdatedBy = domain.UserID(uBy)
			return &c, nil
		},
		FieldColumns: map[string]string{
			FieldName:          "lower(name)",
			FieldBrandID:       "brand_id",
			FieldInstitutionID: "institution_id",
		},
	}
}

func MemoryBrands() repository.Descriptor[*models.CardBrand] {
	return repository.Descriptor[*models.CardBrand]{
		Collection:   "card_brands",
		TenantScoped: true,
		Clone: func(b *models.CardBrand) *models.CardBrand {
			cp := *b
			return &cp
		},
		Fields: func(b *models.CardBrand) map[string]any {
			return map[string]any{FieldName: b.NormalizedName()}
		},
		UniqueKey: func(b *models.CardBrand) (string, bool) {
			return b.TenantID.String() + "/" + b.NormalizedName(), true
		},
	}
}

func SQLBrands() repository.SQLDescriptor[*models.CardBrand] {
	return repository.SQLDescriptor[*models.CardBrand]{
		Table:        "card_brands",
		TenantScoped: true,
		Columns:      []string{"id", "tenant_id", "name", "created_by", "created_at", "updated_by", "updated_at"},
		Values: func(b *models.CardBrand) []any {
			return []any{
				uuid.UUID(b.ID), uuid.UUID(b.TenantID), b.Name,
				uuid.UUID(b.CreatedBy), b.CreatedAt, uuid.UUID(b.UpdatedBy), b.UpdatedAt,
			}
		},
		Scan: func(rows pgx.Rows) (*models.CardBrand, error) {
			var (
				b                    models.CardBrand
				id, tenant, cBy, uBy uuid.UUID
			)
			if err := rows.Scan(&id, &tenant, &b.Name, &cBy, &b.CreatedAt, &uBy, &b.UpdatedAt); err != nil {
				return nil, err
			}
			b.ID = domain.BrandID(id)
			b.TenantID = domain.TenantID(tenant)
			b.CreatedBy = domain.UserID(cBy)
			b.UpdatedBy = domain.UserID(uBy)
			return &b, nil
		},
		FieldColumns: map[string]string{FieldName: "lower(name)"},
	}
}
