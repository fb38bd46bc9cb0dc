// Package store declares the engine mappings for financial institutions.
package store

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"finbook/internal/institution/models"
	"finbook/internal/repository"
	"finbook/pkg/domain"
)

const FieldName = "name"

func Memory() repository.Descriptor[*models.FinancialInstitution] {
	return repository.Descriptor[*models.FinancialInstitution]{
		Collection:   "financial_institutions",
		TenantScoped: true,
		Clone: func(f *models.FinancialInstitution) *models.FinancialInstitution {
			cp := *f
			return &cp
		},
		Fields: func(f *models.FinancialInstitution) map[string]any {
			return map[string]any{FieldName: f.NormalizedName()}
		},
		UniqueKey: func(f *models.FinancialInstitution) (string, bool) {
			return f.TenantID.String() + "/" + f.NormalizedName(), true
		},
		Active: func(f *models.FinancialInstitution) bool { return f.Active },
	}
}

func SQL() repository.SQLDescriptor[*models.FinancialInstitution] {
	return repository.SQLDescriptor[*models.FinancialInstitution]{
		Table:        "financial_institutions",
		TenantScoped: true,
		ActiveColumn: "active",
		Columns:      []string{"id", "tenant_id", "name", "active", "created_by", "created_at", "updated_by", "updated_at"},
		Values: func(f *models.FinancialInstitution) []any {
			return []any{
				uuid.UUID(f.ID), uuid.UUID(f.TenantID), f.Name, f.Active,
				uuid.UUID(f.CreatedBy), f.CreatedAt, uuid.UUID(f.UpdatedBy), f.UpdatedAt,
			}
		},
		Scan: func(rows pgx.Rows) (*models.FinancialInstitution, error) {
			var (
				f                    models.FinancialInstitution
				id, tenant, cBy, uBy uuid.UUID
			)
			if err := rows.Scan(&id, &tenant, &f.Name, &f.Active, &cBy, &f.CreatedAt, &uBy, &f.UpdatedAt); err != nil {
				return nil, err
			}
			f.ID = domain.InstitutionID(id)
			f.TenantID = domain.TenantID(tenant)
			f.CreatedBy = domain.UserID(cBy)
			f.UpdatedBy = domain.UserID(uBy)
			return &f, nil
		},
		FieldColumns: map[string]string{FieldName: "lower(name)"},
	}
}
