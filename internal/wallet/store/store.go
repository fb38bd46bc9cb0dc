// Package store declares how wallets map onto the storage engines: the
// memory descriptor used by unit tests and the SQL descriptor used by
// the postgres engine. Both carry the same tenant scoping and the same
// per-tenant name uniqueness invariant.
package store

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"finbook/internal/repository"
	"finbook/internal/wallet/models"
	"finbook/pkg/domain"
)

// FieldName is the query field for normalized-name lookups.
const FieldName = "name"

func Memory() repository.Descriptor[*models.Wallet] {
	return repository.Descriptor[*models.Wallet]{
		Collection:   "wallets",
		TenantScoped: true,
		Clone: func(w *models.Wallet) *models.Wallet {
			c := *w
			return &c
		},
		Fields: func(w *models.Wallet) map[string]any {
			return map[string]any{FieldName: w.NormalizedName()}
		},
		UniqueKey: func(w *models.Wallet) (string, bool) {
			return w.TenantID.String() + "/" + w.NormalizedName(), true
		},
		Active: func(w *models.Wallet) bool { return w.Active },
	}
}

func SQL() repository.SQLDescriptor[*models.Wallet] {
	return repository.SQLDescriptor[*models.Wallet]{
		Table:        "wallets",
		TenantScoped: true,
		ActiveColumn: "active",
		Columns:      []string{"id", "tenant_id", "name", "balance", "active", "created_by", "created_at", "updated_by", "updated_at"},
		Values: func(w *models.Wallet) []any {
			return []any{
				uuid.UUID(w.ID), uuid.UUID(w.TenantID), w.Name, w.Balance, w.Active,
				uuid.UUID(w.CreatedBy), w.CreatedAt, uuid.UUID(w.UpdatedBy), w.UpdatedAt,
			}
		},
		Scan: func(rows pgx.Rows) (*models.Wallet, error) {
			var (
				w                    models.Wallet
				id, tenant, cBy, uBy uuid.UUID
			)
			if err := rows.Scan(&id, &tenant, &w.Name, &w.Balance, &w.Active, &cBy, &w.CreatedAt, &uBy, &w.UpdatedAt); err != nil {
				return nil, err
			}
			w.ID = domain.WalletID(id)
			w.TenantID = domain.TenantID(tenant)
			w.CreatedBy = domain.UserID(cBy)
			w.UpdatedBy = domain.UserID(uBy)
			return &w, nil
		},
		FieldColumns: map[string]string{FieldName: "lower(name)"},
	}
}
