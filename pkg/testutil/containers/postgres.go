//go:build integration

// Package containers manages the shared postgres testcontainer for
// integration suites. The container is started once per test binary and
// reaped by Ryuk; suites truncate tables between tests instead of
// restarting it.
package containers

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// PostgresContainer wraps a testcontainers postgres instance with a
// ready pgx pool and the applied schema.
type PostgresContainer struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
}

var (
	pgOnce sync.Once
	pg     *PostgresContainer
	pgErr  error
)

// GetPostgres returns the shared postgres container, starting it and
// applying the schema on first use.
func GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	pgOnce.Do(func() { pg, pgErr = startPostgres() })
	if pgErr != nil {
		t.Fatalf("postgres container: %v", pgErr)
	}
	return pg
}

func startPostgres() (*PostgresContainer, error) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("finbook"),
		tcpostgres.WithUsername("finbook"),
		tcpostgres.WithPassword("finbook"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("connect: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &PostgresContainer{Container: container, Pool: pool}, nil
}

// TruncateTables clears the given tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := p.Pool.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS wallets (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL,
	name TEXT NOT NULL,
	balance NUMERIC(18,2) NOT NULL DEFAULT 0,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_by UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_by UUID NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS wallets_tenant_name ON wallets (tenant_id, lower(name));

CREATE TABLE IF NOT EXISTS title_categories (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL,
	name TEXT NOT NULL,
	created_by UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_by UUID NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS title_categories_tenant_name ON title_categories (tenant_id, lower(name));

CREATE TABLE IF NOT EXISTS persons (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL,
	name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	created_by UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_by UUID NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS titles (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL,
	description TEXT NOT NULL,
	amount NUMERIC(18,2) NOT NULL,
	due_date TIMESTAMPTZ NOT NULL,
	wallet_id UUID NOT NULL,
	category_id UUID NOT NULL,
	person_id UUID,
	paid BOOLEAN NOT NULL DEFAULT FALSE,
	paid_at TIMESTAMPTZ,
	created_by UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_by UUID NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS titles_wallet ON titles (wallet_id);

CREATE TABLE IF NOT EXISTS card_brands (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL,
	name TEXT NOT NULL,
	created_by UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_by UUID NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS card_brands_tenant_name ON card_brands (tenant_id, lower(name));

CREATE TABLE IF NOT EXISTS financial_institutions (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL,
	name TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_by UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_by UUID NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS financial_institutions_tenant_name ON financial_institutions (tenant_id, lower(name));

CREATE TABLE IF NOT EXISTS credit_cards (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL,
	name TEXT NOT NULL,
	credit_limit NUMERIC(18,2) NOT NULL DEFAULT 0,
	closing_day INT NOT NULL,
	due_day INT NOT NULL,
	brand_id UUID NOT NULL,
	institution_id UUID NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_by UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_by UUID NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS credit_cards_tenant_name ON credit_cards (tenant_id, lower(name));

CREATE TABLE IF NOT EXISTS menus (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	path TEXT NOT NULL,
	position INT NOT NULL DEFAULT 0,
	created_by UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_by UUID NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`
