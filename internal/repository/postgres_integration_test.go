//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"finbook/internal/repository"
	"finbook/internal/scope"
	walletmodels "finbook/internal/wallet/models"
	walletstore "finbook/internal/wallet/store"
	"finbook/pkg/domain"
	"finbook/pkg/platform/sentinel"
	"finbook/pkg/requestcontext"
	"finbook/pkg/testutil/containers"
)

type PostgresRepositorySuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	engine   *repository.PGEngine
	tenantA  scope.Scope
	tenantB  scope.Scope
	admin    scope.Scope
	now      time.Time
}

func TestPostgresRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresRepositorySuite))
}

func (s *PostgresRepositorySuite) SetupSuite() {
	s.postgres = containers.GetPostgres(s.T())
	s.engine = repository.NewPGEngine(s.postgres.Pool)
}

func (s *PostgresRepositorySuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(),
		"titles", "wallets", "credit_cards", "card_brands",
		"financial_institutions", "title_categories", "persons", "menus"))
	s.tenantA = scope.Scope{UserID: domain.UserID(uuid.New()), TenantID: domain.TenantID(uuid.New())}
	s.tenantB = scope.Scope{UserID: domain.UserID(uuid.New()), TenantID: domain.TenantID(uuid.New())}
	s.admin = scope.Scope{UserID: domain.UserID(uuid.New()), Admin: true}
	s.now = time.Date(2026, 4, 1, 7, 45, 0, 0, time.UTC)
}

func (s *PostgresRepositorySuite) ctx(sc scope.Scope) context.Context {
	return requestcontext.WithTime(scope.WithScope(context.Background(), sc), s.now)
}

func (s *PostgresRepositorySuite) wallets(session *repository.PGSession) *repository.Postgres[*walletmodels.Wallet] {
	return repository.NewPostgres(session, walletstore.SQL())
}

func (s *PostgresRepositorySuite) mustCreateWallet(sc scope.Scope, name string) *walletmodels.Wallet {
	w, err := walletmodels.NewWallet(name, decimal.NewFromInt(100))
	s.Require().NoError(err)
	session := s.engine.Begin()
	s.Require().NoError(s.wallets(session).Add(s.ctx(sc), w))
	s.Require().NoError(session.SaveChanges(s.ctx(sc)))
	return w
}

func (s *PostgresRepositorySuite) TestTenantIsolation() {
	walletA := s.mustCreateWallet(s.tenantA, "Groceries")
	walletB := s.mustCreateWallet(s.tenantB, "Groceries")

	s.Run("query is restricted to the scope's tenant", func() {
		rows, err := s.wallets(s.engine.Begin()).Query(s.ctx(s.tenantA))
		s.Require().NoError(err)
		s.Require().Len(rows, 1)
		s.Equal(walletA.ID, rows[0].ID)
	})

	s.Run("cross-tenant FindByID reads as not found", func() {
		_, err := s.wallets(s.engine.Begin()).FindByID(s.ctx(s.tenantA), uuid.UUID(walletB.ID))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("admin reads across tenants", func() {
		rows, err := s.wallets(s.engine.Begin()).Query(s.ctx(s.admin))
		s.Require().NoError(err)
		s.Len(rows, 2)
	})
}

func (s *PostgresRepositorySuite) TestAuditRoundTrip() {
	w := s.mustCreateWallet(s.tenantA, "Stamped")

	found, err := s.wallets(s.engine.Begin()).FindByID(s.ctx(s.tenantA), uuid.UUID(w.ID))
	s.Require().NoError(err)
	s.Equal(s.tenantA.UserID, found.CreatedBy)
	s.Equal(s.tenantA.TenantID, found.OwnerTenant())
	s.True(found.CreatedAt.Equal(s.now))
	s.True(found.Balance.Equal(decimal.NewFromInt(100)))
}

func (s *PostgresRepositorySuite) TestUniqueConflict() {
	s.mustCreateWallet(s.tenantA, "Taken")

	s.Run("duplicate normalized name rolls the batch back", func() {
		fresh, err := walletmodels.NewWallet("Fresh", decimal.Zero)
		s.Require().NoError(err)
		duplicate, err := walletmodels.NewWallet("TAKEN", decimal.Zero)
		s.Require().NoError(err)

		session := s.engine.Begin()
		repo := s.wallets(session)
		s.Require().NoError(repo.Add(s.ctx(s.tenantA), fresh))
		s.Require().NoError(repo.Add(s.ctx(s.tenantA), duplicate))

		err = session.SaveChanges(s.ctx(s.tenantA))
		s.Require().ErrorIs(err, sentinel.ErrConflict)

		_, err = s.wallets(s.engine.Begin()).FindByID(s.ctx(s.tenantA), uuid.UUID(fresh.ID))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("same name commits under another tenant", func() {
		s.mustCreateWallet(s.tenantB, "Taken")
	})
}

func (s *PostgresRepositorySuite) TestUpdateAndDelete() {
	w := s.mustCreateWallet(s.tenantA, "Mutable")

	s.Run("update persists and restamps", func() {
		later := s.now.Add(time.Hour)
		ctx := requestcontext.WithTime(scope.WithScope(context.Background(), s.tenantA), later)

		session := s.engine.Begin()
		w.Name = "Renamed"
		s.Require().NoError(s.wallets(session).Update(ctx, w))
		s.Require().NoError(session.SaveChanges(ctx))

		found, err := s.wallets(s.engine.Begin()).FindByID(s.ctx(s.tenantA), uuid.UUID(w.ID))
		s.Require().NoError(err)
		s.Equal("Renamed", found.Name)
		s.True(found.UpdatedAt.Equal(later))
		s.True(found.CreatedAt.Equal(s.now))
	})

	s.Run("cross-tenant update reads as not found", func() {
		err := s.wallets(s.engine.Begin()).Update(s.ctx(s.tenantB), w)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("delete removes the row", func() {
		session := s.engine.Begin()
		s.Require().NoError(s.wallets(session).Delete(s.ctx(s.tenantA), w))
		s.Require().NoError(session.SaveChanges(s.ctx(s.tenantA)))

		_, err := s.wallets(s.engine.Begin()).FindByID(s.ctx(s.tenantA), uuid.UUID(w.ID))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresRepositorySuite) TestQueryOptions() {
	w := s.mustCreateWallet(s.tenantA, "Soon inactive")

	session := s.engine.Begin()
	w.Active = false
	s.Require().NoError(s.wallets(session).Update(s.ctx(s.tenantA), w))
	s.Require().NoError(session.SaveChanges(s.ctx(s.tenantA)))

	rows, err := s.wallets(s.engine.Begin()).Query(s.ctx(s.tenantA))
	s.Require().NoError(err)
	s.Empty(rows)

	rows, err = s.wallets(s.engine.Begin()).Query(s.ctx(s.tenantA), repository.WithInactive())
	s.Require().NoError(err)
	s.Len(rows, 1)

	rows, err = s.wallets(s.engine.Begin()).Query(s.ctx(s.tenantA),
		repository.WithInactive(),
		repository.WithField(walletstore.FieldName, "soon inactive"))
	s.Require().NoError(err)
	s.Len(rows, 1)
}
