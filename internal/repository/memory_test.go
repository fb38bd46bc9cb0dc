package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	menumodels "finbook/internal/menu/models"
	menustore "finbook/internal/menu/store"
	"finbook/internal/repository"
	"finbook/internal/scope"
	walletmodels "finbook/internal/wallet/models"
	walletstore "finbook/internal/wallet/store"
	"finbook/pkg/domain"
	dErrors "finbook/pkg/domain-errors"
	"finbook/pkg/platform/sentinel"
	"finbook/pkg/requestcontext"
)

type MemoryRepositorySuite struct {
	suite.Suite
	engine  *repository.Engine
	tenantA scope.Scope
	tenantB scope.Scope
	admin   scope.Scope
	now     time.Time
}

func TestMemoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(MemoryRepositorySuite))
}

func (s *MemoryRepositorySuite) SetupTest() {
	s.engine = repository.NewEngine()
	s.tenantA = scope.Scope{UserID: domain.UserID(uuid.New()), TenantID: domain.TenantID(uuid.New())}
	s.tenantB = scope.Scope{UserID: domain.UserID(uuid.New()), TenantID: domain.TenantID(uuid.New())}
	s.admin = scope.Scope{UserID: domain.UserID(uuid.New()), Admin: true}
	s.now = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func (s *MemoryRepositorySuite) ctx(sc scope.Scope) context.Context {
	ctx := scope.WithScope(context.Background(), sc)
	return requestcontext.WithTime(ctx, s.now)
}

func (s *MemoryRepositorySuite) wallets(session *repository.Session) *repository.Memory[*walletmodels.Wallet] {
	return repository.NewMemory(session, walletstore.Memory())
}

func (s *MemoryRepositorySuite) mustCreateWallet(sc scope.Scope, name string) *walletmodels.Wallet {
	w, err := walletmodels.NewWallet(name, decimal.NewFromInt(100))
	s.Require().NoError(err)
	session := s.engine.Begin()
	s.Require().NoError(s.wallets(session).Add(s.ctx(sc), w))
	s.Require().NoError(session.SaveChanges(s.ctx(sc)))
	return w
}

func (s *MemoryRepositorySuite) TestTenantIsolation() {
	walletA := s.mustCreateWallet(s.tenantA, "Groceries")
	walletB := s.mustCreateWallet(s.tenantB, "Groceries B")

	s.Run("query returns only the scope's rows", func() {
		rows, err := s.wallets(s.engine.Begin()).Query(s.ctx(s.tenantA))
		s.Require().NoError(err)
		s.Require().Len(rows, 1)
		s.Equal(walletA.ID, rows[0].ID)
	})

	s.Run("cross-tenant FindByID is indistinguishable from missing", func() {
		_, err := s.wallets(s.engine.Begin()).FindByID(s.ctx(s.tenantA), uuid.UUID(walletB.ID))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		_, err = s.wallets(s.engine.Begin()).FindByID(s.ctx(s.tenantA), uuid.New())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("cross-tenant update and delete read as not found", func() {
		session := s.engine.Begin()
		err := s.wallets(session).Update(s.ctx(s.tenantA), walletB)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		err = s.wallets(session).Delete(s.ctx(s.tenantA), walletB)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("admin sees every tenant's rows", func() {
		rows, err := s.wallets(s.engine.Begin()).Query(s.ctx(s.admin))
		s.Require().NoError(err)
		s.Len(rows, 2)

		found, err := s.wallets(s.engine.Begin()).FindByID(s.ctx(s.admin), uuid.UUID(walletB.ID))
		s.Require().NoError(err)
		s.Equal(walletB.ID, found.ID)
	})
}

func (s *MemoryRepositorySuite) TestScopeRequirements() {
	s.Run("unauthenticated operation on tenant-scoped collection", func() {
		w, err := walletmodels.NewWallet("Orphan", decimal.Zero)
		s.Require().NoError(err)

		session := s.engine.Begin()
		err = s.wallets(session).Add(context.Background(), w)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

		_, err = s.wallets(session).Query(context.Background())
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("non-admin scope without tenant membership", func() {
		sc := scope.Scope{UserID: domain.UserID(uuid.New())}
		_, err := s.wallets(s.engine.Begin()).Query(s.ctx(sc))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *MemoryRepositorySuite) TestAuditStamping() {
	s.Run("add stamps creator, modifier and request time", func() {
		w := s.mustCreateWallet(s.tenantA, "Stamped")

		found, err := s.wallets(s.engine.Begin()).FindByID(s.ctx(s.tenantA), uuid.UUID(w.ID))
		s.Require().NoError(err)
		s.Equal(s.tenantA.UserID, found.CreatedBy)
		s.Equal(s.tenantA.UserID, found.UpdatedBy)
		s.Equal(s.now, found.CreatedAt)
		s.Equal(s.now, found.UpdatedAt)
	})

	s.Run("add overwrites a pre-set tenant with the scope's", func() {
		w, err := walletmodels.NewWallet("Smuggled", decimal.Zero)
		s.Require().NoError(err)
		w.SetOwnerTenant(s.tenantB.TenantID)

		session := s.engine.Begin()
		s.Require().NoError(s.wallets(session).Add(s.ctx(s.tenantA), w))
		s.Require().NoError(session.SaveChanges(s.ctx(s.tenantA)))

		found, err := s.wallets(s.engine.Begin()).FindByID(s.ctx(s.tenantA), uuid.UUID(w.ID))
		s.Require().NoError(err)
		s.Equal(s.tenantA.TenantID, found.OwnerTenant())
	})

	s.Run("update restamps only the modifier fields", func() {
		w := s.mustCreateWallet(s.tenantA, "Renamed")

		later := s.now.Add(time.Hour)
		editor := scope.Scope{UserID: domain.UserID(uuid.New()), TenantID: s.tenantA.TenantID}
		editCtx := requestcontext.WithTime(scope.WithScope(context.Background(), editor), later)

		session := s.engine.Begin()
		w.Name = "Renamed twice"
		s.Require().NoError(s.wallets(session).Update(editCtx, w))
		s.Require().NoError(session.SaveChanges(editCtx))

		found, err := s.wallets(s.engine.Begin()).FindByID(s.ctx(s.tenantA), uuid.UUID(w.ID))
		s.Require().NoError(err)
		s.Equal(s.tenantA.UserID, found.CreatedBy)
		s.Equal(s.now, found.CreatedAt)
		s.Equal(editor.UserID, found.UpdatedBy)
		s.Equal(later, found.UpdatedAt)
	})

	s.Run("tenant-less admin must name the owner tenant", func() {
		w, err := walletmodels.NewWallet("Admin owned", decimal.Zero)
		s.Require().NoError(err)

		session := s.engine.Begin()
		err = s.wallets(session).Add(s.ctx(s.admin), w)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

		w.SetOwnerTenant(s.tenantA.TenantID)
		s.Require().NoError(s.wallets(session).Add(s.ctx(s.admin), w))
		s.Require().NoError(session.SaveChanges(s.ctx(s.admin)))

		found, err := s.wallets(s.engine.Begin()).FindByID(s.ctx(s.tenantA), uuid.UUID(w.ID))
		s.Require().NoError(err)
		s.Equal(s.tenantA.TenantID, found.OwnerTenant())
		s.Equal(s.admin.UserID, found.CreatedBy)
	})
}

func (s *MemoryRepositorySuite) TestUnitOfWork() {
	s.Run("staged changes are invisible until SaveChanges", func() {
		w, err := walletmodels.NewWallet("Staged", decimal.Zero)
		s.Require().NoError(err)

		session := s.engine.Begin()
		s.Require().NoError(s.wallets(session).Add(s.ctx(s.tenantA), w))

		rows, err := s.wallets(s.engine.Begin()).Query(s.ctx(s.tenantA))
		s.Require().NoError(err)
		s.Empty(rows)

		s.Require().NoError(session.SaveChanges(s.ctx(s.tenantA)))
		rows, err = s.wallets(s.engine.Begin()).Query(s.ctx(s.tenantA))
		s.Require().NoError(err)
		s.Len(rows, 1)
	})

	s.Run("discard drops the stage", func() {
		w, err := walletmodels.NewWallet("Dropped", decimal.Zero)
		s.Require().NoError(err)

		session := s.engine.Begin()
		s.Require().NoError(s.wallets(session).Add(s.ctx(s.tenantA), w))
		session.Discard()
		s.Require().NoError(session.SaveChanges(s.ctx(s.tenantA)))

		_, err = s.wallets(s.engine.Begin()).FindByID(s.ctx(s.tenantA), uuid.UUID(w.ID))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("conflicting batch applies nothing", func() {
		s.mustCreateWallet(s.tenantA, "Taken")

		fresh, err := walletmodels.NewWallet("Fresh", decimal.Zero)
		s.Require().NoError(err)
		duplicate, err := walletmodels.NewWallet("taken", decimal.Zero)
		s.Require().NoError(err)

		session := s.engine.Begin()
		repo := s.wallets(session)
		s.Require().NoError(repo.Add(s.ctx(s.tenantA), fresh))
		s.Require().NoError(repo.Add(s.ctx(s.tenantA), duplicate))

		err = session.SaveChanges(s.ctx(s.tenantA))
		s.Require().ErrorIs(err, sentinel.ErrConflict)

		// The valid insert in the same batch must not have leaked through.
		_, err = s.wallets(s.engine.Begin()).FindByID(s.ctx(s.tenantA), uuid.UUID(fresh.ID))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("same name under another tenant commits fine", func() {
		s.mustCreateWallet(s.tenantA, "Shared name")
		s.mustCreateWallet(s.tenantB, "Shared name")
	})

	s.Run("rename frees the previous unique key", func() {
		w := s.mustCreateWallet(s.tenantA, "Old name")

		session := s.engine.Begin()
		w.Name = "New name"
		s.Require().NoError(s.wallets(session).Update(s.ctx(s.tenantA), w))
		s.Require().NoError(session.SaveChanges(s.ctx(s.tenantA)))

		s.mustCreateWallet(s.tenantA, "Old name")
	})

	s.Run("cancelled commit applies nothing", func() {
		w, err := walletmodels.NewWallet("Cancelled", decimal.Zero)
		s.Require().NoError(err)

		session := s.engine.Begin()
		s.Require().NoError(s.wallets(session).Add(s.ctx(s.tenantA), w))

		cancelled, cancel := context.WithCancel(s.ctx(s.tenantA))
		cancel()
		s.Require().Error(session.SaveChanges(cancelled))

		_, err = s.wallets(s.engine.Begin()).FindByID(s.ctx(s.tenantA), uuid.UUID(w.ID))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryRepositorySuite) TestQueryOptions() {
	s.Run("inactive rows are hidden unless requested", func() {
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
	})

	s.Run("field filters match declared descriptor fields", func() {
		s.mustCreateWallet(s.tenantA, "Household")
		s.mustCreateWallet(s.tenantA, "Travel")

		rows, err := s.wallets(s.engine.Begin()).Query(s.ctx(s.tenantA),
			repository.WithField(walletstore.FieldName, "household"))
		s.Require().NoError(err)
		s.Require().Len(rows, 1)
		s.Equal("Household", rows[0].Name)
	})

	s.Run("reads return clones, not live references", func() {
		w := s.mustCreateWallet(s.tenantA, "Immutable")

		found, err := s.wallets(s.engine.Begin()).FindByID(s.ctx(s.tenantA), uuid.UUID(w.ID))
		s.Require().NoError(err)
		found.Name = "Mutated"

		again, err := s.wallets(s.engine.Begin()).FindByID(s.ctx(s.tenantA), uuid.UUID(w.ID))
		s.Require().NoError(err)
		s.Equal("Immutable", again.Name)
	})
}

func (s *MemoryRepositorySuite) TestGlobalCollections() {
	menus := func(session *repository.Session) *repository.Memory[*menumodels.Menu] {
		return repository.NewMemory(session, menustore.Memory())
	}

	s.Run("menus are visible across tenants", func() {
		m := menumodels.NewMenu("Dashboard", "/dashboard", 1)
		session := s.engine.Begin()
		s.Require().NoError(menus(session).Add(s.ctx(s.admin), m))
		s.Require().NoError(session.SaveChanges(s.ctx(s.admin)))

		for _, sc := range []scope.Scope{s.tenantA, s.tenantB} {
			rows, err := menus(s.engine.Begin()).Query(s.ctx(sc))
			s.Require().NoError(err)
			s.Require().Len(rows, 1)
			s.Equal("Dashboard", rows[0].Name)
		}
	})

	s.Run("menus still carry audit attribution", func() {
		m := menumodels.NewMenu("Reports", "/reports", 2)
		session := s.engine.Begin()
		s.Require().NoError(menus(session).Add(s.ctx(s.tenantA), m))
		s.Require().NoError(session.SaveChanges(s.ctx(s.tenantA)))

		found, err := menus(s.engine.Begin()).FindByID(s.ctx(s.tenantB), uuid.UUID(m.ID))
		s.Require().NoError(err)
		s.Equal(s.tenantA.UserID, found.CreatedBy)
		s.Equal(s.now, found.CreatedAt)
	})
}
