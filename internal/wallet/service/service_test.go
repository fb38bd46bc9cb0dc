package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"finbook/internal/repository"
	"finbook/internal/scope"
	titlemodels "finbook/internal/title/models"
	titlestore "finbook/internal/title/store"
	walletstore "finbook/internal/wallet/store"
	"finbook/pkg/domain"
	dErrors "finbook/pkg/domain-errors"
	"finbook/pkg/requestcontext"
)

type WalletServiceSuite struct {
	suite.Suite
	engine  *repository.Engine
	svc     *Service
	tenantA scope.Scope
	tenantB scope.Scope
	now     time.Time
}

func TestWalletServiceSuite(t *testing.T) {
	suite.Run(t, new(WalletServiceSuite))
}

func (s *WalletServiceSuite) SetupTest() {
	s.engine = repository.NewEngine()
	s.svc = New(func() Repos {
		session := s.engine.Begin()
		return Repos{
			UoW:     session,
			Wallets: repository.NewMemory(session, walletstore.Memory()),
			Titles:  repository.NewMemory(session, titlestore.Memory()),
		}
	}, nil, nil)
	s.tenantA = scope.Scope{UserID: domain.UserID(uuid.New()), TenantID: domain.TenantID(uuid.New())}
	s.tenantB = scope.Scope{UserID: domain.UserID(uuid.New()), TenantID: domain.TenantID(uuid.New())}
	s.now = time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC)
}

func (s *WalletServiceSuite) ctx(sc scope.Scope) context.Context {
	return requestcontext.WithTime(scope.WithScope(context.Background(), sc), s.now)
}

func (s *WalletServiceSuite) TestCreate() {
	s.Run("creates and stamps a wallet", func() {
		w, result, err := s.svc.Create(s.ctx(s.tenantA), CreateWalletInput{Name: "Main", Balance: decimal.NewFromInt(50)})
		s.Require().NoError(err)
		s.Require().True(result.Valid())
		s.Equal(s.tenantA.TenantID, w.OwnerTenant())
		s.Equal(s.tenantA.UserID, w.CreatedBy)
		s.Equal(s.now, w.CreatedAt)

		found, err := s.svc.Get(s.ctx(s.tenantA), w.ID)
		s.Require().NoError(err)
		s.Equal("Main", found.Name)
	})

	s.Run("duplicate name within the tenant is rejected", func() {
		_, result, err := s.svc.Create(s.ctx(s.tenantA), CreateWalletInput{Name: "main"})
		s.Require().NoError(err)
		s.False(result.Valid())
		s.Equal([]Code{CodeNameAlreadyInUse}, result.Codes())
	})

	s.Run("same name under another tenant succeeds", func() {
		_, result, err := s.svc.Create(s.ctx(s.tenantB), CreateWalletInput{Name: "Main"})
		s.Require().NoError(err)
		s.True(result.Valid())
	})

	s.Run("empty and duplicate violations accumulate separately", func() {
		_, result, err := s.svc.Create(s.ctx(s.tenantA), CreateWalletInput{Name: "   "})
		s.Require().NoError(err)
		s.Equal([]Code{CodeInvalidName}, result.Codes())
	})
}

func (s *WalletServiceSuite) TestUpdate() {
	w, result, err := s.svc.Create(s.ctx(s.tenantA), CreateWalletInput{Name: "Bills"})
	s.Require().NoError(err)
	s.Require().True(result.Valid())

	s.Run("rename to itself is allowed", func() {
		_, result, err := s.svc.Update(s.ctx(s.tenantA), UpdateWalletInput{ID: w.ID, Name: "BILLS"})
		s.Require().NoError(err)
		s.True(result.Valid())
	})

	s.Run("rename onto another wallet's name is rejected", func() {
		_, result, err := s.svc.Create(s.ctx(s.tenantA), CreateWalletInput{Name: "Savings"})
		s.Require().NoError(err)
		s.Require().True(result.Valid())

		_, result, err = s.svc.Update(s.ctx(s.tenantA), UpdateWalletInput{ID: w.ID, Name: "savings"})
		s.Require().NoError(err)
		s.Equal([]Code{CodeNameAlreadyInUse}, result.Codes())
	})

	s.Run("unknown wallet accumulates not-found alongside name checks", func() {
		_, result, err := s.svc.Update(s.ctx(s.tenantA), UpdateWalletInput{ID: domain.WalletID(uuid.New()), Name: ""})
		s.Require().NoError(err)
		s.Equal([]Code{CodeWalletNotFound, CodeInvalidName}, result.Codes())
	})

	s.Run("another tenant cannot reach the wallet", func() {
		_, result, err := s.svc.Update(s.ctx(s.tenantB), UpdateWalletInput{ID: w.ID, Name: "Hijack"})
		s.Require().NoError(err)
		s.Contains(result.Codes(), CodeWalletNotFound)
	})
}

func (s *WalletServiceSuite) TestDelete() {
	s.Run("referenced wallet is kept and stays queryable", func() {
		w, result, err := s.svc.Create(s.ctx(s.tenantA), CreateWalletInput{Name: "Referenced"})
		s.Require().NoError(err)
		s.Require().True(result.Valid())
		s.addTitle(s.tenantA, w.ID)

		result, err = s.svc.Delete(s.ctx(s.tenantA), DeleteWalletInput{ID: w.ID})
		s.Require().NoError(err)
		s.Equal([]Code{CodeWalletInUse}, result.Codes())

		found, err := s.svc.Get(s.ctx(s.tenantA), w.ID)
		s.Require().NoError(err)
		s.Equal(w.ID, found.ID)
	})

	s.Run("unreferenced wallet is removed", func() {
		w, result, err := s.svc.Create(s.ctx(s.tenantA), CreateWalletInput{Name: "Disposable"})
		s.Require().NoError(err)
		s.Require().True(result.Valid())

		result, err = s.svc.Delete(s.ctx(s.tenantA), DeleteWalletInput{ID: w.ID})
		s.Require().NoError(err)
		s.True(result.Valid())

		_, err = s.svc.Get(s.ctx(s.tenantA), w.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *WalletServiceSuite) TestList() {
	_, result, err := s.svc.Create(s.ctx(s.tenantA), CreateWalletInput{Name: "Visible"})
	s.Require().NoError(err)
	s.Require().True(result.Valid())
	_, result, err = s.svc.Create(s.ctx(s.tenantB), CreateWalletInput{Name: "Other tenant"})
	s.Require().NoError(err)
	s.Require().True(result.Valid())

	wallets, err := s.svc.List(s.ctx(s.tenantA), false)
	s.Require().NoError(err)
	s.Require().Len(wallets, 1)
	s.Equal("Visible", wallets[0].Name)
}

// addTitle commits a title referencing the wallet, bypassing the title
// service to keep the fixture local.
func (s *WalletServiceSuite) addTitle(sc scope.Scope, walletID domain.WalletID) {
	t, err := titlemodels.NewTitle("rent", decimal.NewFromInt(10), s.now, walletID, domain.CategoryID(uuid.New()))
	s.Require().NoError(err)

	session := s.engine.Begin()
	titles := repository.NewMemory(session, titlestore.Memory())
	s.Require().NoError(titles.Add(s.ctx(sc), t))
	s.Require().NoError(session.SaveChanges(s.ctx(sc)))
}
