package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	cardmodels "finbook/internal/creditcard/models"
	cardstore "finbook/internal/creditcard/store"
	institutionstore "finbook/internal/institution/store"
	"finbook/internal/repository"
	"finbook/internal/scope"
	"finbook/pkg/domain"
	"finbook/pkg/requestcontext"
)

type InstitutionServiceSuite struct {
	suite.Suite
	engine *repository.Engine
	svc    *Service
	tenant scope.Scope
	now    time.Time
}

func TestInstitutionServiceSuite(t *testing.T) {
	suite.Run(t, new(InstitutionServiceSuite))
}

func (s *InstitutionServiceSuite) SetupTest() {
	s.engine = repository.NewEngine()
	s.svc = New(func() Repos {
		session := s.engine.Begin()
		return Repos{
			UoW:          session,
			Institutions: repository.NewMemory(session, institutionstore.Memory()),
			Cards:        repository.NewMemory(session, cardstore.Memory()),
		}
	}, nil, nil)
	s.tenant = scope.Scope{UserID: domain.UserID(uuid.New()), TenantID: domain.TenantID(uuid.New())}
	s.now = time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
}

func (s *InstitutionServiceSuite) ctx() context.Context {
	return requestcontext.WithTime(scope.WithScope(context.Background(), s.tenant), s.now)
}

func (s *InstitutionServiceSuite) TestCreate() {
	s.Run("creates an institution", func() {
		f, result, err := s.svc.Create(s.ctx(), CreateInstitutionInput{Name: "Acme Bank"})
		s.Require().NoError(err)
		s.Require().True(result.Valid())
		s.Equal(s.tenant.TenantID, f.OwnerTenant())
	})

	s.Run("duplicate name is rejected case-insensitively", func() {
		_, result, err := s.svc.Create(s.ctx(), CreateInstitutionInput{Name: "ACME bank"})
		s.Require().NoError(err)
		s.Equal([]Code{CodeNameAlreadyInUse}, result.Codes())
	})

	s.Run("blank name is invalid", func() {
		_, result, err := s.svc.Create(s.ctx(), CreateInstitutionInput{Name: "  "})
		s.Require().NoError(err)
		s.Equal([]Code{CodeInvalidName}, result.Codes())
	})
}

func (s *InstitutionServiceSuite) TestUpdate() {
	f, result, err := s.svc.Create(s.ctx(), CreateInstitutionInput{Name: "First"})
	s.Require().NoError(err)
	s.Require().True(result.Valid())

	s.Run("renames the institution", func() {
		updated, result, err := s.svc.Update(s.ctx(), UpdateInstitutionInput{ID: f.ID, Name: "First Renamed"})
		s.Require().NoError(err)
		s.Require().True(result.Valid())
		s.Equal("First Renamed", updated.Name)
	})

	s.Run("missing institution and blank name accumulate", func() {
		_, result, err := s.svc.Update(s.ctx(), UpdateInstitutionInput{ID: domain.InstitutionID(uuid.New()), Name: ""})
		s.Require().NoError(err)
		s.Equal([]Code{CodeInstitutionNotFound, CodeInvalidName}, result.Codes())
	})
}

func (s *InstitutionServiceSuite) TestDelete() {
	s.Run("referenced institution is kept", func() {
		f, result, err := s.svc.Create(s.ctx(), CreateInstitutionInput{Name: "Card Issuer"})
		s.Require().NoError(err)
		s.Require().True(result.Valid())
		s.addCard(f.ID)

		result, err = s.svc.Delete(s.ctx(), DeleteInstitutionInput{ID: f.ID})
		s.Require().NoError(err)
		s.Equal([]Code{CodeInstitutionInUse}, result.Codes())

		institutions, err := s.svc.List(s.ctx(), false)
		s.Require().NoError(err)
		s.Len(institutions, 1)
	})

	s.Run("unreferenced institution is removed", func() {
		f, result, err := s.svc.Create(s.ctx(), CreateInstitutionInput{Name: "Unused"})
		s.Require().NoError(err)
		s.Require().True(result.Valid())

		result, err = s.svc.Delete(s.ctx(), DeleteInstitutionInput{ID: f.ID})
		s.Require().NoError(err)
		s.True(result.Valid())
	})
}

func (s *InstitutionServiceSuite) addCard(institutionID domain.InstitutionID) {
	c, err := cardmodels.NewCreditCard("Platinum", decimal.NewFromInt(5000), 5, 15,
		domain.BrandID(uuid.New()), institutionID)
	s.Require().NoError(err)

	session := s.engine.Begin()
	cards := repository.NewMemory(session, cardstore.Memory())
	s.Require().NoError(cards.Add(s.ctx(), c))
	s.Require().NoError(session.SaveChanges(s.ctx()))
}
