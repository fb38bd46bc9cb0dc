// Package service orchestrates counterparty (person) operations.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"finbook/internal/person/models"
	"finbook/internal/platform/metrics"
	"finbook/internal/repository"
	"finbook/pkg/domain"
	dErrors "finbook/pkg/domain-errors"
)

type CreatePersonInput struct {
	Name  string
	Email string
}

// Repos is the unit of work a person operation runs against.
type Repos struct {
	UoW     repository.UnitOfWork
	Persons repository.Repository[*models.Person]
}

type Service struct {
	begin   func() Repos
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(begin func() Repos, logger *slog.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{begin: begin, logger: logger, metrics: m}
}

func (s *Service) Create(ctx context.Context, in CreatePersonInput) (*models.Person, error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	p, err := models.NewPerson(in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	if err := repos.Persons.Add(ctx, p); err != nil {
		return nil, err
	}
	if err := repos.UoW.SaveChanges(ctx); err != nil {
		return nil, err
	}

	s.metrics.IncrementCreated("person")
	s.logger.InfoContext(ctx, "person created", "person_id", p.ID.String())
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Person, error) {
	repos := s.begin()
	defer repos.UoW.Discard()
	return repos.Persons.Query(ctx)
}

func (s *Service) Delete(ctx context.Context, id domain.PersonID) error {
	repos := s.begin()
	defer repos.UoW.Discard()

	p, err := repos.Persons.FindByID(ctx, uuid.UUID(id))
	if err != nil {
		if repository.IsNotFound(err) {
			return dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		return err
	}
	if err := repos.Persons.Delete(ctx, p); err != nil {
		return err
	}
	if err := repos.UoW.SaveChanges(ctx); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "person deleted", "person_id", p.ID.String())
	return nil
}
