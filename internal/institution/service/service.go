// Package service orchestrates financial-institution operations.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	cardmodels "finbook/internal/creditcard/models"
	"finbook/internal/institution/models"
	"finbook/internal/platform/metrics"
	"finbook/internal/repository"
	"finbook/internal/validation"
	"finbook/pkg/domain"
	dErrors "finbook/pkg/domain-errors"
)

type CreateInstitutionInput struct {
	Name string
}

func (i CreateInstitutionInput) InstitutionName() string { return i.Name }

type UpdateInstitutionInput struct {
	ID   domain.InstitutionID
	Name string
}

func (i UpdateInstitutionInput) InstitutionName() string { return i.Name }

type DeleteInstitutionInput struct {
	ID domain.InstitutionID
}

// Repos is the unit of work an institution operation runs against.
type Repos struct {
	UoW          repository.UnitOfWork
	Institutions repository.Repository[*models.FinancialInstitution]
	Cards        repository.Repository[*cardmodels.CreditCard]
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

func (s *Service) Create(ctx context.Context, in CreateInstitutionInput) (*models.FinancialInstitution, validation.Result[Code], error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	pipe := validation.NewPipeline("institution.create",
		nameValid[CreateInstitutionInput](),
		nameAvailable[CreateInstitutionInput](repos.Institutions),
	)
	result, err := pipe.Run(ctx, in, uuid.Nil)
	if err != nil {
		return nil, result, err
	}
	if !result.Valid() {
		s.metrics.ObserveValidationFailure("institution.create", codeStrings(result.Codes()))
		return nil, result, nil
	}

	f, err := models.NewFinancialInstitution(in.Name)
	if err != nil {
		return nil, result, err
	}
	if err := repos.Institutions.Add(ctx, f); err != nil {
		return nil, result, err
	}
	if err := s.commit(ctx, repos); err != nil {
		return nil, result, err
	}

	s.metrics.IncrementCreated("institution")
	s.logger.InfoContext(ctx, "institution created", "institution_id", f.ID.String())
	return f, result, nil
}

func (s *Service) Update(ctx context.Context, in UpdateInstitutionInput) (*models.FinancialInstitution, validation.Result[Code], error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	pipe := validation.NewPipeline("institution.update",
		institutionExists[UpdateInstitutionInput](repos.Institutions),
		nameValid[UpdateInstitutionInput](),
		nameAvailable[UpdateInstitutionInput](repos.Institutions),
	)
	result, err := pipe.Run(ctx, in, uuid.UUID(in.ID))
	if err != nil {
		return nil, result, err
	}
	if !result.Valid() {
		s.metrics.ObserveValidationFailure("institution.update", codeStrings(result.Codes()))
		return nil, result, nil
	}

	f := result.Payload().(*models.FinancialInstitution)
	f.Name = in.Name
	if err := repos.Institutions.Update(ctx, f); err != nil {
		return nil, result, err
	}
	if err := s.commit(ctx, repos); err != nil {
		return nil, result, err
	}

	s.logger.InfoContext(ctx, "institution updated", "institution_id", f.ID.String())
	return f, result, nil
}

// Delete removes an institution no credit card references.
func (s *Service) Delete(ctx context.Context, in DeleteInstitutionInput) (validation.Result[Code], error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	pipe := validation.NewPipeline("institution.delete",
		institutionExists[DeleteInstitutionInput](repos.Institutions),
		institutionUnused(repos.Cards),
	)
	result, err := pipe.Run(ctx, in, uuid.UUID(in.ID))
	if err != nil {
		return result, err
	}
	if !result.Valid() {
		s.metrics.ObserveValidationFailure("institution.delete", codeStrings(result.Codes()))
		return result, nil
	}

	f := result.Payload().(*models.FinancialInstitution)
	if err := repos.Institutions.Delete(ctx, f); err != nil {
		return result, err
	}
	if err := repos.UoW.SaveChanges(ctx); err != nil {
		return result, err
	}

	s.logger.InfoContext(ctx, "institution deleted", "institution_id", f.ID.String())
	return result, nil
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]*models.FinancialInstitution, error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	var opts []repository.QueryOption
	if includeInactive {
		opts = append(opts, repository.WithInactive())
	}
	return repos.Institutions.Query(ctx, opts...)
}

func (s *Service) commit(ctx context.Context, repos Repos) error {
	if err := repos.UoW.SaveChanges(ctx); err != nil {
		if repository.IsConflict(err) {
			s.metrics.IncrementCommitConflict()
			return dErrors.Wrap(err, dErrors.CodeConflict, "institution name must be unique")
		}
		return err
	}
	return nil
}
