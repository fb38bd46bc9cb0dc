// Package service orchestrates credit-card operations.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finbook/internal/creditcard/models"
	institutionmodels "finbook/internal/institution/models"
	"finbook/internal/platform/metrics"
	"finbook/internal/repository"
	"finbook/internal/validation"
	"finbook/pkg/domain"
	dErrors "finbook/pkg/domain-errors"
)

type CreateCardInput struct {
	Name          string
	Limit         decimal.Decimal
	ClosingDay    int
	DueDay        int
	BrandID       domain.BrandID
	InstitutionID domain.InstitutionID
}

func (i CreateCardInput) CardName() string      { return i.Name }
func (i CreateCardInput) CycleDays() (int, int) { return i.ClosingDay, i.DueDay }

type UpdateCardInput struct {
	ID         domain.CardID
	Name       string
	Limit      decimal.Decimal
	ClosingDay int
	DueDay     int
}

func (i UpdateCardInput) CardName() string      { return i.Name }
func (i UpdateCardInput) CycleDays() (int, int) { return i.ClosingDay, i.DueDay }

type DeleteCardInput struct {
	ID domain.CardID
}

// Repos is the unit of work a card operation runs against.
type Repos struct {
	UoW          repository.UnitOfWork
	Cards        repository.Repository[*models.CreditCard]
	Brands       repository.Repository[*models.CardBrand]
	Institutions repository.Repository[*institutionmodels.FinancialInstitution]
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

// Create validates name, cycle days and both references in one pass.
func (s *Service) Create(ctx context.Context, in CreateCardInput) (*models.CreditCard, validation.Result[Code], error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	pipe := validation.NewPipeline("card.create",
		cycleDaysValid[CreateCardInput](),
		nameAvailable[CreateCardInput](repos.Cards),
		brandRefExists(repos.Brands),
		institutionRefExists(repos.Institutions),
	)
	result, err := pipe.Run(ctx, in, uuid.Nil)
	if err != nil {
		return nil, result, err
	}
	if !result.Valid() {
		s.metrics.ObserveValidationFailure("card.create", codeStrings(result.Codes()))
		return nil, result, nil
	}

	c, err := models.NewCreditCard(in.Name, in.Limit, in.ClosingDay, in.DueDay, in.BrandID, in.InstitutionID)
	if err != nil {
		return nil, result, err
	}
	if err := repos.Cards.Add(ctx, c); err != nil {
		return nil, result, err
	}
	if err := repos.UoW.SaveChanges(ctx); err != nil {
		if repository.IsConflict(err) {
			s.metrics.IncrementCommitConflict()
			return nil, result, dErrors.Wrap(err, dErrors.CodeConflict, "credit card name must be unique")
		}
		return nil, result, err
	}

	s.metrics.IncrementCreated("credit_card")
	s.logger.InfoContext(ctx, "credit card created", "card_id", c.ID.String())
	return c, result, nil
}

// Update changes the card's name, limit and cycle days.
func (s *Service) Update(ctx context.Context, in UpdateCardInput) (*models.CreditCard, validation.Result[Code], error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	pipe := validation.NewPipeline("card.update",
		cardExists[UpdateCardInput](repos.Cards),
		cycleDaysValid[UpdateCardInput](),
		nameAvailable[UpdateCardInput](repos.Cards),
	)
	result, err := pipe.Run(ctx, in, uuid.UUID(in.ID))
	if err != nil {
		return nil, result, err
	}
	if !result.Valid() {
		s.metrics.ObserveValidationFailure("card.update", codeStrings(result.Codes()))
		return nil, result, nil
	}

	c := result.Payload().(*models.CreditCard)
	c.Name = in.Name
	c.Limit = in.Limit
	c.ClosingDay = in.ClosingDay
	c.DueDay = in.DueDay
	if err := repos.Cards.Update(ctx, c); err != nil {
		return nil, result, err
	}
	if err := repos.UoW.SaveChanges(ctx); err != nil {
		if repository.IsConflict(err) {
			s.metrics.IncrementCommitConflict()
			return nil, result, dErrors.Wrap(err, dErrors.CodeConflict, "credit card name must be unique")
		}
		return nil, result, err
	}

	s.logger.InfoContext(ctx, "credit card updated", "card_id", c.ID.String())
	return c, result, nil
}

// Delete removes a card.
func (s *Service) Delete(ctx context.Context, in DeleteCardInput) (validation.Result[Code], error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	pipe := validation.NewPipeline("card.delete",
		cardExists[DeleteCardInput](repos.Cards),
	)
	result, err := pipe.Run(ctx, in, uuid.UUID(in.ID))
	if err != nil {
		return result, err
	}
	if !result.Valid() {
		s.metrics.ObserveValidationFailure("card.delete", codeStrings(result.Codes()))
		return result, nil
	}

	c := result.Payload().(*models.CreditCard)
	if err := repos.Cards.Delete(ctx, c); err != nil {
		return result, err
	}
	if err := repos.UoW.SaveChanges(ctx); err != nil {
		return result, err
	}

	s.logger.InfoContext(ctx, "credit card deleted", "card_id", c.ID.String())
	return result, nil
}

// List returns visible cards.
func (s *Service) List(ctx context.Context, includeInactive bool) ([]*models.CreditCard, error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	var opts []repository.QueryOption
	if includeInactive {
		opts = append(opts, repository.WithInactive())
	}
	return repos.Cards.Query(ctx, opts...)
}

// ListBrands returns the brand catalog for the scope's tenant.
func (s *Service) ListBrands(ctx context.Context) ([]*models.CardBrand, error) {
	repos := s.begin()
	defer repos.UoW.Discard()
	return repos.Brands.Query(ctx)
}

// SeedBrands inserts the default card brands for the scope's tenant,
// skipping names that already exist.
func (s *Service) SeedBrands(ctx context.Context, names []string) error {
	repos := s.begin()
	defer repos.UoW.Discard()

	for _, name := range names {
		b, err := models.NewCardBrand(name)
		if err != nil {
			return err
		}
		if err := repos.Brands.Add(ctx, b); err != nil {
			return err
		}
	}
	if err := repos.UoW.SaveChanges(ctx); err != nil {
		if repository.IsConflict(err) {
			return dErrors.Wrap(err, dErrors.CodeConflict, "card brand already seeded")
		}
		return err
	}
	return nil
}
