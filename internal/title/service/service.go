// Package service orchestrates title (receivable/payable) operations.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	personmodels "finbook/internal/person/models"
	"finbook/internal/platform/metrics"
	"finbook/internal/repository"
	"finbook/internal/title/models"
	titlestore "finbook/internal/title/store"
	"finbook/internal/validation"
	walletmodels "finbook/internal/wallet/models"
	"finbook/pkg/domain"
	dErrors "finbook/pkg/domain-errors"
	"finbook/pkg/requestcontext"
)

type CreateTitleInput struct {
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	WalletID    domain.WalletID
	CategoryID  domain.CategoryID
	PersonID    domain.PersonID
}

type PayTitleInput struct {
	ID domain.TitleID
}

type DeleteTitleInput struct {
	ID domain.TitleID
}

// ListFilter narrows List; zero value lists everything visible.
type ListFilter struct {
	WalletID domain.WalletID
	OnlyOpen bool
}

// Repos is the unit of work a title operation runs against.
type Repos struct {
	UoW        repository.UnitOfWork
	Titles     repository.Repository[*models.Title]
	Categories repository.Repository[*models.Category]
	Wallets    repository.Repository[*walletmodels.Wallet]
	Persons    repository.Repository[*personmodels.Person]
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

// Create validates references and input shape in one pass, then
// persists the title.
func (s *Service) Create(ctx context.Context, in CreateTitleInput) (*models.Title, validation.Result[Code], error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	pipe := validation.NewPipeline("title.create",
		amountPositive(),
		dueDateSet(),
		walletRefExists(repos.Wallets),
		categoryRefExists(repos.Categories),
		personRefExists(repos.Persons),
	)
	result, err := pipe.Run(ctx, in, uuid.Nil)
	if err != nil {
		return nil, result, err
	}
	if !result.Valid() {
		s.metrics.ObserveValidationFailure("title.create", codeStrings(result.Codes()))
		return nil, result, nil
	}

	t, err := models.NewTitle(in.Description, in.Amount, in.DueDate, in.WalletID, in.CategoryID)
	if err != nil {
		return nil, result, err
	}
	t.PersonID = in.PersonID
	if err := repos.Titles.Add(ctx, t); err != nil {
		return nil, result, err
	}
	if err := repos.UoW.SaveChanges(ctx); err != nil {
		return nil, result, err
	}

	s.metrics.IncrementCreated("title")
	s.logger.InfoContext(ctx, "title created", "title_id", t.ID.String())
	return t, result, nil
}

// Pay marks a title paid at the request time.
func (s *Service) Pay(ctx context.Context, in PayTitleInput) (*models.Title, validation.Result[Code], error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	pipe := validation.NewPipeline("title.pay",
		titleExists[PayTitleInput](repos.Titles),
		notPaid(repos.Titles),
	)
	result, err := pipe.Run(ctx, in, uuid.UUID(in.ID))
	if err != nil {
		return nil, result, err
	}
	if !result.Valid() {
		s.metrics.ObserveValidationFailure("title.pay", codeStrings(result.Codes()))
		return nil, result, nil
	}

	t := result.Payload().(*models.Title)
	if err := t.MarkPaid(requestcontext.Now(ctx)); err != nil {
		return nil, result, dErrors.Wrap(err, dErrors.CodeConflict, "title is already paid")
	}
	if err := repos.Titles.Update(ctx, t); err != nil {
		return nil, result, err
	}
	if err := repos.UoW.SaveChanges(ctx); err != nil {
		return nil, result, err
	}

	s.logger.InfoContext(ctx, "title paid", "title_id", t.ID.String())
	return t, result, nil
}

// Delete removes a title.
func (s *Service) Delete(ctx context.Context, in DeleteTitleInput) (validation.Result[Code], error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	pipe := validation.NewPipeline("title.delete",
		titleExists[DeleteTitleInput](repos.Titles),
	)
	result, err := pipe.Run(ctx, in, uuid.UUID(in.ID))
	if err != nil {
		return result, err
	}
	if !result.Valid() {
		s.metrics.ObserveValidationFailure("title.delete", codeStrings(result.Codes()))
		return result, nil
	}

	t := result.Payload().(*models.Title)
	if err := repos.Titles.Delete(ctx, t); err != nil {
		return result, err
	}
	if err := repos.UoW.SaveChanges(ctx); err != nil {
		return result, err
	}

	s.logger.InfoContext(ctx, "title deleted", "title_id", t.ID.String())
	return result, nil
}

// List returns visible titles, optionally restricted to one wallet or
// to open (unpaid) entries.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*models.Title, error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	var opts []repository.QueryOption
	if !filter.WalletID.IsNil() {
		opts = append(opts, repository.WithField(titlestore.FieldWalletID, uuid.UUID(filter.WalletID)))
	}
	if filter.OnlyOpen {
		opts = append(opts, repository.WithField(titlestore.FieldPaid, false))
	}
	return repos.Titles.Query(ctx, opts...)
}

// ListCategories returns the scope's reporting categories.
func (s *Service) ListCategories(ctx context.Context) ([]*models.Category, error) {
	repos := s.begin()
	defer repos.UoW.Discard()
	return repos.Categories.Query(ctx)
}

// CreateCategory persists a reporting category for the scope's tenant.
func (s *Service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	c, err := models.NewCategory(name)
	if err != nil {
		return nil, err
	}
	if err := repos.Categories.Add(ctx, c); err != nil {
		return nil, err
	}
	if err := repos.UoW.SaveChanges(ctx); err != nil {
		if repository.IsConflict(err) {
			s.metrics.IncrementCommitConflict()
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "category name must be unique")
		}
		return nil, err
	}
	s.metrics.IncrementCreated("category")
	return c, nil
}
