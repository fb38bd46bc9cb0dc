// Package service orchestrates wallet operations: build input → run the
// validation pipeline → if valid, mutate through the tenant-scoped
// repository → commit. Validation failures come back as data; faults and
// authorization failures come back as errors.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finbook/internal/platform/metrics"
	"finbook/internal/repository"
	titlemodels "finbook/internal/title/models"
	"finbook/internal/validation"
	"finbook/internal/wallet/models"
	"finbook/pkg/domain"
	dErrors "finbook/pkg/domain-errors"
)

// CreateWalletInput carries the caller-controlled fields of a creation.
// Tenant and audit attribution are never part of the input.
type CreateWalletInput struct {
	Name    string
	Balance decimal.Decimal
}

func (i CreateWalletInput) WalletName() string { return i.Name }

type UpdateWalletInput struct {
	ID   domain.WalletID
	Name string
}

func (i UpdateWalletInput) WalletName() string { return i.Name }

type DeleteWalletInput struct {
	ID domain.WalletID
}

// Repos is the unit of work a wallet operation runs against. A fresh
// one is begun per operation and discarded with it.
type Repos struct {
	UoW     repository.UnitOfWork
	Wallets repository.Repository[*models.Wallet]
	Titles  repository.Repository[*titlemodels.Title]
}

// Service exposes wallet orchestration to transport layers.
type Service struct {
	begin   func() Repos
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs the wallet service. begin must return a fresh unit of
// work with repositories bound to it; metrics may be nil.
func New(begin func() Repos, logger *slog.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{begin: begin, logger: logger, metrics: m}
}

// Create validates and persists a new wallet for the scope's tenant.
// An invalid result carries every violated code at once.
func (s *Service) Create(ctx context.Context, in CreateWalletInput) (*models.Wallet, validation.Result[Code], error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	pipe := validation.NewPipeline("wallet.create",
		nameValid[CreateWalletInput](),
		nameAvailable[CreateWalletInput](repos.Wallets),
	)
	result, err := pipe.Run(ctx, in, uuid.Nil)
	if err != nil {
		return nil, result, err
	}
	if !result.Valid() {
		s.metrics.ObserveValidationFailure("wallet.create", codeStrings(result.Codes()))
		return nil, result, nil
	}

	w, err := models.NewWallet(in.Name, in.Balance)
	if err != nil {
		return nil, result, err
	}
	if err := repos.Wallets.Add(ctx, w); err != nil {
		return nil, result, err
	}
	if err := s.commit(ctx, repos, "wallet name must be unique"); err != nil {
		return nil, result, err
	}

	s.metrics.IncrementCreated("wallet")
	s.logger.InfoContext(ctx, "wallet created", "wallet_id", w.ID.String())
	return w, result, nil
}

// Update renames a wallet after re-checking existence and uniqueness.
func (s *Service) Update(ctx context.Context, in UpdateWalletInput) (*models.Wallet, validation.Result[Code], error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	pipe := validation.NewPipeline("wallet.update",
		walletExists[UpdateWalletInput](repos.Wallets),
		nameValid[UpdateWalletInput](),
		nameAvailable[UpdateWalletInput](repos.Wallets),
	)
	result, err := pipe.Run(ctx, in, uuid.UUID(in.ID))
	if err != nil {
		return nil, result, err
	}
	if !result.Valid() {
		s.metrics.ObserveValidationFailure("wallet.update", codeStrings(result.Codes()))
		return nil, result, nil
	}

	w := result.Payload().(*models.Wallet)
	w.Name = in.Name
	if err := repos.Wallets.Update(ctx, w); err != nil {
		return nil, result, err
	}
	if err := s.commit(ctx, repos, "wallet name must be unique"); err != nil {
		return nil, result, err
	}

	s.logger.InfoContext(ctx, "wallet updated", "wallet_id", w.ID.String())
	return w, result, nil
}

// Delete removes a wallet that exists and is not referenced by titles.
// On a failed pipeline nothing is committed and the wallet stays
// queryable.
func (s *Service) Delete(ctx context.Context, in DeleteWalletInput) (validation.Result[Code], error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	pipe := validation.NewPipeline("wallet.delete",
		walletExists[DeleteWalletInput](repos.Wallets),
		walletUnused(repos.Titles),
	)
	result, err := pipe.Run(ctx, in, uuid.UUID(in.ID))
	if err != nil {
		return result, err
	}
	if !result.Valid() {
		s.metrics.ObserveValidationFailure("wallet.delete", codeStrings(result.Codes()))
		return result, nil
	}

	w := result.Payload().(*models.Wallet)
	if err := repos.Wallets.Delete(ctx, w); err != nil {
		return result, err
	}
	if err := repos.UoW.SaveChanges(ctx); err != nil {
		return result, err
	}

	s.logger.InfoContext(ctx, "wallet deleted", "wallet_id", w.ID.String())
	return result, nil
}

// Get returns one visible wallet.
func (s *Service) Get(ctx context.Context, id domain.WalletID) (*models.Wallet, error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	w, err := repos.Wallets.FindByID(ctx, uuid.UUID(id))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, dErrors.New(dErrors.CodeNotFound, "wallet not found")
		}
		return nil, err
	}
	return w, nil
}

// List returns the scope's wallets, optionally including inactive ones.
func (s *Service) List(ctx context.Context, includeInactive bool) ([]*models.Wallet, error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	var opts []repository.QueryOption
	if includeInactive {
		opts = append(opts, repository.WithInactive())
	}
	return repos.Wallets.Query(ctx, opts...)
}

// commit saves the unit of work, translating a store conflict into the
// typed domain error callers can distinguish from storage faults.
func (s *Service) commit(ctx context.Context, repos Repos, conflictMsg string) error {
	if err := repos.UoW.SaveChanges(ctx); err != nil {
		if repository.IsConflict(err) {
			s.metrics.IncrementCommitConflict()
			return dErrors.Wrap(err, dErrors.CodeConflict, conflictMsg)
		}
		return err
	}
	return nil
}
