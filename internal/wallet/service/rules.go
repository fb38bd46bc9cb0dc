package service

import (
	"context"

	"github.com/google/uuid"

	"finbook/internal/repository"
	titlemodels "finbook/internal/title/models"
	titlestore "finbook/internal/title/store"
	"finbook/internal/validation"
	"finbook/internal/wallet/models"
	walletstore "finbook/internal/wallet/store"
	platformstrings "finbook/pkg/platform/strings"
)

// nameValid checks the local name invariants so a bad name accumulates
// alongside other violations instead of aborting the pipeline.
func nameValid[I interface{ WalletName() string }]() validation.Rule[I, Code] {
	return validation.RuleFunc[I, Code](func(_ context.Context, input I, _ uuid.UUID) (validation.Outcome[Code], error) {
		if err := models.ValidateName(input.WalletName()); err != nil {
			return validation.Fail(CodeInvalidName, CodeInvalidName.Message()), nil
		}
		return validation.Pass[Code](), nil
	})
}

// nameAvailable queries existing wallets for a normalized-name match.
// The read goes through the tenant-scoped repository, so uniqueness is
// per tenant by construction.
func nameAvailable[I interface{ WalletName() string }](wallets repository.Repository[*models.Wallet]) validation.Rule[I, Code] {
	return validation.RuleFunc[I, Code](func(ctx context.Context, input I, existing uuid.UUID) (validation.Outcome[Code], error) {
		matches, err := wallets.Query(ctx,
			repository.WithField(walletstore.FieldName, platformstrings.NormalizeName(input.WalletName())),
			repository.WithInactive(),
		)
		if err != nil {
			return validation.Outcome[Code]{}, err
		}
		for _, w := range matches {
			if w.Key() != existing {
				return validation.Fail(CodeNameAlreadyInUse, CodeNameAlreadyInUse.Message()), nil
			}
		}
		return validation.Pass[Code](), nil
	})
}

// walletExists resolves the target wallet and carries it as the
// pipeline payload for the mutation step.
func walletExists[I any](wallets repository.Repository[*models.Wallet]) validation.Rule[I, Code] {
	return validation.RuleFunc[I, Code](func(ctx context.Context, _ I, existing uuid.UUID) (validation.Outcome[Code], error) {
		w, err := wallets.FindByID(ctx, existing)
		if err != nil {
			if repository.IsNotFound(err) {
				return validation.Fail(CodeWalletNotFound, CodeWalletNotFound.Message()), nil
			}
			return validation.Outcome[Code]{}, err
		}
		return validation.PassWith[Code](w), nil
	})
}

// walletUnused rejects deletion while any title still references the
// wallet; the wallet must stay queryable for those titles.
func walletUnused(titles repository.Repository[*titlemodels.Title]) validation.Rule[DeleteWalletInput, Code] {
	return validation.RuleFunc[DeleteWalletInput, Code](func(ctx context.Context, _ DeleteWalletInput, existing uuid.UUID) (validation.Outcome[Code], error) {
		refs, err := titles.Query(ctx, repository.WithField(titlestore.FieldWalletID, existing))
		if err != nil {
			return validation.Outcome[Code]{}, err
		}
		if len(refs) > 0 {
			return validation.Fail(CodeWalletInUse, CodeWalletInUse.Message()), nil
		}
		return validation.Pass[Code](), nil
	})
}
