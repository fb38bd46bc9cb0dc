package service

import (
	"context"

	"github.com/google/uuid"

	personmodels "finbook/internal/person/models"
	"finbook/internal/repository"
	"finbook/internal/title/models"
	"finbook/internal/validation"
	walletmodels "finbook/internal/wallet/models"
)

// amountPositive and dueDateSet accumulate local input violations so
// the caller sees them together with reference failures.
func amountPositive() validation.Rule[CreateTitleInput, Code] {
	return validation.RuleFunc[CreateTitleInput, Code](func(_ context.Context, input CreateTitleInput, _ uuid.UUID) (validation.Outcome[Code], error) {
		if !input.Amount.IsPositive() {
			return validation.Fail(CodeInvalidAmount, CodeInvalidAmount.Message()), nil
		}
		return validation.Pass[Code](), nil
	})
}

func dueDateSet() validation.Rule[CreateTitleInput, Code] {
	return validation.RuleFunc[CreateTitleInput, Code](func(_ context.Context, input CreateTitleInput, _ uuid.UUID) (validation.Outcome[Code], error) {
		if input.DueDate.IsZero() {
			return validation.Fail(CodeInvalidDueDate, CodeInvalidDueDate.Message()), nil
		}
		return validation.Pass[Code](), nil
	})
}

// walletRefExists checks the referenced wallet through the tenant-scoped
// repository: another tenant's wallet is indistinguishable from a
// missing one.
func walletRefExists(wallets repository.Repository[*walletmodels.Wallet]) validation.Rule[CreateTitleInput, Code] {
	return validation.RuleFunc[CreateTitleInput, Code](func(ctx context.Context, input CreateTitleInput, _ uuid.UUID) (validation.Outcome[Code], error) {
		if _, err := wallets.FindByID(ctx, uuid.UUID(input.WalletID)); err != nil {
			if repository.IsNotFound(err) {
				return validation.Fail(CodeWalletNotFound, CodeWalletNotFound.Message()), nil
			}
			return validation.Outcome[Code]{}, err
		}
		return validation.Pass[Code](), nil
	})
}

func categoryRefExists(categories repository.Repository[*models.Category]) validation.Rule[CreateTitleInput, Code] {
	return validation.RuleFunc[CreateTitleInput, Code](func(ctx context.Context, input CreateTitleInput, _ uuid.UUID) (validation.Outcome[Code], error) {
		if _, err := categories.FindByID(ctx, uuid.UUID(input.CategoryID)); err != nil {
			if repository.IsNotFound(err) {
				return validation.Fail(CodeCategoryNotFound, CodeCategoryNotFound.Message()), nil
			}
			return validation.Outcome[Code]{}, err
		}
		return validation.Pass[Code](), nil
	})
}

// personRefExists only fires when a counterparty was given.
func personRefExists(persons repository.Repository[*personmodels.Person]) validation.Rule[CreateTitleInput, Code] {
	return validation.RuleFunc[CreateTitleInput, Code](func(ctx context.Context, input CreateTitleInput, _ uuid.UUID) (validation.Outcome[Code], error) {
		if input.PersonID.IsNil() {
			return validation.Pass[Code](), nil
		}
		if _, err := persons.FindByID(ctx, uuid.UUID(input.PersonID)); err != nil {
			if repository.IsNotFound(err) {
				return validation.Fail(CodePersonNotFound, CodePersonNotFound.Message()), nil
			}
			return validation.Outcome[Code]{}, err
		}
		return validation.Pass[Code](), nil
	})
}

// titleExists resolves the target title and carries it as the payload.
func titleExists[I any](titles repository.Repository[*models.Title]) validation.Rule[I, Code] {
	return validation.RuleFunc[I, Code](func(ctx context.Context, _ I, existing uuid.UUID) (validation.Outcome[Code], error) {
		t, err := titles.FindByID(ctx, existing)
		if err != nil {
			if repository.IsNotFound(err) {
				return validation.Fail(CodeTitleNotFound, CodeTitleNotFound.Message()), nil
			}
			return validation.Outcome[Code]{}, err
		}
		return validation.PassWith[Code](t), nil
	})
}

// notPaid rejects double payment. Runs after titleExists so a missing
// title reports only title_not_found.
func notPaid(titles repository.Repository[*models.Title]) validation.Rule[PayTitleInput, Code] {
	return validation.RuleFunc[PayTitleInput, Code](func(ctx context.Context, _ PayTitleInput, existing uuid.UUID) (validation.Outcome[Code], error) {
		t, err := titles.FindByID(ctx, existing)
		if err != nil {
			if repository.IsNotFound(err) {
				return validation.Pass[Code](), nil
			}
			return validation.Outcome[Code]{}, err
		}
		if t.Paid {
			return validation.Fail(CodeTitleAlreadyPaid, CodeTitleAlreadyPaid.Message()), nil
		}
		return validation.Pass[Code](), nil
	})
}
