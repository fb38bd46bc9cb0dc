package service

import (
	"context"

	"github.com/google/uuid"

	"finbook/internal/creditcard/models"
	cardstore "finbook/internal/creditcard/store"
	institutionmodels "finbook/internal/institution/models"
	"finbook/internal/repository"
	"finbook/internal/validation"
	platformstrings "finbook/pkg/platform/strings"
)

func cycleDaysValid[I interface{ CycleDays() (int, int) }]() validation.Rule[I, Code] {
	return validation.RuleFunc[I, Code](func(_ context.Context, input I, _ uuid.UUID) (validation.Outcome[Code], error) {
		closing, due := input.CycleDays()
		if !models.ValidCycleDay(closing) || !models.ValidCycleDay(due) {
			return validation.Fail(CodeInvalidCycleDays, CodeInvalidCycleDays.Message()), nil
		}
		return validation.Pass[Code](), nil
	})
}

func nameAvailable[I interface{ CardName() string }](cards repository.Repository[*models.CreditCard]) validation.Rule[I, Code] {
	return validation.RuleFunc[I, Code](func(ctx context.Context, input I, existing uuid.UUID) (validation.Outcome[Code], error) {
		matches, err := cards.Query(ctx,
			repository.WithField(cardstore.FieldName, platformstrings.NormalizeName(input.CardName())),
			repository.WithInactive(),
		)
		if err != nil {
			return validation.Outcome[Code]{}, err
		}
		for _, c := range matches {
			if c.Key() != existing {
				return validation.Fail(CodeNameAlreadyInUse, CodeNameAlreadyInUse.Message()), nil
			}
		}
		return validation.Pass[Code](), nil
	})
}

func brandRefExists(brands repository.Repository[*models.CardBrand]) validation.Rule[CreateCardInput, Code] {
	return validation.RuleFunc[CreateCardInput, Code](func(ctx context.Context, input CreateCardInput, _ uuid.UUID) (validation.Outcome[Code], error) {
		if _, err := brands.FindByID(ctx, uuid.UUID(input.BrandID)); err != nil {
			if repository.IsNotFound(err) {
				return validation.Fail(CodeBrandNotFound, CodeBrandNotFound.Message()), nil
			}
			return validation.Outcome[Code]{}, err
		}
		return validation.Pass[Code](), nil
	})
}

func institutionRefExists(institutions repository.Repository[*institutionmodels.FinancialInstitution]) validation.Rule[CreateCardInput, Code] {
	return validation.RuleFunc[CreateCardInput, Code](func(ctx context.Context, input CreateCardInput, _ uuid.UUID) (validation.Outcome[Code], error) {
		if _, err := institutions.FindByID(ctx, uuid.UUID(input.InstitutionID)); err != nil {
			if repository.IsNotFound(err) {
				return validation.Fail(CodeInstitutionNotFound, CodeInstitutionNotFound.Message()), nil
			}
			return validation.Outcome[Code]{}, err
		}
		return validation.Pass[Code](), nil
	})
}

func cardExists[I any](cards repository.Repository[*models.CreditCard]) validation.Rule[I, Code] {
	return validation.RuleFunc[I, Code](func(ctx context.Context, _ I, existing uuid.UUID) (validation.Outcome[Code], error) {
		c, err := cards.FindByID(ctx, existing)
		if err != nil {
			if repository.IsNotFound(err) {
				return validation.Fail(CodeCardNotFound, CodeCardNotFound.Message()), nil
			}
			return validation.Outcome[Code]{}, err
		}
		return validation.PassWith[Code](c), nil
	})
}
