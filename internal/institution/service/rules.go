package service

import (
	"context"

	"github.com/google/uuid"

	cardmodels "finbook/internal/creditcard/models"
	cardstore "finbook/internal/creditcard/store"
	"finbook/internal/institution/models"
	institutionstore "finbook/internal/institution/store"
	"finbook/internal/repository"
	"finbook/internal/validation"
	platformstrings "finbook/pkg/platform/strings"
)

func nameValid[I interface{ InstitutionName() string }]() validation.Rule[I, Code] {
	return validation.RuleFunc[I, Code](func(_ context.Context, input I, _ uuid.UUID) (validation.Outcome[Code], error) {
		if platformstrings.NormalizeName(input.InstitutionName()) == "" {
			return validation.Fail(CodeInvalidName, CodeInvalidName.Message()), nil
		}
		return validation.Pass[Code](), nil
	})
}

func nameAvailable[I interface{ InstitutionName() string }](institutions repository.Repository[*models.FinancialInstitution]) validation.Rule[I, Code] {
	return validation.RuleFunc[I, Code](func(ctx context.Context, input I, existing uuid.UUID) (validation.Outcome[Code], error) {
		matches, err := institutions.Query(ctx,
			repository.WithField(institutionstore.FieldName, platformstrings.NormalizeName(input.InstitutionName())),
			repository.WithInactive(),
		)
		if err != nil {
			return validation.Outcome[Code]{}, err
		}
		for _, f := range matches {
			if f.Key() != existing {
				return validation.Fail(CodeNameAlreadyInUse, CodeNameAlreadyInUse.Message()), nil
			}
		}
		return validation.Pass[Code](), nil
	})
}

func institutionExists[I any](institutions repository.Repository[*models.FinancialInstitution]) validation.Rule[I, Code] {
	return validation.RuleFunc[I, Code](func(ctx context.Context, _ I, existing uuid.UUID) (validation.Outcome[Code], error) {
		f, err := institutions.FindByID(ctx, existing)
		if err != nil {
			if repository.IsNotFound(err) {
				return validation.Fail(CodeInstitutionNotFound, CodeInstitutionNotFound.Message()), nil
			}
			return validation.Outcome[Code]{}, err
		}
		return validation.PassWith[Code](f), nil
	})
}

// institutionUnused rejects deletion while any credit card still
// references the institution.
func institutionUnused(cards repository.Repository[*cardmodels.CreditCard]) validation.Rule[DeleteInstitutionInput, Code] {
	return validation.RuleFunc[DeleteInstitutionInput, Code](func(ctx context.Context, _ DeleteInstitutionInput, existing uuid.UUID) (validation.Outcome[Code], error) {
		refs, err := cards.Query(ctx,
			repository.WithField(cardstore.FieldInstitutionID, existing),
			repository.WithInactive(),
		)
		if err != nil {
			return validation.Outcome[Code]{}, err
		}
		if len(refs) > 0 {
			return validation.Fail(CodeInstitutionInUse, CodeInstitutionInUse.Message()), nil
		}
		return validation.Pass[Code](), nil
	})
}
