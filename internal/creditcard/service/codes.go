package service

// Code enumerates the validation error codes credit-card operations can
// produce.
type Code string

const (
	CodeCardNotFound        Code = "card_not_found"
	CodeNameAlreadyInUse    Code = "name_already_in_use"
	CodeBrandNotFound       Code = "brand_not_found"
	CodeInstitutionNotFound Code = "institution_not_found"
	CodeInvalidCycleDays    Code = "invalid_cycle_days"
)

// messages is the static code→metadata table, built once at process
// start.
var messages = map[Code]string{
	CodeCardNotFound:        "credit card not found",
	CodeNameAlreadyInUse:    "a credit card with this name already exists",
	CodeBrandNotFound:       "card brand not found",
	CodeInstitutionNotFound: "financial institution not found",
	CodeInvalidCycleDays:    "billing cycle days must be between 1 and 28",
}

func (c Code) Message() string { return messages[c] }

func codeStrings(codes []Code) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}
