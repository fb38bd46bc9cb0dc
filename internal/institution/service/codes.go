package service

// Code enumerates the validation error codes institution operations can
// produce.
type Code string

const (
	CodeInstitutionNotFound Code = "institution_not_found"
	CodeInvalidName         Code = "invalid_name"
	CodeNameAlreadyInUse    Code = "name_already_in_use"
	CodeInstitutionInUse    Code = "institution_in_use"
)

// messages is the static code→metadata table, built once at process
// start.
var messages = map[Code]string{
	CodeInstitutionNotFound: "financial institution not found",
	CodeInvalidName:         "institution name is empty",
	CodeNameAlreadyInUse:    "an institution with this name already exists",
	CodeInstitutionInUse:    "institution is referenced by existing credit cards",
}

func (c Code) Message() string { return messages[c] }

func codeStrings(codes []Code) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}
