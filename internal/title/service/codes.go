package service

// Code enumerates the validation error codes title operations can
// produce.
type Code string

const (
	CodeTitleNotFound    Code = "title_not_found"
	CodeWalletNotFound   Code = "wallet_not_found"
	CodeCategoryNotFound Code = "category_not_found"
	CodePersonNotFound   Code = "person_not_found"
	CodeInvalidAmount    Code = "invalid_amount"
	CodeInvalidDueDate   Code = "invalid_due_date"
	CodeTitleAlreadyPaid Code = "title_already_paid"
)

// messages is the static code→metadata table, built once at process
// start.
var messages = map[Code]string{
	CodeTitleNotFound:    "title not found",
	CodeWalletNotFound:   "wallet not found",
	CodeCategoryNotFound: "category not found",
	CodePersonNotFound:   "person not found",
	CodeInvalidAmount:    "title amount must be positive",
	CodeInvalidDueDate:   "title due date is required",
	CodeTitleAlreadyPaid: "title is already paid",
}

func (c Code) Message() string { return messages[c] }

func codeStrings(codes []Code) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}
