package service

// Code enumerates the validation error codes wallet operations can
// produce.
type Code string

const (
	CodeWalletNotFound   Code = "wallet_not_found"
	CodeInvalidName      Code = "invalid_name"
	CodeNameAlreadyInUse Code = "name_already_in_use"
	CodeWalletInUse      Code = "wallet_in_use"
)

// messages is the static code→metadata table, built once at process
// start; transport layers use it to render failures.
var messages = map[Code]string{
	CodeWalletNotFound:   "wallet not found",
	CodeInvalidName:      "wallet name is empty or too long",
	CodeNameAlreadyInUse: "a wallet with this name already exists",
	CodeWalletInUse:      "wallet is referenced by existing titles",
}

// Message returns the human-readable description of the code.
func (c Code) Message() string { return messages[c] }

func codeStrings(codes []Code) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}
