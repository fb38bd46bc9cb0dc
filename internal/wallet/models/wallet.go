package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finbook/pkg/domain"
	dErrors "finbook/pkg/domain-errors"
	platformstrings "finbook/pkg/platform/strings"
)

// MaxNameLength bounds wallet names; matches the column width.
const MaxNameLength = 60

// Wallet is a money container owned by one tenant.
//
// Invariants:
//   - Name is non-empty and at most MaxNameLength characters
//   - Name is unique per tenant (normalized, case-insensitive)
//   - Audit and tenant fields are stamped by the repository, never by
//     calling code
type Wallet struct {
	ID domain.WalletID `json:"id"`
	domain.Audit
	domain.Owned
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
	Active  bool            `json:"active"`
}

func (w *Wallet) Key() uuid.UUID { return uuid.UUID(w.ID) }

// NormalizedName is the uniqueness comparison form of the name.
func (w *Wallet) NormalizedName() string { return platformstrings.NormalizeName(w.Name) }

// NewWallet constructs an active wallet, enforcing name invariants.
// Audit and ownership stay zero until the repository stamps them.
func NewWallet(name string, balance decimal.Decimal) (*Wallet, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &Wallet{
		ID:      domain.WalletID(uuid.New()),
		Name:    name,
		Balance: balance,
		Active:  true,
	}, nil
}

// ValidateName checks the local name invariants (emptiness, length).
// Cross-row invariants (uniqueness) belong to the validation pipeline.
func ValidateName(name string) error {
	if platformstrings.NormalizeName(name) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "wallet name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return dErrors.New(dErrors.CodeInvalidInput, "wallet name must be 60 characters or less")
	}
	return nil
}
