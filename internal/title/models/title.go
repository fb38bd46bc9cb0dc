// Package models defines titles (receivables/payables) and their
// categories. Relationships are identifier-based: a title references its
// wallet, category and optional counterparty by id only, and traversal
// happens through explicit queries, never live object graphs.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finbook/pkg/domain"
	dErrors "finbook/pkg/domain-errors"
	platformstrings "finbook/pkg/platform/strings"
)

// Title is a single receivable or payable entry.
//
// Invariants:
//   - Description is non-empty
//   - Amount is strictly positive
//   - DueDate is set
//   - Paid implies PaidAt is set
type Title struct {
	ID domain.TitleID `json:"id"`
	domain.Audit
	domain.Owned
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	WalletID    domain.WalletID `json:"wallet_id"`
	CategoryID  domain.CategoryID `json:"category_id"`
	// PersonID is the optional counterparty; nil uuid means none.
	PersonID domain.PersonID `json:"person_id"`
	Paid     bool            `json:"paid"`
	PaidAt   *time.Time      `json:"paid_at,omitempty"`
}

func (t *Title) Key() uuid.UUID { return uuid.UUID(t.ID) }

// MarkPaid transitions the title to paid at the given time.
func (t *Title) MarkPaid(at time.Time) error {
	if t.Paid {
		return dErrors.New(dErrors.CodeInvariantViolation, "title is already paid")
	}
	t.Paid = true
	t.PaidAt = &at
	return nil
}

// NewTitle constructs an unpaid title, enforcing local invariants.
func NewTitle(description string, amount decimal.Decimal, dueDate time.Time, walletID domain.WalletID, categoryID domain.CategoryID) (*Title, error) {
	if platformstrings.NormalizeName(description) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "title description cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "title amount must be positive")
	}
	if dueDate.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "title due date is required")
	}
	return &Title{
		ID:          domain.TitleID(uuid.New()),
		Description: description,
		Amount:      amount,
		DueDate:     dueDate,
		WalletID:    walletID,
		CategoryID:  categoryID,
	}, nil
}
