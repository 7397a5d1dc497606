package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountCreated is emitted when a new account is registered.
type AccountCreated struct {
	ID             uuid.UUID       `json:"id"`
	AccountID      string          `json:"account_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

func NewAccountCreated(accountID string, balance decimal.Decimal) *AccountCreated {
	return &AccountCreated{
		ID:             uuid.New(),
		AccountID:      accountID,
		OpeningBalance: balance,
		OccurredAt:     time.Now().UTC(),
	}
}

func (e AccountCreated) Type() string { return EventTypeAccountCreated.String() }
