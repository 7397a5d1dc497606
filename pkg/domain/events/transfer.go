package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferCompleted is emitted after both legs of a transfer have been applied.
type TransferCompleted struct {
	ID            uuid.UUID       `json:"id"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewTransferCompleted stamps a new transfer event.
func NewTransferCompleted(from, to string, amount decimal.Decimal) *TransferCompleted {
	return &TransferCompleted{
		ID:            uuid.New(),
		FromAccountID: from,
		ToAccountID:   to,
		Amount:        amount,
		OccurredAt:    time.Now().UTC(),
	}
}

func (e TransferCompleted) Type() string { return EventTypeTransferCompleted.String() }
