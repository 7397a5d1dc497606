package account

import (
	"github.com/amirasaad/ledger/pkg/dto"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest represents the request body for opening an account.
type CreateAccountRequest struct {
	AccountID string           `json:"accountId" validate:"required"`
	Balance   *decimal.Decimal `json:"balance" validate:"required,decimal_gte0"`
}

func (r CreateAccountRequest) toDTO() dto.AccountCreate {
	return dto.AccountCreate{AccountID: r.AccountID, Balance: *r.Balance}
}

// TransferRequest represents the request body for moving money between two accounts.
type TransferRequest struct {
	AccountFromID string           `json:"accountFromId" validate:"required"`
	AccountToID   string           `json:"accountToId" validate:"required"`
	Amount        *decimal.Decimal `json:"amount" validate:"required,decimal_gt0"`
}

func (r TransferRequest) toDTO() dto.TransferRequest {
	return dto.TransferRequest{FromID: r.AccountFromID, ToID: r.AccountToID, Amount: *r.Amount}
}
