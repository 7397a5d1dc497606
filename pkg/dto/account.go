package dto

import (
	"github.com/shopspring/decimal"
)

// AccountRead is the read model of an account handed to API responses.
type AccountRead struct {
	AccountID string          `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
}

// AccountCreate carries the fields needed to open an account.
type AccountCreate struct {
	AccountID string
	Balance   decimal.Decimal // Opening balance, zero when omitted
}
