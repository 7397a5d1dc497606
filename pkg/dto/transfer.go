package dto

import (
	"fmt"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest asks the ledger to move Amount from FromID to ToID.
type TransferRequest struct {
	FromID string
	ToID   string
	Amount decimal.Decimal
}

// Validate checks the request before any account is touched.
func (r TransferRequest) Validate() error {
	if r.FromID == "" || r.ToID == "" {
		return fmt.Errorf("%w: source and destination accounts are required", domain.ErrInvalidAccountID)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("%w: transfer amount must be greater than zero", domain.ErrInvalidAmount)
	}
	if r.FromID == r.ToID {
		return domain.NewAccountError(domain.ErrSameAccount, r.FromID)
	}
	return nil
}

// TransferOutcome is the result of a transfer attempt.
type TransferOutcome struct {
	Success bool   `json:"status"`
	Message string `json:"message"`
}

// Succeeded builds a successful outcome.
func Succeeded(message string) TransferOutcome {
	return TransferOutcome{Success: true, Message: message}
}

// Failed builds a failed outcome from err.
func Failed(err error) TransferOutcome {
	return TransferOutcome{Success: false, Message: err.Error()}
}
