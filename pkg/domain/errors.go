package domain

import (
	"errors"
	"fmt"
)

// Ledger error kinds. Callers classify failures with errors.Is.
var (
	// ErrDuplicateAccountID is returned when an account with the same id already exists.
	ErrDuplicateAccountID = errors.New("duplicate account id")
	// ErrAccountNotFound is returned when a referenced account does not exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInsufficientBalance is returned when a debit would make a balance negative.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidAmount is returned for non-positive transfer amounts and negative opening balances.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidAccountID is returned when an account id is empty.
	ErrInvalidAccountID = errors.New("invalid account id")
	// ErrSameAccount is returned when a transfer names the same account on both sides.
	ErrSameAccount = errors.New("cannot transfer to same account")
)

// AccountError ties an error kind to the account it concerns.
type AccountError struct {
	Err       error
	AccountID string
}

// NewAccountError wraps kind for the given account id.
func NewAccountError(kind error, accountID string) *AccountError {
	return &AccountError{Err: kind, AccountID: accountID}
}

// Error returns the human-readable message surfaced to API callers.
func (e *AccountError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case errors.Is(e.Err, ErrDuplicateAccountID):
		return fmt.Sprintf("Account id %s already exists!", e.AccountID)
	case errors.Is(e.Err, ErrAccountNotFound):
		return fmt.Sprintf("Account with id %s not found.", e.AccountID)
	case errors.Is(e.Err, ErrInsufficientBalance):
		return fmt.Sprintf("Account %s does not have sufficient amount to debit from.", e.AccountID)
	default:
		return fmt.Sprintf("account %s: %v", e.AccountID, e.Err)
	}
}

func (e *AccountError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AccountIDOf returns the account id carried by err, if any.
func AccountIDOf(err error) (string, bool) {
	var ae *AccountError
	if errors.As(err, &ae) {
		return ae.AccountID, true
	}
	return "", false
}
