package account

import (
	"encoding/json"
	"sync"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/shopspring/decimal"
)

// Account is a ledger entry identified by a unique id with a non-negative balance.
//
// Invariants:
//   - The id is non-empty and never changes.
//   - The balance never drops below zero once an operation completes.
//
// The mutex only keeps balance reads and writes memory-safe. Keeping a debit and
// a credit on two accounts together is the owning store's job.
type Account struct {
	id      string
	mu      sync.RWMutex
	balance decimal.Decimal
}

// New builds an account with an opening balance.
func New(id string, balance decimal.Decimal) (*Account, error) {
	if id == "" {
		return nil, domain.ErrInvalidAccountID
	}
	if balance.IsNegative() {
		return nil, domain.NewAccountError(domain.ErrInvalidAmount, id)
	}
	return &Account{id: id, balance: balance}, nil
}

// NewWithZeroBalance builds an empty account.
func NewWithZeroBalance(id string) (*Account, error) {
	return New(id, decimal.Zero)
}

func (a *Account) ID() string { return a.id }

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.balance
}

// Debit removes amount from the balance. The balance is left untouched and an
// ErrInsufficientBalance error naming the account is returned when amount
// exceeds it.
func (a *Account) Debit(amount decimal.Decimal) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.balance.LessThan(amount) {
		return domain.NewAccountError(domain.ErrInsufficientBalance, a.id)
	}
	a.balance = a.balance.Sub(amount)
	return nil
}

// Credit adds amount to the balance. Amounts are validated upstream.
func (a *Account) Credit(amount decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance = a.balance.Add(amount)
}

type accountJSON struct {
	AccountID string          `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
}

// MarshalJSON renders the account as {"accountId": ..., "balance": ...}.
func (a *Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(accountJSON{AccountID: a.id, Balance: a.Balance()})
}
