package account

import (
	"context"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/shopspring/decimal"
)

// Repository is the exclusive owner of all accounts. It mediates creation,
// lookup and the two-legged transfer mutation.
type Repository interface {
	// Create registers a new account. It fails with domain.ErrDuplicateAccountID
	// when the id is taken, leaving the existing account untouched.
	Create(ctx context.Context, acc *account.Account) error

	// Get returns the live account for id, or domain.ErrAccountNotFound.
	Get(ctx context.Context, id string) (*account.Account, error)

	// Clear removes every account. Meant for test isolation and resets.
	Clear(ctx context.Context) error

	// Transfer debits from and credits to by amount. The debit is checked
	// before any credit is applied.
	Transfer(ctx context.Context, from, to *account.Account, amount decimal.Decimal) error

	// Count returns the number of registered accounts.
	Count(ctx context.Context) int
}
