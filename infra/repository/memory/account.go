// Package memory holds the in-process account store.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	repoaccount "github.com/amirasaad/ledger/pkg/repository/account"
	"github.com/shopspring/decimal"
)

type entry struct {
	// mu serializes transfers that touch this account.
	mu  sync.Mutex
	acc *account.Account
}

// AccountStore keeps accounts in a map guarded by an RWMutex. Transfers lock
// the two involved entries in ascending id order, so two transfers over an
// overlapping pair never interleave and never deadlock.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*entry
	logger   *slog.Logger
}

// NewAccountStore creates an empty store.
func NewAccountStore(logger *slog.Logger) *AccountStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountStore{
		accounts: make(map[string]*entry),
		logger:   logger.With("component", "account-store"),
	}
}

// Create inserts acc if its id is free. The first writer wins.
func (s *AccountStore) Create(_ context.Context, acc *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[acc.ID()]; exists {
		return domain.NewAccountError(domain.ErrDuplicateAccountID, acc.ID())
	}
	s.accounts[acc.ID()] = &entry{acc: acc}
	return nil
}

// Get returns the live account, not a copy.
func (s *AccountStore) Get(_ context.Context, id string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.accounts[id]
	if !ok {
		return nil, domain.NewAccountError(domain.ErrAccountNotFound, id)
	}
	return e.acc, nil
}

// Clear drops every account.
func (s *AccountStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = make(map[string]*entry)
	return nil
}

// Count returns the number of registered accounts.
func (s *AccountStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// Transfer applies from.Debit(amount) then to.Credit(amount) while holding
// both accounts' transfer locks. Both accounts must still be the ones
// registered under their ids; an account resolved before a Clear is reported
// as not found.
func (s *AccountStore) Transfer(_ context.Context, from, to *account.Account, amount decimal.Decimal) error {
	if from.ID() == to.ID() {
		return domain.NewAccountError(domain.ErrSameAccount, from.ID())
	}
	fromEntry, ok := s.lookup(from.ID())
	if !ok {
		return domain.NewAccountError(domain.ErrAccountNotFound, from.ID())
	}
	toEntry, ok := s.lookup(to.ID())
	if !ok {
		return domain.NewAccountError(domain.ErrAccountNotFound, to.ID())
	}

	first, second := fromEntry, toEntry
	if to.ID() < from.ID() {
		first, second = toEntry, fromEntry
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	// Clear and Create wait on s.mu, so the ownership check holds until the
	// balances are updated.
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.owns(fromEntry, from) {
		return domain.NewAccountError(domain.ErrAccountNotFound, from.ID())
	}
	if !s.owns(toEntry, to) {
		return domain.NewAccountError(domain.ErrAccountNotFound, to.ID())
	}

	if err := from.Debit(amount); err != nil {
		return err
	}
	to.Credit(amount)

	s.logger.Info("Money has been transferred between accounts.",
		"from", from.ID(), "to", to.ID(), "amount", amount.String())
	return nil
}

func (s *AccountStore) lookup(id string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.accounts[id]
	return e, ok
}

// owns reports whether acc is the live account held by e and e is still
// mapped under acc's id. It never swaps a different account into e. Caller
// holds s.mu.
func (s *AccountStore) owns(e *entry, acc *account.Account) bool {
	current, ok := s.accounts[acc.ID()]
	return ok && current == e && current.acc == acc
}

var _ repoaccount.Repository = (*AccountStore)(nil)
