// Package account coordinates account creation, lookup and transfers on top
// of the account repository. Transfers are committed by the repository and
// announced on the event bus afterwards, so subscribers such as the
// notification handler never run inside the critical section.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/dto"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/metrics"
	repoaccount "github.com/amirasaad/ledger/pkg/repository/account"
)

// Metrics is the subset of the metrics recorder used by the service.
type Metrics interface {
	TransferAttempt(result string)
	AccountCreated()
}

type noopMetrics struct{}

func (noopMetrics) TransferAttempt(string) {}

func (noopMetrics) AccountCreated() {}

// Deps groups the collaborators of Service.
type Deps struct {
	Accounts repoaccount.Repository
	EventBus eventbus.Bus
	Metrics  Metrics
	Logger   *slog.Logger
}

// Service provides the ledger operations exposed by the API.
type Service struct {
	accounts repoaccount.Repository
	bus      eventbus.Bus
	metrics  Metrics
	logger   *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := deps.Metrics
	if m == nil {
		m = noopMetrics{}
	}
	return &Service{
		accounts: deps.Accounts,
		bus:      deps.EventBus,
		metrics:  m,
		logger:   logger.With("service", "account"),
	}
}

// CreateAccount opens an account with the requested opening balance.
func (s *Service) CreateAccount(ctx context.Context, in dto.AccountCreate) (*account.Account, error) {
	logger := s.logger.With("account_id", in.AccountID)

	acc, err := account.New(in.AccountID, in.Balance)
	if err != nil {
		logger.Warn("invalid account", "error", err)
		return nil, err
	}
	if err := s.accounts.Create(ctx, acc); err != nil {
		logger.Warn("account not created", "error", err)
		return nil, err
	}
	s.metrics.AccountCreated()
	logger.Info("Creating account", "balance", acc.Balance().String())

	s.emit(ctx, events.NewAccountCreated(acc.ID(), acc.Balance()))
	return acc, nil
}

// GetAccount returns the account registered under id.
func (s *Service) GetAccount(ctx context.Context, id string) (*account.Account, error) {
	return s.accounts.Get(ctx, id)
}

// ClearAccounts removes every account.
func (s *Service) ClearAccounts(ctx context.Context) error {
	if err := s.accounts.Clear(ctx); err != nil {
		return err
	}
	s.logger.Warn("all accounts cleared")
	return nil
}

// Transfer moves req.Amount from req.FromID to req.ToID. Either both legs
// are applied or neither is. The returned outcome always carries a message;
// err is non-nil exactly when the outcome failed.
func (s *Service) Transfer(ctx context.Context, req dto.TransferRequest) (dto.TransferOutcome, error) {
	logger := s.logger.With("from", req.FromID, "to", req.ToID, "amount", req.Amount.String())

	if err := req.Validate(); err != nil {
		return s.fail(logger, err)
	}
	from, err := s.accounts.Get(ctx, req.FromID)
	if err != nil {
		return s.fail(logger, err)
	}
	to, err := s.accounts.Get(ctx, req.ToID)
	if err != nil {
		return s.fail(logger, err)
	}
	if err := s.accounts.Transfer(ctx, from, to, req.Amount); err != nil {
		return s.fail(logger, err)
	}
	s.metrics.TransferAttempt(metrics.ResultSuccess)

	s.emit(ctx, events.NewTransferCompleted(from.ID(), to.ID(), req.Amount))

	msg := fmt.Sprintf("%s amount has been transferred from account %s to %s",
		req.Amount.String(), from.ID(), to.ID())
	logger.Info(msg)
	return dto.Succeeded(msg), nil
}

func (s *Service) fail(logger *slog.Logger, err error) (dto.TransferOutcome, error) {
	s.metrics.TransferAttempt(resultOf(err))
	logger.Warn("transfer rejected", "error", err)
	return dto.Failed(err), err
}

// emit publishes evt. The operation it describes has already committed, so a
// bus failure is only logged.
func (s *Service) emit(ctx context.Context, evt events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, evt); err != nil {
		s.logger.Error("failed to emit event", "type", evt.Type(), "error", err)
	}
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, domain.ErrInsufficientBalance):
		return metrics.ResultInsufficient
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidAccountID),
		errors.Is(err, domain.ErrSameAccount):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}
