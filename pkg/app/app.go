package app

import (
	"errors"
	"io"
	"log/slog"

	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/metrics"
	"github.com/amirasaad/ledger/pkg/notification"
	repoaccount "github.com/amirasaad/ledger/pkg/repository/account"
	"github.com/amirasaad/ledger/pkg/service/account"
)

// Deps contains the infrastructure the services are built on.
type Deps struct {
	Accounts repoaccount.Repository
	EventBus eventbus.Bus
	Notifier notification.Notifier
	Metrics  *metrics.Recorder
	Logger   *slog.Logger
}

type App struct {
	Deps           *Deps
	Config         *config.App
	AccountService *account.Service
}

func New(deps *Deps, cfg *config.App) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.setupEventBus()

	var m account.Metrics
	if deps.Metrics != nil {
		m = deps.Metrics
	}
	app.AccountService = account.NewService(account.Deps{
		Accounts: deps.Accounts,
		EventBus: deps.EventBus,
		Metrics:  m,
		Logger:   deps.Logger,
	})
	return app
}

// Close releases the event bus, draining queued events where the bus
// supports it.
func (a *App) Close() error {
	var errs []error
	if c, ok := a.Deps.EventBus.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
