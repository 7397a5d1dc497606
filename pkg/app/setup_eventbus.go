// Package app wires the account service to the event bus and registers the
// handlers reacting to ledger events.
package app

import (
	"time"

	"github.com/amirasaad/ledger/pkg/notification"
)

const defaultNotificationTimeout = 2 * time.Second

// setupEventBus registers all event handlers with the event bus.
func (a *App) setupEventBus() {
	bus := a.Deps.EventBus
	if bus == nil {
		return
	}
	notifier := a.Deps.Notifier
	if notifier == nil {
		notifier = notification.NewLogNotifier(a.Deps.Logger)
	}
	timeout := defaultNotificationTimeout
	if a.Config != nil && a.Config.Notification != nil {
		timeout = a.Config.Notification.Timeout
	}

	var observer notification.Observer
	if a.Deps.Metrics != nil {
		observer = a.Deps.Metrics
	}
	notification.NewHandler(notifier, timeout, observer, a.Deps.Logger).Subscribe(bus)
}
