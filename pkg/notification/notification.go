// Package notification informs account holders about completed transfers.
// Notices are sent after the transfer has committed, from an event bus
// handler, so a slow or failing notifier never affects the transfer result.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
)

// Notifier delivers a notice to the holder of an account.
type Notifier interface {
	NotifyAboutTransfer(ctx context.Context, accountID, message string) error
}

// LogNotifier writes notices to the log. It is the default Notifier.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

func (n *LogNotifier) NotifyAboutTransfer(_ context.Context, accountID, message string) error {
	n.logger.Info("Sending notification to owner of account", "account_id", accountID, "message", message)
	return nil
}

// Observer is told about every notification attempt. It is satisfied by the
// metrics recorder.
type Observer interface {
	NotificationSent(ok bool)
}

// Handler turns TransferCompleted events into one debit notice for the
// source account and one credit notice for the destination.
type Handler struct {
	notifier Notifier
	timeout  time.Duration
	observer Observer
	logger   *slog.Logger
}

// NewHandler builds a Handler. Each notifier call is bounded by timeout.
func NewHandler(notifier Notifier, timeout time.Duration, observer Observer, logger *slog.Logger) *Handler {
	return &Handler{
		notifier: notifier,
		timeout:  timeout,
		observer: observer,
		logger:   logger.With("component", "notification-handler"),
	}
}

// Subscribe registers the handler on bus.
func (h *Handler) Subscribe(bus eventbus.Bus) {
	bus.Register(events.EventTypeTransferCompleted.String(), h.Handle)
}

// Handle sends both notices. Failures are logged and swallowed.
func (h *Handler) Handle(ctx context.Context, e events.Event) error {
	evt, ok := e.(*events.TransferCompleted)
	if !ok {
		return fmt.Errorf("notification: unexpected event %T", e)
	}
	amount := evt.Amount.String()
	h.send(ctx, evt.FromAccountID, "Your account has been debited with "+amount)
	h.send(ctx, evt.ToAccountID, "Your account has been credited with "+amount)
	return nil
}

func (h *Handler) send(ctx context.Context, accountID, message string) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	err := h.notifier.NotifyAboutTransfer(ctx, accountID, message)
	if h.observer != nil {
		h.observer.NotificationSent(err == nil)
	}
	if err != nil {
		h.logger.Warn("notification failed", "account_id", accountID, "error", err)
	}
}
