// Package testutils builds a fully wired in-memory API for HTTP tests.
package testutils

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	infraeventbus "github.com/amirasaad/ledger/infra/eventbus"
	"github.com/amirasaad/ledger/infra/repository/memory"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/metrics"
	"github.com/amirasaad/ledger/webapi"
	"github.com/gofiber/fiber/v2"
)

// TestConfig returns the configuration used by API tests.
func TestConfig() *config.App {
	return &config.App{
		Env:          "test",
		RateLimit:    &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
		Notification: &config.Notification{Timeout: time.Second},
	}
}

// SetupTestApp wires a fresh store and a synchronous bus behind the API.
func SetupTestApp(t testing.TB, cfg *config.App) (*fiber.App, *app.App) {
	t.Helper()
	if cfg == nil {
		cfg = TestConfig()
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := app.New(&app.Deps{
		Accounts: memory.NewAccountStore(logger),
		EventBus: infraeventbus.NewWithMemory(logger),
		Metrics:  metrics.NewRecorder(),
		Logger:   logger,
	}, cfg)
	return webapi.SetupApp(a), a
}

// NewRequest builds a request carrying body as JSON when it is not empty.
func NewRequest(method, path, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return req
}

// MakeRequest sends a request with an optional JSON body through app.Test.
func MakeRequest(app *fiber.App, method, path, body string) *http.Response {
	resp, err := app.Test(NewRequest(method, path, body), -1)
	if err != nil {
		panic(err)
	}
	return resp
}
