// Package webapi provides the HTTP API of the ledger.
// Account endpoints live in the account sub-package; shared response and
// validation helpers live in common.
package webapi

import (
	"errors"
	"strings"

	"github.com/amirasaad/ledger/pkg/app"
	accountweb "github.com/amirasaad/ledger/webapi/account"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
)

func init() {
	// Balances and amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName: "ledger",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	fiberApp.Use(recover.New())
	if a.Config != nil && a.Config.RateLimit != nil && a.Config.RateLimit.MaxRequests > 0 {
		fiberApp.Use(limiter.New(limiter.Config{
			Max:          a.Config.RateLimit.MaxRequests,
			Expiration:   a.Config.RateLimit.Window,
			KeyGenerator: clientKey,
			LimitReached: func(c *fiber.Ctx) error {
				return common.ProblemDetailsJSON(
					c,
					"Too Many Requests",
					errors.New("rate limit exceeded"),
					fiber.StatusTooManyRequests,
				)
			},
		}))
	}
	fiberApp.Use(logger.New())

	if m := a.Deps.Metrics; m != nil {
		fiberApp.Use(m.Middleware())
		fiberApp.Get("/metrics", m.Handler())
	}

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Ledger API is running!")
	})

	accountweb.Routes(fiberApp, a.AccountService, a.Config)
	return fiberApp
}

// clientKey identifies the caller for rate limiting. Behind a proxy the first
// X-Forwarded-For hop wins, then X-Real-IP, then the peer address.
func clientKey(c *fiber.Ctx) string {
	if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
		if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
			return strings.TrimSpace(forwardedFor[:commaIndex])
		}
		return strings.TrimSpace(forwardedFor)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}
