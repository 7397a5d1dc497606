package account

import (
	"github.com/amirasaad/ledger/pkg/config"
	accountsvc "github.com/amirasaad/ledger/pkg/service/account"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers the account endpoints.
//
// Routes:
//   - POST   /v1/accounts           : Open an account with an opening balance.
//   - GET    /v1/accounts/:id       : Fetch an account and its balance.
//   - POST   /v1/accounts/transfer  : Move money between two accounts.
//   - DELETE /v1/accounts           : Remove every account (not registered in production).
func Routes(app *fiber.App, accountSvc *accountsvc.Service, cfg *config.App) {
	v1 := app.Group("/v1/accounts")
	v1.Post("/", CreateAccount(accountSvc))
	v1.Post("/transfer", Transfer(accountSvc))
	v1.Get("/:id", GetAccount(accountSvc))
	if cfg == nil || !cfg.IsProduction() {
		v1.Delete("/", ResetAccounts(accountSvc))
	}
}

// CreateAccount returns a Fiber handler opening a new account.
// @Summary Create a new account
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountRead
// @Failure 400 {object} common.ProblemDetails "Invalid request or duplicate id"
// @Router /v1/accounts [post]
func CreateAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if err != nil {
			return nil // problem response already written
		}
		log.Infof("Creating account %s", input.AccountID)
		a, err := accountSvc.CreateAccount(c.UserContext(), input.toDTO())
		if err != nil {
			log.Errorf("Failed to create account: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// GetAccount returns a Fiber handler looking up one account.
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountRead
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /v1/accounts/{id} [get]
func GetAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		log.Debugf("Retrieving account for id %s", id)
		a, err := accountSvc.GetAccount(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Account not found", err)
		}
		return c.JSON(a)
	}
}

// Transfer returns a Fiber handler moving money from one account to another.
// @Summary Transfer money
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body TransferRequest true "Transfer details"
// @Success 200 {object} dto.TransferOutcome
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Failure 422 {object} common.ProblemDetails "Insufficient balance"
// @Router /v1/accounts/transfer [post]
func Transfer(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[TransferRequest](c)
		if err != nil {
			return nil // problem response already written
		}
		outcome, err := accountSvc.Transfer(c.UserContext(), input.toDTO())
		if err != nil {
			log.Warnf("Transfer failed: %v", err)
			return common.ProblemDetailsJSON(c, "Transfer failed", err)
		}
		return c.JSON(outcome)
	}
}

// ResetAccounts returns a Fiber handler dropping every account.
func ResetAccounts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := accountSvc.ClearAccounts(c.UserContext()); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to reset accounts", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
