package account_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/amirasaad/ledger/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AccountTestSuite struct {
	suite.Suite
	app    *fiber.App
	ledger *app.App
}

func TestAccountTestSuite(t *testing.T) {
	suite.Run(t, new(AccountTestSuite))
}

func (s *AccountTestSuite) SetupTest() {
	s.app, s.ledger = testutils.SetupTestApp(s.T(), nil)
}

type accountBody struct {
	AccountID string          `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
}

type outcomeBody struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

func (s *AccountTestSuite) request(method, path, body string) *http.Response {
	resp := testutils.MakeRequest(s.app, method, path, body)
	s.T().Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (s *AccountTestSuite) decode(resp *http.Response, v any) {
	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Require().NoError(json.Unmarshal(data, v), string(data))
}

func (s *AccountTestSuite) createAccount(id, balance string) {
	resp := s.request(fiber.MethodPost, "/v1/accounts", `{"accountId":"`+id+`","balance":`+balance+`}`)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
}

func (s *AccountTestSuite) getBalance(id string) decimal.Decimal {
	resp := s.request(fiber.MethodGet, "/v1/accounts/"+id, "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var body accountBody
	s.decode(resp, &body)
	return body.Balance
}

func (s *AccountTestSuite) TestCreateAccount() {
	resp := s.request(fiber.MethodPost, "/v1/accounts", `{"accountId":"Id-123","balance":1000}`)
	s.Equal(fiber.StatusCreated, resp.StatusCode)

	var body accountBody
	s.decode(resp, &body)
	s.Equal("Id-123", body.AccountID)
	s.True(body.Balance.Equal(decimal.NewFromInt(1000)))
	s.True(s.getBalance("Id-123").Equal(decimal.NewFromInt(1000)))
}

func (s *AccountTestSuite) TestCreateAccountRejectsBadInput() {
	cases := []struct {
		name string
		body string
	}{
		{"no account id", `{"balance":1000}`},
		{"empty account id", `{"accountId":"","balance":1000}`},
		{"no balance", `{"accountId":"Id-123"}`},
		{"negative balance", `{"accountId":"Id-123","balance":-1000}`},
		{"no body", ``},
		{"malformed body", `{"accountId":`},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			resp := s.request(fiber.MethodPost, "/v1/accounts", tc.body)
			s.Equal(fiber.StatusBadRequest, resp.StatusCode)
			s.Equal("application/problem+json", resp.Header.Get(fiber.HeaderContentType))
		})
	}
	s.Equal(0, s.ledger.Deps.Accounts.Count(s.T().Context()))
}

func (s *AccountTestSuite) TestCreateDuplicateAccount() {
	s.createAccount("Id-123", "1000")

	resp := s.request(fiber.MethodPost, "/v1/accounts", `{"accountId":"Id-123","balance":5}`)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)

	var problem common.ProblemDetails
	s.decode(resp, &problem)
	s.Equal("Account id Id-123 already exists!", problem.Detail)
	s.True(s.getBalance("Id-123").Equal(decimal.NewFromInt(1000)))
}

func (s *AccountTestSuite) TestGetAccount() {
	s.createAccount("Id-123", "123.45")

	resp := s.request(fiber.MethodGet, "/v1/accounts/Id-123", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	var body accountBody
	s.decode(resp, &body)
	s.Equal("Id-123", body.AccountID)
	s.True(body.Balance.Equal(decimal.RequireFromString("123.45")))
}

func (s *AccountTestSuite) TestGetMissingAccount() {
	resp := s.request(fiber.MethodGet, "/v1/accounts/nope", "")
	s.Equal(fiber.StatusNotFound, resp.StatusCode)

	var problem common.ProblemDetails
	s.decode(resp, &problem)
	s.Equal("Account with id nope not found.", problem.Detail)
}

func (s *AccountTestSuite) TestTransfer() {
	s.createAccount("AC1", "4000")
	s.createAccount("AC2", "3000")

	resp := s.request(fiber.MethodPost, "/v1/accounts/transfer", `{"accountFromId":"AC2","accountToId":"AC1","amount":200}`)
	s.Equal(fiber.StatusOK, resp.StatusCode)

	var out outcomeBody
	s.decode(resp, &out)
	s.True(out.Status)
	s.Equal("200 amount has been transferred from account AC2 to AC1", out.Message)

	s.True(s.getBalance("AC1").Equal(decimal.NewFromInt(4200)))
	s.True(s.getBalance("AC2").Equal(decimal.NewFromInt(2800)))
}

func (s *AccountTestSuite) TestTransferBelowFloatPrecision() {
	s.createAccount("AC1", "4000")
	s.createAccount("AC2", "3000")

	resp := s.request(fiber.MethodPost, "/v1/accounts/transfer", `{"accountFromId":"AC2","accountToId":"AC1","amount":1e-400}`)
	s.Equal(fiber.StatusOK, resp.StatusCode)

	tiny := decimal.RequireFromString("1e-400")
	s.True(s.getBalance("AC1").Equal(decimal.NewFromInt(4000).Add(tiny)))
	s.True(s.getBalance("AC2").Equal(decimal.NewFromInt(3000).Sub(tiny)))
}

func (s *AccountTestSuite) TestTransferFailures() {
	s.createAccount("AC1", "4000")
	s.createAccount("AC2", "3000")

	cases := []struct {
		name   string
		body   string
		status int
		detail string
	}{
		{"insufficient balance", `{"accountFromId":"AC2","accountToId":"AC1","amount":3200}`,
			fiber.StatusUnprocessableEntity, "Account AC2 does not have sufficient amount to debit from."},
		{"unknown destination", `{"accountFromId":"AC2","accountToId":"AC9","amount":1}`,
			fiber.StatusNotFound, "Account with id AC9 not found."},
		{"zero amount", `{"accountFromId":"AC2","accountToId":"AC1","amount":0}`, fiber.StatusBadRequest, ""},
		{"negative amount", `{"accountFromId":"AC2","accountToId":"AC1","amount":-5}`, fiber.StatusBadRequest, ""},
		{"missing source", `{"accountToId":"AC1","amount":5}`, fiber.StatusBadRequest, ""},
		{"same account", `{"accountFromId":"AC1","accountToId":"AC1","amount":5}`, fiber.StatusBadRequest, ""},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			resp := s.request(fiber.MethodPost, "/v1/accounts/transfer", tc.body)
			s.Equal(tc.status, resp.StatusCode)
			if tc.detail != "" {
				var problem common.ProblemDetails
				s.decode(resp, &problem)
				s.Equal(tc.detail, problem.Detail)
			}
		})
	}

	s.True(s.getBalance("AC1").Equal(decimal.NewFromInt(4000)))
	s.True(s.getBalance("AC2").Equal(decimal.NewFromInt(3000)))
}

func (s *AccountTestSuite) TestResetAccounts() {
	s.createAccount("AC1", "1")

	resp := s.request(fiber.MethodDelete, "/v1/accounts", "")
	s.Equal(fiber.StatusNoContent, resp.StatusCode)

	resp = s.request(fiber.MethodGet, "/v1/accounts/AC1", "")
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func (s *AccountTestSuite) TestResetNotRegisteredInProduction() {
	cfg := testutils.TestConfig()
	cfg.Env = "production"
	prod, _ := testutils.SetupTestApp(s.T(), cfg)

	resp := testutils.MakeRequest(prod, fiber.MethodDelete, "/v1/accounts", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Contains([]int{fiber.StatusNotFound, fiber.StatusMethodNotAllowed}, resp.StatusCode)
}
