// Package client talks to the ledger HTTP API.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/amirasaad/ledger/pkg/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// APIError is a problem response returned by the server.
type APIError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("%d %s", e.Status, e.Title)
}

// Client is a small HTTP client for the account endpoints.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *fiber.Client
}

// New returns a client for the API served at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http: &fiber.Client{
			UserAgent:   "ledgerctl",
			JSONEncoder: json.Marshal,
			JSONDecoder: json.Unmarshal,
		},
	}
}

type createAccountBody struct {
	AccountID string          `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
}

type transferBody struct {
	AccountFromID string          `json:"accountFromId"`
	AccountToID   string          `json:"accountToId"`
	Amount        decimal.Decimal `json:"amount"`
}

func (c *Client) CreateAccount(id string, balance decimal.Decimal) (*dto.AccountRead, error) {
	agent := c.http.Post(c.baseURL + "/v1/accounts").
		JSON(createAccountBody{AccountID: id, Balance: balance})
	var out dto.AccountRead
	if err := c.do(agent, fiber.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetAccount(id string) (*dto.AccountRead, error) {
	agent := c.http.Get(c.baseURL + "/v1/accounts/" + url.PathEscape(id))
	var out dto.AccountRead
	if err := c.do(agent, fiber.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Transfer(from, to string, amount decimal.Decimal) (*dto.TransferOutcome, error) {
	agent := c.http.Post(c.baseURL + "/v1/accounts/transfer").
		JSON(transferBody{AccountFromID: from, AccountToID: to, Amount: amount})
	var out dto.TransferOutcome
	if err := c.do(agent, fiber.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reset removes every account. Servers running in production reject it.
func (c *Client) Reset() error {
	return c.do(c.http.Delete(c.baseURL+"/v1/accounts"), fiber.StatusNoContent, nil)
}

func (c *Client) do(agent *fiber.Agent, want int, out any) error {
	if c.timeout > 0 {
		agent.Timeout(c.timeout)
	}
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("request failed: %w", errors.Join(errs...))
	}
	if code != want {
		apiErr := &APIError{Status: code}
		if len(body) > 0 {
			_ = json.Unmarshal(body, apiErr)
		}
		if apiErr.Status == 0 {
			apiErr.Status = code
		}
		return apiErr
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
