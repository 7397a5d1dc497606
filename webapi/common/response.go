// Package common holds the response envelopes, error mapping and request
// binding shared by the HTTP handlers.
package common

import (
	"errors"
	"reflect"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Decimals reach the validator as their exact string form so no precision
	// is lost; decimal_gt0 and decimal_gte0 compare them against zero.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("decimal_gt0", decimalSign(func(sign int) bool { return sign > 0 }))
	_ = v.RegisterValidation("decimal_gte0", decimalSign(func(sign int) bool { return sign >= 0 }))
	return v
}

func decimalSign(accept func(sign int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return accept(d.Sign())
	}
}

// ErrorResponseJSON returns a response following RFC 9457 Problem Details
func ErrorResponseJSON(
	c *fiber.Ctx,
	status int,
	title string,
	detail any,
) error {
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
	}
	if detail != nil {
		if s, ok := detail.(string); ok {
			pd.Detail = s
		} else {
			pd.Errors = detail
		}
	}
	pd.Instance = c.OriginalURL()
	return c.Status(status).JSON(pd, "application/problem+json")
}

// ProblemDetailsJSON writes err as a problem response. The status is derived
// from err unless given explicitly.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, status ...int) error {
	code := ErrorToStatusCode(err)
	if len(status) > 0 {
		code = status[0]
	}
	var fe *fiber.Error
	if len(status) == 0 && errors.As(err, &fe) {
		code = fe.Code
	}
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return ErrorResponseJSON(c, code, title, detail)
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientBalance):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrDuplicateAccountID),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidAccountID),
		errors.Is(err, domain.ErrSameAccount):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// Returns a pointer to the struct (populated), or writes an error response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		_ = ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		_ = ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
		return nil, err
	}
	return &input, nil
}
