// Package common holds the response envelope, problem details and request
// binding shared by the webapi resource packages.
package common

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/amirasaad/findash/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

// ProblemDetailsJSON writes an application/problem+json response.
//
// The status is taken from the first int in args, or derived from err with
// ErrorToStatusCode, or 400 when err is nil. The detail is the first string in
// args, or err's message. Any other arg is reported under "errors".
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, args ...any) error {
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Instance: c.OriginalURL(),
	}
	for _, a := range args {
		switch v := a.(type) {
		case int:
			if pd.Status == 0 {
				pd.Status = v
			}
		case string:
			if pd.Detail == "" {
				pd.Detail = v
			}
		default:
			pd.Errors = v
		}
	}
	if pd.Status == 0 {
		if err != nil {
			pd.Status = ErrorToStatusCode(err)
		} else {
			pd.Status = fiber.StatusBadRequest
		}
	}
	if pd.Detail == "" && err != nil {
		pd.Detail = err.Error()
	}
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(pd.Status).JSON(pd)
}

// FailedJSON writes the problem response for a failed operation. Only
// failures that map to a 5xx status are logged at error level.
func FailedJSON(c *fiber.Ctx, title string, err error) error {
	if ErrorToStatusCode(err) >= fiber.StatusInternalServerError {
		log.Errorf("%s: %v", title, err)
	}
	return ProblemDetailsJSON(c, title, err)
}

// SuccessResponseJSON writes the success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidReference):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// Returns a pointer to the struct (populated), or writes an error response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", nil, err.Error(), fiber.StatusBadRequest)
	}
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, ProblemDetailsJSON(c, "Validation failed", nil, validationMessages(verrs), fiber.StatusBadRequest)
		}
		return nil, ProblemDetailsJSON(c, "Validation failed", nil, err.Error(), fiber.StatusBadRequest)
	}
	return &input, nil
}

func validationMessages(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required", "required_if":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, field+" must be one of "+fe.Param())
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "datetime":
			msgs = append(msgs, field+" must be formatted as YYYY-MM-DD")
		case "max":
			msgs = append(msgs, field+" must be at most "+fe.Param()+" characters")
		default:
			msgs = append(msgs, field+" failed "+fe.Tag())
		}
	}
	return strings.Join(msgs, "; ")
}

// ParseID reads a positive integer ID from a path or query value.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id must be a positive integer")
	}
	return uint(id), nil
}

// ClientKey identifies the caller for rate limiting: the first
// X-Forwarded-For hop, then X-Real-IP, then the remote address.
func ClientKey(c *fiber.Ctx) string {
	if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
		if i := strings.Index(forwardedFor, ","); i != -1 {
			return strings.TrimSpace(forwardedFor[:i])
		}
		return strings.TrimSpace(forwardedFor)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}
