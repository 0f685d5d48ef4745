package presenters

import (
	"errors"

	"recipe-share/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes a failure envelope. Server errors are logged and
// their detail is not sent to the client.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if err != nil {
		if statusCode >= fiber.StatusInternalServerError {
			log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
			res.Error = domain.MessageInternalError
		} else {
			res.Error = err.Error()
		}
	}
	return c.Status(statusCode).JSON(res)
}

// Failed maps err to its status code and writes the failure envelope.
func Failed(c *fiber.Ctx, message string, err error) error {
	return ErrorResponse(c, StatusFromError(err), message, err)
}

func StatusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrSelfReview):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenNotFound):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrDuplicateEmail):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidImageFormat):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
