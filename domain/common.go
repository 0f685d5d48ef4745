package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	RoleUser = "user"
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageUnauthenticated      = "authentication required"
	MessageInternalError        = "internal server error"

	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("authentication required")
	ErrValidation      = errors.New("validation failed")

	ErrRecipeNotFound = fmt.Errorf("recipe %w", ErrNotFound)
	ErrReviewNotFound = fmt.Errorf("review %w", ErrNotFound)
	ErrUserNotFound   = fmt.Errorf("user %w", ErrNotFound)

	ErrTokenInvalid  = errors.New("token invalid")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenNotFound = errors.New("failed to token not found")
)

// Identity is the authenticated caller of an operation. A nil *Identity
// means the caller is anonymous.
type Identity struct {
	UserID uuid.UUID
}

// ParseID parses a path or body id, reporting malformed ids as notFound.
func ParseID(raw string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}
