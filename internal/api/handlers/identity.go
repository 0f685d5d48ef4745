package handlers

import (
	"recipe-share/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// identityFrom reads the caller set by the auth middleware. It returns nil
// for anonymous requests.
func identityFrom(c *fiber.Ctx) *domain.Identity {
	raw, ok := c.Locals("user_id").(string)
	if !ok || raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &domain.Identity{UserID: id}
}
