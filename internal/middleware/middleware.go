package middleware

import (
	"strings"

	"recipe-share/domain"
	"recipe-share/internal/api/presenters"
	"recipe-share/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const authorizationTypeBearer = "bearer"

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		// AuthMiddleware rejects requests without a valid bearer token.
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		// OptionalAuthMiddleware lets anonymous requests through but still
		// rejects a token that is present and invalid.
		OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	})
}

func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageUnauthenticated, err)
		}
		return authenticate(c, jwtService, token)
	}
}

func (m *middleware) OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}
		token, err := bearerToken(c)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}
		return authenticate(c, jwtService, token)
	}
}

func bearerToken(c *fiber.Ctx) (string, error) {
	fields := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(fields) == 0 {
		return "", domain.ErrTokenNotFound
	}
	if len(fields) != 2 || strings.ToLower(fields[0]) != authorizationTypeBearer {
		return "", domain.ErrTokenInvalid
	}
	return fields[1], nil
}

func authenticate(c *fiber.Ctx, jwtService jwt.JWTService, token string) error {
	userID, role, err := jwtService.GetUserIDByToken(token)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
	}

	c.Locals("user_id", userID)
	c.Locals("role", role)
	return c.Next()
}
