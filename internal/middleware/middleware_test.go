package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"recipe-share/domain"
	"recipe-share/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newApp(jwtService jwt.JWTService) *fiber.App {
	app := fiber.New()
	m := NewMiddleware()
	whoami := func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		return c.SendString(userID)
	}
	app.Get("/required", m.AuthMiddleware(jwtService), whoami)
	app.Get("/optional", m.OptionalAuthMiddleware(jwtService), whoami)
	return app
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", time.Hour)
	expired := jwt.NewJWTService("secret", -time.Hour)
	app := newApp(jwtService)

	userID := uuid.NewString()
	token, err := jwtService.GenerateTokenUser(userID, domain.RoleUser)
	require.NoError(t, err)
	stale, err := expired.GenerateTokenUser(userID, domain.RoleUser)
	require.NoError(t, err)

	testCases := []struct {
		name     string
		path     string
		header   string
		wantCode int
	}{
		{"required with token", "/required", "Bearer " + token, fiber.StatusOK},
		{"required lower case scheme", "/required", "bearer " + token, fiber.StatusOK},
		{"required without header", "/required", "", fiber.StatusUnauthorized},
		{"required wrong scheme", "/required", "Basic " + token, fiber.StatusUnauthorized},
		{"required expired", "/required", "Bearer " + stale, fiber.StatusUnauthorized},
		{"optional anonymous", "/optional", "", fiber.StatusOK},
		{"optional with token", "/optional", "Bearer " + token, fiber.StatusOK},
		{"optional garbage token", "/optional", "Bearer nope", fiber.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.wantCode, resp.StatusCode)
		})
	}
}
