package jwt

import (
	"testing"
	"time"

	"recipe-share/domain"
	"recipe-share/internal/testutil/random"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestJWTService(t *testing.T) {
	secret := random.String(32)

	t.Run("round trip", func(t *testing.T) {
		svc := NewJWTService(secret, time.Minute)
		userID := uuid.NewString()

		token, err := svc.GenerateTokenUser(userID, domain.RoleUser)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		gotID, role, err := svc.GetUserIDByToken(token)
		require.NoError(t, err)
		require.Equal(t, userID, gotID)
		require.Equal(t, domain.RoleUser, role)
	})

	t.Run("expired token", func(t *testing.T) {
		svc := NewJWTService(secret, -time.Minute)

		token, err := svc.GenerateTokenUser(uuid.NewString(), domain.RoleUser)
		require.NoError(t, err)

		_, _, err = svc.GetUserIDByToken(token)
		require.ErrorIs(t, err, domain.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTService(secret, time.Minute).GenerateTokenUser(uuid.NewString(), domain.RoleUser)
		require.NoError(t, err)

		_, _, err = NewJWTService(random.String(32), time.Minute).GetUserIDByToken(token)
		require.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := NewJWTService(secret, time.Minute).GetUserIDByToken("not-a-token")
		require.ErrorIs(t, err, domain.ErrTokenInvalid)
	})
}
