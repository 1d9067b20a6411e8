package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-at-least-32-characters!!",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "mandir-backend",
	})
}

func TestJWTService_GenerateToken(t *testing.T) {
	svc := newTestJWTService()

	token, expiresAt, err := svc.GenerateToken(GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Username: "priest",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)
}

func TestJWTService_ValidateToken(t *testing.T) {
	svc := newTestJWTService()
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("round-trips valid claims", func(t *testing.T) {
		token, _, err := svc.GenerateToken(GenerateTokenInput{
			TenantID: tenantID,
			UserID:   userID,
			Username: "treasurer",
		})
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, tenantID.String(), claims.TenantID)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "treasurer", claims.Username)
		assert.Equal(t, "mandir-backend", claims.Issuer)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "another-secret-also-32-characters!!!",
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "mandir-backend",
		})
		token, _, err := other.GenerateToken(GenerateTokenInput{
			TenantID: tenantID,
			UserID:   userID,
		})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		shortLived := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-at-least-32-characters!!",
			AccessTokenExpiration: -time.Minute,
			Issuer:                "mandir-backend",
		})
		token, _, err := shortLived.GenerateToken(GenerateTokenInput{
			TenantID: tenantID,
			UserID:   userID,
		})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}
