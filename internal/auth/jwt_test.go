package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-portal-backend/internal/auth"
	"campus-portal-backend/internal/config"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	id := uuid.New()
	token, err := auth.TestTokens.GenerateToken(id)
	require.NoError(t, err)

	claims, err := auth.TestTokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.Subject)
	assert.Equal(t, "campus-portal", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	assert.NotNil(t, claims.IssuedAt)
}

func TestJWTManager_Expired(t *testing.T) {
	token, err := auth.TestTokens.GenerateTokenWithDuration(uuid.New(), -time.Minute)
	require.NoError(t, err)

	_, err = auth.TestTokens.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestJWTManager_RejectsForeignTokens(t *testing.T) {
	otherSecret := auth.NewJWTManager(config.JWTConfig{Secret: "another-secret", Expire: config.ExpireDuration(time.Hour), Issuer: "campus-portal"})
	otherIssuer := auth.NewJWTManager(config.JWTConfig{Secret: "test-secret", Expire: config.ExpireDuration(time.Hour), Issuer: "someone-else"})

	for name, m := range map[string]*auth.JWTManager{"secret": otherSecret, "issuer": otherIssuer} {
		t.Run(name, func(t *testing.T) {
			token, err := m.GenerateToken(uuid.New())
			require.NoError(t, err)
			_, err = auth.TestTokens.ValidateToken(token)
			assert.Error(t, err)
		})
	}

	_, err := auth.TestTokens.ValidateToken("not.a.jwt")
	assert.Error(t, err)
}
