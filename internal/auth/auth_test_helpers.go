package auth

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"campus-portal-backend/internal/config"
	"campus-portal-backend/internal/database"
	"campus-portal-backend/internal/testutil"
)

// TestTokens is the token manager shared by package tests.
var TestTokens = NewJWTManager(config.JWTConfig{
	Secret: "test-secret",
	Expire: config.ExpireDuration(time.Hour),
	Issuer: "campus-portal",
})

// GetAccessToken logs in through the login handler and returns the issued token.
func GetAccessToken(
	t *testing.T,
	db *database.DBinstanceStruct,
	email string,
	password string,
) (string, error) {
	t.Helper()
	handler := NewLocalAuthHandler(db, TestTokens, zap.NewNop(), false)
	rec, resp, err := testutil.SimulateAPICall(handler.LocalLoginHandler, "/login", http.MethodPost, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	if rec.Code != http.StatusOK {
		return "", fmt.Errorf("login failed: status %d, body: %s", rec.Code, rec.Body.String())
	}
	token, ok := resp["token"].(string)
	if !ok || token == "" {
		return "", fmt.Errorf("login failed: no token in response: %s", rec.Body.String())
	}
	return token, nil
}
