package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"campus-portal-backend/internal/config"
)

// JWTManager signs and verifies the HS256 bearer tokens handed out at login.
type JWTManager struct {
	secret []byte
	expiry time.Duration
	issuer string
}

func NewJWTManager(cfg config.JWTConfig) *JWTManager {
	return &JWTManager{
		secret: []byte(cfg.Secret),
		expiry: cfg.Expire.Duration(),
		issuer: cfg.Issuer,
	}
}

// GenerateToken issues a token for the account with the configured lifetime.
func (m *JWTManager) GenerateToken(userID uuid.UUID) (string, error) {
	return m.GenerateTokenWithDuration(userID, m.expiry)
}

// GenerateTokenWithDuration issues a token for the account that expires after d.
func (m *JWTManager) GenerateTokenWithDuration(userID uuid.UUID, d time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature, expiry and issuer and returns the claims.
func (m *JWTManager) ValidateToken(encoded string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(encoded, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if !claims.VerifyIssuer(m.issuer, true) {
		return nil, jwt.ErrTokenInvalidIssuer
	}
	return claims, nil
}
