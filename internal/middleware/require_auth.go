// Package middleware contain utilities middleware code
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"campus-portal-backend/internal/apperror"
	"campus-portal-backend/internal/model"
	"campus-portal-backend/internal/utilities"
)

// TokenResolver turns a bearer token into the account it was issued for.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (model.User, *jwt.RegisteredClaims, error)
}

// RequireAuth validates the Bearer token in the Authorization header and stores the
// account under "user" and the claims under "claims".
func RequireAuth(resolver TokenResolver) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			_ = ctx.Error(apperror.Auth(err.Error(), err))
			ctx.Abort()
			return
		}

		user, claims, err := resolver.ResolveToken(ctx.Request.Context(), tokenString)
		if err != nil {
			_ = ctx.Error(err)
			ctx.Abort()
			return
		}

		ctx.Set("claims", claims)
		ctx.Set("user", user)
		ctx.Next()
	}
}
