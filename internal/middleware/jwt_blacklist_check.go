package middleware

import (
	"github.com/gin-gonic/gin"

	"campus-portal-backend/internal/apperror"
	"campus-portal-backend/internal/auth"
	"campus-portal-backend/internal/utilities"
)

// JwtBlacklistCheck rejects tokens revoked by logout.
func JwtBlacklistCheck(bl auth.JwtBlacklistStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			_ = ctx.Error(apperror.Auth(err.Error(), err))
			ctx.Abort()
			return
		}

		isBlacklisted, err := bl.IsBlacklisted(ctx.Request.Context(), tokenString)
		if err != nil {
			_ = ctx.Error(apperror.Internal("Failed to validate token", err))
			ctx.Abort()
			return
		}

		if isBlacklisted {
			_ = ctx.Error(apperror.Auth("Token has been revoked", nil))
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}
