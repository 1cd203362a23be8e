package middleware

import (
	"fmt"
	"slices"

	"github.com/gin-gonic/gin"

	"campus-portal-backend/internal/apperror"
	"campus-portal-backend/internal/utilities"
)

// CheckRole will protect endpoint from user that is not a specific roles
func CheckRole(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utilities.ExtractUser(ctx)
		if err != nil {
			_ = ctx.Error(err)
			ctx.Abort()
			return
		}

		if !slices.Contains(roles, user.Role) {
			_ = ctx.Error(apperror.Forbidden(fmt.Sprintf("User role %s is not authorized to access this route", user.Role), nil))
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}
