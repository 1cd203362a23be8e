package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"campus-portal-backend/internal/apperror"
	"campus-portal-backend/internal/utilities"
)

// LogoutController handles user logout by blacklisting JWT tokens
type LogoutController struct {
	BlacklistStore JwtBlacklistStore
}

// NewLogoutController creates a new instance of LogoutController
func NewLogoutController(blacklistStore JwtBlacklistStore) *LogoutController {
	return &LogoutController{
		BlacklistStore: blacklistStore,
	}
}

// LogoutHandler godoc
// @Summary      Revoke the current token
// @Description  Blacklists the bearer token until it expires
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  utilities.Response
// @Failure      401  {object}  utilities.Response
// @Router       /auth/logout [post]
func (lc *LogoutController) LogoutHandler(c *gin.Context) {
	tokenString, err := utilities.ExtractBearerToken(c)
	if err != nil {
		_ = c.Error(apperror.Auth(err.Error(), err))
		return
	}

	claims, err := ExtractClaims(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := lc.BlacklistStore.AddToBlacklist(c.Request.Context(), tokenString, claims.ExpiresAt.Time); err != nil {
		_ = c.Error(apperror.Internal("Failed to logout", err))
		return
	}

	c.JSON(http.StatusOK, utilities.Msg("Successfully logged out"))
}

// ExtractClaims reads the claims RequireAuth stored on the context.
func ExtractClaims(c *gin.Context) (*jwt.RegisteredClaims, error) {
	claims, ok := c.Get("claims")
	if !ok {
		return nil, apperror.Auth("Not authorized to access this route", nil)
	}

	realClaims, okCast := claims.(*jwt.RegisteredClaims)
	if !okCast || realClaims.ExpiresAt == nil {
		return nil, apperror.Auth("Not authorized to access this route", nil)
	}
	return realClaims, nil
}
