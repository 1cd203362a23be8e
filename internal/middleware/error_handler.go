package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-portal-backend/internal/apperror"
	"campus-portal-backend/internal/utilities"
)

// ErrorHandler writes the envelope for the last error a handler attached with c.Error.
// It is the only place where errors become status codes.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := apperror.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			fields := []zap.Field{
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			}
			var appErr *apperror.Error
			if errors.As(err, &appErr) {
				fields = append(fields, zap.ByteString("stack", appErr.StackTrace()))
			}
			logger.Error("request failed", fields...)
		}

		c.JSON(status, utilities.Fail(apperror.Message(err)))
	}
}

// Recovery turns panics into a 500 envelope.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"))
		c.AbortWithStatusJSON(http.StatusInternalServerError, utilities.Fail("Server Error"))
	})
}
