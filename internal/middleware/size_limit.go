package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const multipartOverhead int64 = 8 * 1024 // rough padding for multipart boundaries and headers

// SizeLimit caps the request body at maxBodyBytes plus multipart overhead. Reads past
// the cap fail with *http.MaxBytesError.
func SizeLimit(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes+multipartOverhead)
		c.Next()
	}
}
