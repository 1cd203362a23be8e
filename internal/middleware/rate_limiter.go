package middleware

import (
	"fmt"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"campus-portal-backend/internal/apperror"
	"campus-portal-backend/internal/config"
)

func keyFunc(c *gin.Context) string {
	return "ip: " + c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	wait := time.Until(info.ResetTime).Round(time.Second)
	c.Header("Retry-After", fmt.Sprintf("%.0f", wait.Seconds()))
	_ = c.Error(apperror.TooManyRequests("Too many requests from this IP, please try again later", nil))
	c.Abort()
}

// RateLimiterMiddleware limits each client address to cfg.Max requests per cfg.Window.
// A non-nil redis client shares the counters between instances.
func RateLimiterMiddleware(cfg config.RateLimitConfig, client *redis.Client) gin.HandlerFunc {
	var store ratelimit.Store
	if client != nil {
		store = ratelimit.RedisStore(&ratelimit.RedisOptions{
			RedisClient: client,
			Rate:        cfg.Window,
			Limit:       cfg.Max,
		})
	} else {
		store = ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
			Rate:  cfg.Window,
			Limit: cfg.Max,
		})
	}

	return ratelimit.RateLimiter(store, &ratelimit.Options{
		KeyFunc:      keyFunc,
		ErrorHandler: errorHandler,
	})
}
