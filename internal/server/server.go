package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"campus-portal-backend/internal/auth"
	"campus-portal-backend/internal/config"
	"campus-portal-backend/internal/controller/file"
	"campus-portal-backend/internal/database"
	"campus-portal-backend/internal/events"
)

// MyServer holds everything the route handlers depend on.
type MyServer struct {
	Config     *config.Config
	DB         *database.DBinstanceStruct
	Logger     *zap.Logger
	AuthLogger *zap.Logger
	Tokens     *auth.JWTManager
	Blacklist  auth.JwtBlacklistStore
	Storage    file.StorageClient
	Publisher  events.Publisher
	// Redis is nil when the rate limiter keeps its counters in memory.
	Redis *redis.Client
}

// NewServer construct new http.Server serving the API on the configured port.
func NewServer(s *MyServer) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Config.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
