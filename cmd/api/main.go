// Command api runs the campus recruitment portal HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"campus-portal-backend/internal/auth"
	"campus-portal-backend/internal/config"
	"campus-portal-backend/internal/controller/file"
	"campus-portal-backend/internal/database"
	"campus-portal-backend/internal/events"
	"campus-portal-backend/internal/logging"
	"campus-portal-backend/internal/server"
)

// @title Campus Recruitment Portal API
// @version 1.0
// @description Students apply to jobs posted by companies; admins moderate the platform.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func newLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}

func newDatabase(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*database.DBinstanceStruct, error) {
	db, err := database.NewDBInstance(cfg.Database, cfg.Admin, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return db.Close()
		},
	})
	return db, nil
}

// newRedis returns nil when no address is configured.
func newRedis(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		logger.Info("REDIS_ADDR not set, rate limits and revoked tokens are kept in memory")
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func newBlacklist(lc fx.Lifecycle, client *redis.Client) auth.JwtBlacklistStore {
	if client != nil {
		return auth.NewRedisBlacklistStore(client)
	}
	store := auth.NewInMemoryBlacklistStore(10 * time.Minute)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			store.Close()
			return nil
		},
	})
	return store
}

func newStorage(lc fx.Lifecycle, cfg *config.Config, db *database.DBinstanceStruct, logger *zap.Logger) (file.StorageClient, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("GCS_BUCKET not set, media is stored in the database")
		return file.NewDatabaseStorage(db.DB, cfg.PublicBaseURL), nil
	}
	client, err := file.NewCloudStorageClient(context.Background(), cfg.Storage)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func newPublisher(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	publisher, err := events.NewPublisher(logger, cfg.NATS)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			publisher.Close()
			return nil
		},
	})
	return publisher, nil
}

func newTokens(cfg *config.Config) *auth.JWTManager {
	return auth.NewJWTManager(cfg.JWT)
}

type serverParams struct {
	fx.In

	Config    *config.Config
	DB        *database.DBinstanceStruct
	Logger    *zap.Logger
	Tokens    *auth.JWTManager
	Blacklist auth.JwtBlacklistStore
	Storage   file.StorageClient
	Publisher events.Publisher
	Redis     *redis.Client
}

func newMyServer(p serverParams) (*server.MyServer, error) {
	authLogger, err := logging.NewAuthLogger(p.Logger, p.Config.AuthLogFile)
	if err != nil {
		return nil, err
	}
	return &server.MyServer{
		Config:     p.Config,
		DB:         p.DB,
		Logger:     p.Logger,
		AuthLogger: authLogger,
		Tokens:     p.Tokens,
		Blacklist:  p.Blacklist,
		Storage:    p.Storage,
		Publisher:  p.Publisher,
		Redis:      p.Redis,
	}, nil
}

func runHTTPServer(lc fx.Lifecycle, srv *http.Server, logger *zap.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				logger.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server stopped", zap.Error(err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down http server")
			return srv.Shutdown(ctx)
		},
	})
}

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			newLogger,
			newDatabase,
			newRedis,
			newBlacklist,
			newStorage,
			newPublisher,
			newTokens,
			newMyServer,
			server.NewServer,
		),
		fx.Invoke(runHTTPServer),
	).Run()
}
