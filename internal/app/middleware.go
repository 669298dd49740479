package app

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/middleware"
)

type Middleware struct {
	Auth      *middleware.AuthMiddleware
	RateLimit *middleware.RateLimitMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config, serviceset Services) Middleware {
	log.Info("Wiring middleware...")

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Warn("Invalid REDIS_URL, falling back to in-process rate limiting", "error", err)
		} else {
			rdb = redis.NewClient(opts)
		}
	}

	return Middleware{
		Auth:      middleware.NewAuthMiddleware(log, serviceset.Auth),
		RateLimit: middleware.NewRateLimitMiddleware(log, rdb, cfg.RateLimitPerMin, time.Minute),
	}
}
