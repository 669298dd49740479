package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
)

// RateLimitMiddleware applies a fixed window limit per client IP. The counter
// lives in redis when a client is configured so limits hold across replicas;
// otherwise an in-process map is used.
type RateLimitMiddleware struct {
	log    *logger.Logger
	rdb    *redis.Client
	limit  int
	window time.Duration

	mu      sync.Mutex
	windows map[string]*localWindow
}

type localWindow struct {
	start time.Time
	count int
}

func NewRateLimitMiddleware(log *logger.Logger, rdb *redis.Client, limit int, window time.Duration) *RateLimitMiddleware {
	if limit <= 0 {
		limit = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimitMiddleware{
		log:     log.With("middleware", "RateLimitMiddleware"),
		rdb:     rdb,
		limit:   limit,
		window:  window,
		windows: make(map[string]*localWindow),
	}
}

func (rl *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := rl.allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			rl.log.Warn("Rate limit counter unavailable, allowing request", "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func (rl *RateLimitMiddleware) allow(ctx context.Context, clientIP string) (bool, error) {
	if rl.rdb != nil {
		return rl.allowRedis(ctx, clientIP)
	}
	return rl.allowLocal(clientIP), nil
}

func (rl *RateLimitMiddleware) allowRedis(ctx context.Context, clientIP string) (bool, error) {
	bucket := time.Now().UTC().Unix() / int64(rl.window.Seconds())
	key := fmt.Sprintf("ratelimit:%s:%d", clientIP, bucket)

	count, err := rl.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		rl.rdb.Expire(ctx, key, rl.window)
	}
	return count <= int64(rl.limit), nil
}

func (rl *RateLimitMiddleware) allowLocal(clientIP string) bool {
	now := time.Now().UTC()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[clientIP]
	if !ok || now.Sub(w.start) >= rl.window {
		rl.windows[clientIP] = &localWindow{start: now, count: 1}
		return true
	}
	w.count++
	return w.count <= rl.limit
}
