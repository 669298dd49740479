package app

import (
	"strings"
	"time"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/utils"
)

type Config struct {
	APIVersion      string
	AllowOrigins    []string
	EnableWebhooks  bool
	WebhookTimeout  time.Duration
	RetryTiers      []time.Duration
	RateLimitPerMin int
	RedisURL        string
	SentryDSN       string
	BootstrapAPIKey string
}

// defaultRetryTiers is the declared webhook backoff schedule in seconds.
var defaultRetryTiers = []int{60, 300, 900, 1800, 3600, 10800}

func LoadConfig(log *logger.Logger) Config {
	apiVersion := utils.GetEnv("API_VERSION", "v1", log)
	allowOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log)
	enableWebhooks := utils.GetEnvAsBool("ENABLE_WEBHOOKS", true, log)
	webhookTimeoutSeconds := utils.GetEnvAsInt("WEBHOOK_TIMEOUT_SECONDS", 10, log)
	rateLimitPerMin := utils.GetEnvAsInt("RATE_LIMIT_PER_MINUTE", 100, log)
	redisURL := utils.GetEnv("REDIS_URL", "", log)
	sentryDSN := utils.GetEnv("SENTRY_DSN", "", nil)
	bootstrapKey := utils.GetEnv("API_BOOTSTRAP_KEY", "", nil)

	tiers := make([]time.Duration, 0, len(defaultRetryTiers))
	for _, seconds := range defaultRetryTiers {
		tiers = append(tiers, time.Duration(seconds)*time.Second)
	}

	return Config{
		APIVersion:      apiVersion,
		AllowOrigins:    splitOrigins(allowOrigins),
		EnableWebhooks:  enableWebhooks,
		WebhookTimeout:  time.Duration(webhookTimeoutSeconds) * time.Second,
		RetryTiers:      tiers,
		RateLimitPerMin: rateLimitPerMin,
		RedisURL:        redisURL,
		SentryDSN:       sentryDSN,
		BootstrapAPIKey: bootstrapKey,
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
