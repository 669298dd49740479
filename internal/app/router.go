package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/prejudice-risk-backend/internal/observability"
	"github.com/yungbote/prejudice-risk-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware, metrics *observability.Metrics) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		StatusHandler:     handlerset.Status,
		AssessmentHandler: handlerset.Assessment,
		FactorHandler:     handlerset.Factor,
		ResultHandler:     handlerset.Result,
		CMSHandler:        handlerset.CMS,
		WebhookHandler:    handlerset.Webhook,
		AuthHandler:       handlerset.Auth,
		AuthMiddleware:    middlewareset.Auth,
		RateLimit:         middlewareset.RateLimit,
		Metrics:           metrics,
		AllowOrigins:      cfg.AllowOrigins,
	})
}
