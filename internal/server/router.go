package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/prejudice-risk-backend/internal/handlers"
	"github.com/yungbote/prejudice-risk-backend/internal/middleware"
	"github.com/yungbote/prejudice-risk-backend/internal/observability"
)

type RouterConfig struct {
	StatusHandler     *handlers.StatusHandler
	AssessmentHandler *handlers.AssessmentHandler
	FactorHandler     *handlers.FactorHandler
	ResultHandler     *handlers.ResultHandler
	CMSHandler        *handlers.CMSHandler
	WebhookHandler    *handlers.WebhookHandler
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	RateLimit         *middleware.RateLimitMiddleware
	Metrics           *observability.Metrics
	AllowOrigins      []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
	}

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/", cfg.StatusHandler.Root)
	router.GET("/status", cfg.StatusHandler.Status)
	router.GET("/healthcheck", cfg.StatusHandler.Status)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	api := router.Group("/api/v1")
	if cfg.RateLimit != nil {
		api.Use(cfg.RateLimit.Limit())
	}
	api.POST("/auth/validate", cfg.AuthHandler.Validate)

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAPIKey())

	// Assessments
	protected.POST("/assessments", cfg.AssessmentHandler.Create)
	protected.GET("/assessments", cfg.AssessmentHandler.List)
	protected.GET("/assessments/:assessmentID", cfg.AssessmentHandler.Get)
	protected.PUT("/assessments/:assessmentID", cfg.AssessmentHandler.Update)
	protected.DELETE("/assessments/:assessmentID", cfg.AssessmentHandler.Delete)

	// Factors
	protected.GET("/factors/definitions", cfg.FactorHandler.Definitions)
	protected.POST("/assessments/:assessmentID/factors", cfg.FactorHandler.Submit)
	protected.GET("/assessments/:assessmentID/factors", cfg.FactorHandler.List)
	protected.PUT("/assessments/:assessmentID/factors/:factorID", cfg.FactorHandler.Update)

	// Results
	protected.POST("/assessments/:assessmentID/calculate", cfg.ResultHandler.Calculate)
	protected.GET("/assessments/:assessmentID/results", cfg.ResultHandler.List)
	protected.GET("/assessments/:assessmentID/results/latest", cfg.ResultHandler.Latest)
	protected.GET("/assessments/:assessmentID/export", cfg.ResultHandler.Export)

	// CMS
	protected.POST("/cms/assessments/:assessmentID/link", cfg.CMSHandler.Link)
	protected.GET("/cms/assessments/:assessmentID/links", cfg.CMSHandler.ListLinks)
	protected.DELETE("/cms/assessments/:assessmentID/links/:cmsType", cfg.CMSHandler.DeleteLink)
	protected.POST("/cms/assessments/:assessmentID/sync", cfg.CMSHandler.Sync)
	protected.GET("/cms/systems", cfg.CMSHandler.Systems)

	// Webhooks
	protected.POST("/webhooks", cfg.WebhookHandler.Register)
	protected.GET("/webhooks", cfg.WebhookHandler.List)
	protected.POST("/webhooks/test", cfg.WebhookHandler.Test)
	protected.GET("/webhooks/:webhookID", cfg.WebhookHandler.Get)
	protected.PUT("/webhooks/:webhookID", cfg.WebhookHandler.Update)
	protected.DELETE("/webhooks/:webhookID", cfg.WebhookHandler.Delete)
	protected.GET("/webhooks/:webhookID/deliveries", cfg.WebhookHandler.Deliveries)

	// API keys
	protected.POST("/auth/keys", cfg.AuthHandler.CreateKey)
	protected.GET("/auth/keys", cfg.AuthHandler.ListKeys)
	protected.GET("/auth/keys/:keyID", cfg.AuthHandler.GetKey)
	protected.PUT("/auth/keys/:keyID", cfg.AuthHandler.UpdateKey)
	protected.DELETE("/auth/keys/:keyID", cfg.AuthHandler.DeleteKey)
	protected.POST("/auth/keys/:keyID/revoke", cfg.AuthHandler.RevokeKey)
	protected.POST("/auth/keys/:keyID/rotate", cfg.AuthHandler.RotateKey)

	return router
}
