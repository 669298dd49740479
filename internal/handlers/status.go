package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
)

type StatusHandler struct {
	log        *logger.Logger
	db         *gorm.DB
	apiVersion string
}

func NewStatusHandler(log *logger.Logger, db *gorm.DB, apiVersion string) *StatusHandler {
	return &StatusHandler{
		log:        log.With("handler", "StatusHandler"),
		db:         db,
		apiVersion: apiVersion,
	}
}

// Root serves the unauthenticated service banner.
func (sh *StatusHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "Legal Prejudice Risk API",
		"api_version": sh.apiVersion,
		"status":      "ok",
	})
}

// Status pings the database and reports health.
func (sh *StatusHandler) Status(c *gin.Context) {
	sqlDB, err := sh.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		sh.log.Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
