package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/prejudice-risk-backend/internal/handlers"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
)

type Handlers struct {
	Status     *handlers.StatusHandler
	Assessment *handlers.AssessmentHandler
	Factor     *handlers.FactorHandler
	Result     *handlers.ResultHandler
	CMS        *handlers.CMSHandler
	Webhook    *handlers.WebhookHandler
	Auth       *handlers.AuthHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, cfg Config, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Status:     handlers.NewStatusHandler(log, db, cfg.APIVersion),
		Assessment: handlers.NewAssessmentHandler(log, serviceset.Assessment),
		Factor:     handlers.NewFactorHandler(log, serviceset.Factor),
		Result:     handlers.NewResultHandler(log, serviceset.Result),
		CMS:        handlers.NewCMSHandler(log, serviceset.CMS),
		Webhook:    handlers.NewWebhookHandler(log, serviceset.Webhook, serviceset.Event),
		Auth:       handlers.NewAuthHandler(log, serviceset.Auth),
	}
}
