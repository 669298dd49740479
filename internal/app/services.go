package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/observability"
	"github.com/yungbote/prejudice-risk-backend/internal/services"
)

type Services struct {
	Event      services.EventService
	Assessment services.AssessmentService
	Factor     services.FactorService
	Result     services.ResultService
	CMS        services.CMSService
	Webhook    services.WebhookService
	Auth       services.AuthService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	events := services.NewEventService(log, reposet.Webhook, reposet.WebhookDelivery, metrics, services.EventConfig{
		Enabled:         cfg.EnableWebhooks,
		APIVersion:      cfg.APIVersion,
		DeliveryTimeout: cfg.WebhookTimeout,
		RetryTiers:      cfg.RetryTiers,
	})

	return Services{
		Event:      events,
		Assessment: services.NewAssessmentService(log, db, reposet.Assessment, reposet.FactorRating, reposet.Result, events),
		Factor:     services.NewFactorService(log, db, reposet.Assessment, reposet.FactorRating, events),
		Result:     services.NewResultService(log, db, reposet.Assessment, reposet.FactorRating, reposet.Result, events),
		CMS:        services.NewCMSService(log, db, reposet.Assessment, reposet.CMSLink, events),
		Webhook:    services.NewWebhookService(log, reposet.Webhook, reposet.WebhookDelivery),
		Auth:       services.NewAuthService(log, reposet.APIKey),
	}
}
