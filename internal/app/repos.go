package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/repos"
)

type Repos struct {
	Assessment      repos.AssessmentRepo
	FactorRating    repos.FactorRatingRepo
	Result          repos.ResultRepo
	CMSLink         repos.CMSLinkRepo
	APIKey          repos.APIKeyRepo
	Webhook         repos.WebhookRepo
	WebhookDelivery repos.WebhookDeliveryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Assessment:      repos.NewAssessmentRepo(db, log),
		FactorRating:    repos.NewFactorRatingRepo(db, log),
		Result:          repos.NewResultRepo(db, log),
		CMSLink:         repos.NewCMSLinkRepo(db, log),
		APIKey:          repos.NewAPIKeyRepo(db, log),
		Webhook:         repos.NewWebhookRepo(db, log),
		WebhookDelivery: repos.NewWebhookDeliveryRepo(db, log),
	}
}
