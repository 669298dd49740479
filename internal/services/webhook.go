package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/prejudice-risk-backend/internal/apperr"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/repos"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

// WebhookView is a webhook without its secret hash.
type WebhookView struct {
	WebhookID   string    `json:"webhook_id"`
	TargetURL   string    `json:"target_url"`
	Events      []string  `json:"events"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WebhookDetail adds delivery statistics to the single-webhook view.
type WebhookDetail struct {
	WebhookView
	DeliverySuccessRate    float64    `json:"delivery_success_rate"`
	TotalDeliveries        int64      `json:"total_deliveries"`
	SuccessfulDeliveries   int64      `json:"successful_deliveries"`
	LastSuccessfulDelivery *time.Time `json:"last_successful_delivery"`
}

type WebhookDeleted struct {
	WebhookID string    `json:"webhook_id"`
	Deleted   bool      `json:"deleted"`
	DeletedAt time.Time `json:"deleted_at"`
}

type DeliveryPage struct {
	WebhookID  string                   `json:"webhook_id"`
	Deliveries []*types.WebhookDelivery `json:"deliveries"`
	Page       int                      `json:"page"`
	PerPage    int                      `json:"per_page"`
	Total      int64                    `json:"total"`
	Pages      int64                    `json:"pages"`
}

type WebhookService interface {
	Register(ctx context.Context, input WebhookInput) (*WebhookView, error)
	List(ctx context.Context) ([]WebhookView, error)
	Get(ctx context.Context, webhookID string) (*WebhookDetail, error)
	Update(ctx context.Context, webhookID string, input WebhookInput) (*WebhookView, error)
	Delete(ctx context.Context, webhookID string) (*WebhookDeleted, error)
	ListDeliveries(ctx context.Context, webhookID string, filter repos.DeliveryFilter) (*DeliveryPage, error)
}

type webhookService struct {
	log        *logger.Logger
	webhooks   repos.WebhookRepo
	deliveries repos.WebhookDeliveryRepo
}

func NewWebhookService(log *logger.Logger, webhooks repos.WebhookRepo, deliveries repos.WebhookDeliveryRepo) WebhookService {
	return &webhookService{
		log:        log.With("service", "WebhookService"),
		webhooks:   webhooks,
		deliveries: deliveries,
	}
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func (s *webhookService) Register(ctx context.Context, input WebhookInput) (*WebhookView, error) {
	if errs := validateWebhookInput(input); errs.HasErrors() {
		return nil, errs
	}

	events, err := json.Marshal(input.Events)
	if err != nil {
		return nil, err
	}

	webhook := &types.Webhook{
		WebhookID:   shortID("wh"),
		TargetURL:   *input.TargetURL,
		Events:      datatypes.JSON(events),
		SecretHash:  hashSecret(*input.Secret),
		Active:      true,
		ContentType: types.ContentTypeJSON,
	}
	if input.Description != nil {
		webhook.Description = *input.Description
	}
	if input.Active != nil {
		webhook.Active = *input.Active
	}
	if input.ContentType != nil {
		webhook.ContentType = *input.ContentType
	}

	if err := s.webhooks.Create(ctx, nil, webhook); err != nil {
		s.log.Error("Failed to register webhook", "error", err)
		return nil, err
	}
	s.log.Info("Webhook registered", "webhook_id", webhook.WebhookID, "target_url", webhook.TargetURL)

	return newWebhookView(webhook)
}

func (s *webhookService) List(ctx context.Context) ([]WebhookView, error) {
	webhooks, err := s.webhooks.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	views := make([]WebhookView, 0, len(webhooks))
	for _, hook := range webhooks {
		view, err := newWebhookView(hook)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *webhookService) Get(ctx context.Context, webhookID string) (*WebhookDetail, error) {
	webhook, err := s.webhooks.GetByWebhookID(ctx, nil, webhookID)
	if err != nil {
		return nil, err
	}
	view, err := newWebhookView(webhook)
	if err != nil {
		return nil, err
	}

	stats, err := s.deliveries.Stats(ctx, nil, webhook.ID)
	if err != nil {
		return nil, err
	}
	detail := &WebhookDetail{
		WebhookView:          *view,
		TotalDeliveries:      stats.Total,
		SuccessfulDeliveries: stats.Delivered,
	}
	if stats.Total > 0 {
		detail.DeliverySuccessRate = float64(stats.Delivered) / float64(stats.Total)
	}
	if stats.LastDelivered != nil {
		detail.LastSuccessfulDelivery = stats.LastDelivered.DeliveredAt
	}
	return detail, nil
}

func (s *webhookService) Update(ctx context.Context, webhookID string, input WebhookInput) (*WebhookView, error) {
	webhook, err := s.webhooks.GetByWebhookID(ctx, nil, webhookID)
	if err != nil {
		return nil, err
	}

	changed := false
	if input.TargetURL != nil {
		webhook.TargetURL = *input.TargetURL
		changed = true
	}
	if input.Events != nil {
		if invalid := invalidEvents(input.Events); len(invalid) > 0 || len(input.Events) == 0 {
			return nil, apperr.Invalid("Events must be a non-empty array of valid event types")
		}
		events, err := json.Marshal(input.Events)
		if err != nil {
			return nil, err
		}
		webhook.Events = datatypes.JSON(events)
		changed = true
	}
	if input.Description != nil {
		webhook.Description = *input.Description
		changed = true
	}
	if input.Active != nil {
		webhook.Active = *input.Active
		changed = true
	}
	if input.ContentType != nil {
		if *input.ContentType != types.ContentTypeJSON && *input.ContentType != types.ContentTypeForm {
			return nil, apperr.Invalid("content_type must be one of: " + types.ContentTypeJSON + ", " + types.ContentTypeForm)
		}
		webhook.ContentType = *input.ContentType
		changed = true
	}
	if input.Secret != nil {
		if len(*input.Secret) < 16 || len(*input.Secret) > 100 {
			return nil, apperr.Invalid("secret must be between 16 and 100 characters")
		}
		webhook.SecretHash = hashSecret(*input.Secret)
		changed = true
	}

	if changed {
		webhook.UpdatedAt = time.Now().UTC()
		if err := s.webhooks.Save(ctx, nil, webhook); err != nil {
			s.log.Error("Failed to update webhook", "webhook_id", webhookID, "error", err)
			return nil, err
		}
	}
	return newWebhookView(webhook)
}

func (s *webhookService) Delete(ctx context.Context, webhookID string) (*WebhookDeleted, error) {
	webhook, err := s.webhooks.GetByWebhookID(ctx, nil, webhookID)
	if err != nil {
		return nil, err
	}
	if err := s.webhooks.Delete(ctx, nil, webhook); err != nil {
		s.log.Error("Failed to delete webhook", "webhook_id", webhookID, "error", err)
		return nil, err
	}
	return &WebhookDeleted{
		WebhookID: webhookID,
		Deleted:   true,
		DeletedAt: time.Now().UTC(),
	}, nil
}

func (s *webhookService) ListDeliveries(ctx context.Context, webhookID string, filter repos.DeliveryFilter) (*DeliveryPage, error) {
	webhook, err := s.webhooks.GetByWebhookID(ctx, nil, webhookID)
	if err != nil {
		return nil, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	deliveries, total, err := s.deliveries.ListByWebhook(ctx, nil, webhook.ID, filter)
	if err != nil {
		return nil, err
	}

	perPage := int64(filter.PerPage)
	return &DeliveryPage{
		WebhookID:  webhookID,
		Deliveries: deliveries,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		Total:      total,
		Pages:      (total + perPage - 1) / perPage,
	}, nil
}

func newWebhookView(webhook *types.Webhook) (*WebhookView, error) {
	var events []string
	if err := json.Unmarshal(webhook.Events, &events); err != nil {
		return nil, err
	}
	return &WebhookView{
		WebhookID:   webhook.WebhookID,
		TargetURL:   webhook.TargetURL,
		Events:      events,
		Description: webhook.Description,
		Active:      webhook.Active,
		ContentType: webhook.ContentType,
		CreatedAt:   webhook.CreatedAt,
		UpdatedAt:   webhook.UpdatedAt,
	}, nil
}
