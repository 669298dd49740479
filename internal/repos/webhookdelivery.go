package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

// DeliveryFilter narrows ListByWebhook.
type DeliveryFilter struct {
	Status  string
	Page    int
	PerPage int
}

// DeliveryStats aggregates a webhook's delivery history.
type DeliveryStats struct {
	Total         int64
	Delivered     int64
	LastDelivered *types.WebhookDelivery
}

type WebhookDeliveryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, delivery *types.WebhookDelivery) error
	Save(ctx context.Context, tx *gorm.DB, delivery *types.WebhookDelivery) error
	ListByWebhook(ctx context.Context, tx *gorm.DB, webhookID uuid.UUID, filter DeliveryFilter) ([]*types.WebhookDelivery, int64, error)
	Stats(ctx context.Context, tx *gorm.DB, webhookID uuid.UUID) (DeliveryStats, error)
}

type webhookDeliveryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWebhookDeliveryRepo(db *gorm.DB, baseLog *logger.Logger) WebhookDeliveryRepo {
	repoLog := baseLog.With("repo", "WebhookDeliveryRepo")
	return &webhookDeliveryRepo{db: db, log: repoLog}
}

func (wdr *webhookDeliveryRepo) Create(ctx context.Context, tx *gorm.DB, delivery *types.WebhookDelivery) error {
	transaction := tx
	if transaction == nil {
		transaction = wdr.db
	}
	return transaction.WithContext(ctx).Create(delivery).Error
}

func (wdr *webhookDeliveryRepo) Save(ctx context.Context, tx *gorm.DB, delivery *types.WebhookDelivery) error {
	transaction := tx
	if transaction == nil {
		transaction = wdr.db
	}
	return transaction.WithContext(ctx).Save(delivery).Error
}

func (wdr *webhookDeliveryRepo) ListByWebhook(ctx context.Context, tx *gorm.DB, webhookID uuid.UUID, filter DeliveryFilter) ([]*types.WebhookDelivery, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = wdr.db
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = 20
	}

	query := transaction.WithContext(ctx).
		Model(&types.WebhookDelivery{}).
		Where("webhook_id = ?", webhookID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.WebhookDelivery
	err := query.
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PerPage).
		Limit(filter.PerPage).
		Find(&results).Error
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (wdr *webhookDeliveryRepo) Stats(ctx context.Context, tx *gorm.DB, webhookID uuid.UUID) (DeliveryStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = wdr.db
	}

	var stats DeliveryStats
	if err := transaction.WithContext(ctx).
		Model(&types.WebhookDelivery{}).
		Where("webhook_id = ?", webhookID).
		Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := transaction.WithContext(ctx).
		Model(&types.WebhookDelivery{}).
		Where("webhook_id = ? AND status = ?", webhookID, types.DeliveryStatusDelivered).
		Count(&stats.Delivered).Error; err != nil {
		return stats, err
	}

	var last types.WebhookDelivery
	err := transaction.WithContext(ctx).
		Where("webhook_id = ? AND status = ?", webhookID, types.DeliveryStatusDelivered).
		Order("delivered_at DESC").
		First(&last).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return stats, err
		}
	} else {
		stats.LastDelivered = &last
	}
	return stats, nil
}
