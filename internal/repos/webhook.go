package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/prejudice-risk-backend/internal/apperr"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

type WebhookRepo interface {
	Create(ctx context.Context, tx *gorm.DB, webhook *types.Webhook) error
	Save(ctx context.Context, tx *gorm.DB, webhook *types.Webhook) error
	GetByWebhookID(ctx context.Context, tx *gorm.DB, webhookID string) (*types.Webhook, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Webhook, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Webhook, error)
	Delete(ctx context.Context, tx *gorm.DB, webhook *types.Webhook) error
}

type webhookRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWebhookRepo(db *gorm.DB, baseLog *logger.Logger) WebhookRepo {
	repoLog := baseLog.With("repo", "WebhookRepo")
	return &webhookRepo{db: db, log: repoLog}
}

func (wr *webhookRepo) Create(ctx context.Context, tx *gorm.DB, webhook *types.Webhook) error {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	return transaction.WithContext(ctx).Create(webhook).Error
}

func (wr *webhookRepo) Save(ctx context.Context, tx *gorm.DB, webhook *types.Webhook) error {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	return transaction.WithContext(ctx).Save(webhook).Error
}

func (wr *webhookRepo) GetByWebhookID(ctx context.Context, tx *gorm.DB, webhookID string) (*types.Webhook, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	var result types.Webhook
	err := transaction.WithContext(ctx).
		Where("webhook_id = ?", webhookID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (wr *webhookRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Webhook, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	var results []*types.Webhook
	err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (wr *webhookRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Webhook, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	var results []*types.Webhook
	err := transaction.WithContext(ctx).
		Where("active = ?", true).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (wr *webhookRepo) Delete(ctx context.Context, tx *gorm.DB, webhook *types.Webhook) error {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	return transaction.WithContext(ctx).
		Select("Deliveries").
		Delete(webhook).Error
}
