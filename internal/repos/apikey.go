package repos

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/prejudice-risk-backend/internal/apperr"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

type APIKeyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, key *types.APIKey) error
	Save(ctx context.Context, tx *gorm.DB, key *types.APIKey) error
	GetByHash(ctx context.Context, tx *gorm.DB, keyHash string) (*types.APIKey, error)
	GetByKeyID(ctx context.Context, tx *gorm.DB, keyID string) (*types.APIKey, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.APIKey, error)
	Delete(ctx context.Context, tx *gorm.DB, key *types.APIKey) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	TouchLastUsed(ctx context.Context, tx *gorm.DB, key *types.APIKey, at time.Time) error
}

type apiKeyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAPIKeyRepo(db *gorm.DB, baseLog *logger.Logger) APIKeyRepo {
	repoLog := baseLog.With("repo", "APIKeyRepo")
	return &apiKeyRepo{db: db, log: repoLog}
}

func (akr *apiKeyRepo) Create(ctx context.Context, tx *gorm.DB, key *types.APIKey) error {
	transaction := tx
	if transaction == nil {
		transaction = akr.db
	}
	return transaction.WithContext(ctx).Create(key).Error
}

func (akr *apiKeyRepo) Save(ctx context.Context, tx *gorm.DB, key *types.APIKey) error {
	transaction := tx
	if transaction == nil {
		transaction = akr.db
	}
	return transaction.WithContext(ctx).Save(key).Error
}

func (akr *apiKeyRepo) GetByHash(ctx context.Context, tx *gorm.DB, keyHash string) (*types.APIKey, error) {
	transaction := tx
	if transaction == nil {
		transaction = akr.db
	}

	var result types.APIKey
	err := transaction.WithContext(ctx).
		Where("key_hash = ?", keyHash).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (akr *apiKeyRepo) GetByKeyID(ctx context.Context, tx *gorm.DB, keyID string) (*types.APIKey, error) {
	transaction := tx
	if transaction == nil {
		transaction = akr.db
	}

	var result types.APIKey
	err := transaction.WithContext(ctx).
		Where("key_id = ?", keyID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (akr *apiKeyRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.APIKey, error) {
	transaction := tx
	if transaction == nil {
		transaction = akr.db
	}

	var results []*types.APIKey
	err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (akr *apiKeyRepo) Delete(ctx context.Context, tx *gorm.DB, key *types.APIKey) error {
	transaction := tx
	if transaction == nil {
		transaction = akr.db
	}
	return transaction.WithContext(ctx).Delete(key).Error
}

func (akr *apiKeyRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = akr.db
	}

	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.APIKey{}).
		Count(&count).Error
	return count, err
}

func (akr *apiKeyRepo) TouchLastUsed(ctx context.Context, tx *gorm.DB, key *types.APIKey, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = akr.db
	}
	key.LastUsedAt = &at
	return transaction.WithContext(ctx).
		Model(key).
		UpdateColumn("last_used_at", at).Error
}
