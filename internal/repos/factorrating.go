package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

type FactorRatingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rating *types.FactorRating) error
	Save(ctx context.Context, tx *gorm.DB, rating *types.FactorRating) error
	GetByAssessment(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.FactorRating, error)
	GetByAssessmentAndFactor(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID, factorID string) (*types.FactorRating, error)
}

type factorRatingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFactorRatingRepo(db *gorm.DB, baseLog *logger.Logger) FactorRatingRepo {
	repoLog := baseLog.With("repo", "FactorRatingRepo")
	return &factorRatingRepo{db: db, log: repoLog}
}

func (frr *factorRatingRepo) Create(ctx context.Context, tx *gorm.DB, rating *types.FactorRating) error {
	transaction := tx
	if transaction == nil {
		transaction = frr.db
	}
	return transaction.WithContext(ctx).Create(rating).Error
}

func (frr *factorRatingRepo) Save(ctx context.Context, tx *gorm.DB, rating *types.FactorRating) error {
	transaction := tx
	if transaction == nil {
		transaction = frr.db
	}
	return transaction.WithContext(ctx).Save(rating).Error
}

func (frr *factorRatingRepo) GetByAssessment(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.FactorRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = frr.db
	}

	var results []*types.FactorRating
	err := transaction.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (frr *factorRatingRepo) GetByAssessmentAndFactor(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID, factorID string) (*types.FactorRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = frr.db
	}

	var result types.FactorRating
	err := transaction.WithContext(ctx).
		Where("assessment_id = ? AND factor_id = ?", assessmentID, factorID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
