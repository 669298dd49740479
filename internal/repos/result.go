package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

// ResultRepo only appends; result rows are never updated after insertion.
type ResultRepo interface {
	Create(ctx context.Context, tx *gorm.DB, result *types.Result) error
	GetByAssessment(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.Result, error)
	GetLatest(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (*types.Result, error)
}

type resultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResultRepo(db *gorm.DB, baseLog *logger.Logger) ResultRepo {
	repoLog := baseLog.With("repo", "ResultRepo")
	return &resultRepo{db: db, log: repoLog}
}

func (rr *resultRepo) Create(ctx context.Context, tx *gorm.DB, result *types.Result) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).Create(result).Error
}

func (rr *resultRepo) GetByAssessment(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.Result, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Result
	err := transaction.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("calculated_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *resultRepo) GetLatest(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (*types.Result, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result types.Result
	err := transaction.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("calculated_at DESC").
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
