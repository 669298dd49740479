package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

type CMSLinkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, link *types.CMSLink) error
	Save(ctx context.Context, tx *gorm.DB, link *types.CMSLink) error
	GetByAssessment(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.CMSLink, error)
	GetByAssessmentAndType(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID, cmsType string) (*types.CMSLink, error)
	Delete(ctx context.Context, tx *gorm.DB, link *types.CMSLink) error
}

type cmsLinkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCMSLinkRepo(db *gorm.DB, baseLog *logger.Logger) CMSLinkRepo {
	repoLog := baseLog.With("repo", "CMSLinkRepo")
	return &cmsLinkRepo{db: db, log: repoLog}
}

func (clr *cmsLinkRepo) Create(ctx context.Context, tx *gorm.DB, link *types.CMSLink) error {
	transaction := tx
	if transaction == nil {
		transaction = clr.db
	}
	return transaction.WithContext(ctx).Create(link).Error
}

func (clr *cmsLinkRepo) Save(ctx context.Context, tx *gorm.DB, link *types.CMSLink) error {
	transaction := tx
	if transaction == nil {
		transaction = clr.db
	}
	return transaction.WithContext(ctx).Save(link).Error
}

func (clr *cmsLinkRepo) GetByAssessment(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.CMSLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = clr.db
	}

	var results []*types.CMSLink
	err := transaction.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("linked_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (clr *cmsLinkRepo) GetByAssessmentAndType(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID, cmsType string) (*types.CMSLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = clr.db
	}

	var result types.CMSLink
	err := transaction.WithContext(ctx).
		Where("assessment_id = ? AND cms_type = ?", assessmentID, cmsType).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (clr *cmsLinkRepo) Delete(ctx context.Context, tx *gorm.DB, link *types.CMSLink) error {
	transaction := tx
	if transaction == nil {
		transaction = clr.db
	}
	return transaction.WithContext(ctx).Delete(link).Error
}
