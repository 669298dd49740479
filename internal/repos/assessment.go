package repos

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/prejudice-risk-backend/internal/apperr"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

// AssessmentFilter narrows List. Name filters are case-insensitive substring
// matches; Status is an exact match.
type AssessmentFilter struct {
	CaseName  string
	JudgeName string
	Status    string
	Page      int
	PerPage   int
}

type AssessmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) error
	GetByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID string) (*types.Assessment, error)
	Save(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) error
	Delete(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) error
	List(ctx context.Context, tx *gorm.DB, filter AssessmentFilter) ([]*types.Assessment, int64, error)
	NextSequence(ctx context.Context, tx *gorm.DB, year int) (int, error)
	Touch(ctx context.Context, tx *gorm.DB, assessment *types.Assessment, status string, at time.Time) error
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	repoLog := baseLog.With("repo", "AssessmentRepo")
	return &assessmentRepo{db: db, log: repoLog}
}

func (ar *assessmentRepo) Create(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Create(assessment).Error
}

func (ar *assessmentRepo) GetByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID string) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var result types.Assessment
	err := transaction.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (ar *assessmentRepo) Save(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Save(assessment).Error
}

func (ar *assessmentRepo) Delete(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Select("Ratings", "Results", "CMSLinks").
		Delete(assessment).Error
}

func (ar *assessmentRepo) List(ctx context.Context, tx *gorm.DB, filter AssessmentFilter) ([]*types.Assessment, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	query := transaction.WithContext(ctx).Model(&types.Assessment{})
	if filter.CaseName != "" {
		query = query.Where("LOWER(case_name) LIKE ?", "%"+strings.ToLower(filter.CaseName)+"%")
	}
	if filter.JudgeName != "" {
		query = query.Where("LOWER(judge_name) LIKE ?", "%"+strings.ToLower(filter.JudgeName)+"%")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Assessment
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

// NextSequence increments and returns the per-year counter. Run inside the
// creating transaction so two concurrent creations in the same year cannot
// observe the same value.
func (ar *assessmentRepo) NextSequence(ctx context.Context, tx *gorm.DB, year int) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var counter types.YearCounter
	if err := transaction.WithContext(ctx).
		Where(types.YearCounter{Year: year}).
		FirstOrCreate(&counter).Error; err != nil {
		return 0, err
	}
	if err := transaction.WithContext(ctx).
		Model(&types.YearCounter{}).
		Where("year = ?", year).
		UpdateColumn("current", gorm.Expr("current + 1")).Error; err != nil {
		return 0, err
	}
	if err := transaction.WithContext(ctx).
		Where("year = ?", year).
		First(&counter).Error; err != nil {
		return 0, err
	}
	return counter.Current, nil
}

func (ar *assessmentRepo) Touch(ctx context.Context, tx *gorm.DB, assessment *types.Assessment, status string, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	assessment.Status = status
	assessment.UpdatedAt = at
	return transaction.WithContext(ctx).
		Model(assessment).
		Updates(map[string]interface{}{"status": status, "updated_at": at}).Error
}
