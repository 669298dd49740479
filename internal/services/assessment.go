package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/prejudice-risk-backend/internal/apperr"
	"github.com/yungbote/prejudice-risk-backend/internal/catalog"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/repos"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

// AssessmentCreated is the create response. The access token is minted per
// request and never stored.
type AssessmentCreated struct {
	AssessmentID string    `json:"assessment_id"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	AccessToken  string    `json:"access_token"`
}

type AssessmentUpdated struct {
	AssessmentID string    `json:"assessment_id"`
	Status       string    `json:"status"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AssessmentDeleted struct {
	Status    string    `json:"status"`
	DeletedAt time.Time `json:"deleted_at"`
}

// FactorView is a rating joined with its catalog definition.
type FactorView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Likelihood *int      `json:"likelihood"`
	Impact     *int      `json:"impact"`
	Score      *int      `json:"score"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AssessmentView is the full single-assessment response: the row plus its
// ratings and, when present, the latest result.
type AssessmentView struct {
	types.Assessment
	Factors []FactorView `json:"factors,omitempty"`
	Result  *ResultView  `json:"results,omitempty"`
}

type AssessmentPage struct {
	Assessments []*types.Assessment `json:"assessments"`
	Page        int                 `json:"page"`
	PerPage     int                 `json:"per_page"`
	Total       int64               `json:"total"`
	Pages       int64               `json:"pages"`
}

type AssessmentService interface {
	Create(ctx context.Context, input AssessmentInput) (*AssessmentCreated, error)
	Get(ctx context.Context, assessmentID string) (*AssessmentView, error)
	Update(ctx context.Context, assessmentID string, input AssessmentInput) (*AssessmentUpdated, error)
	Delete(ctx context.Context, assessmentID string) (*AssessmentDeleted, error)
	List(ctx context.Context, filter repos.AssessmentFilter) (*AssessmentPage, error)
}

type assessmentService struct {
	log         *logger.Logger
	db          *gorm.DB
	assessments repos.AssessmentRepo
	ratings     repos.FactorRatingRepo
	results     repos.ResultRepo
	events      EventService
}

func NewAssessmentService(log *logger.Logger, db *gorm.DB, assessments repos.AssessmentRepo, ratings repos.FactorRatingRepo, results repos.ResultRepo, events EventService) AssessmentService {
	return &assessmentService{
		log:         log.With("service", "AssessmentService"),
		db:          db,
		assessments: assessments,
		ratings:     ratings,
		results:     results,
		events:      events,
	}
}

func (s *assessmentService) Create(ctx context.Context, input AssessmentInput) (*AssessmentCreated, error) {
	if errs := validateAssessmentInput(input, true); errs.HasErrors() {
		return nil, errs
	}

	now := time.Now().UTC()
	assessmentDate := now
	if input.AssessmentDate != nil {
		parsed, err := time.Parse(dateLayout, *input.AssessmentDate)
		if err != nil {
			return nil, apperr.FieldErrors{"assessment_date": "assessment_date must be in YYYY-MM-DD format"}
		}
		assessmentDate = parsed
	}

	assessment := &types.Assessment{
		CaseName:       *input.CaseName,
		JudgeName:      *input.JudgeName,
		AssessorName:   *input.AssessorName,
		AssessmentDate: assessmentDate,
		Status:         types.AssessmentStatusCreated,
	}
	if input.CaseID != nil {
		assessment.CaseID = *input.CaseID
	}
	if input.CaseManagementSystemID != nil {
		assessment.CaseManagementSystemID = *input.CaseManagementSystemID
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := s.assessments.NextSequence(ctx, tx, now.Year())
		if err != nil {
			return err
		}
		assessment.AssessmentID = fmt.Sprintf("PRF-%d-%04d", now.Year(), seq)
		return s.assessments.Create(ctx, tx, assessment)
	})
	if err != nil {
		s.log.Error("Failed to create assessment", "error", err)
		return nil, err
	}

	s.log.Info("Assessment created", "assessment_id", assessment.AssessmentID)
	s.events.Trigger(types.EventAssessmentCreated, assessmentEventData(assessment))

	return &AssessmentCreated{
		AssessmentID: assessment.AssessmentID,
		Status:       assessment.Status,
		CreatedAt:    assessment.CreatedAt,
		AccessToken:  uuid.New().String(),
	}, nil
}

func (s *assessmentService) Get(ctx context.Context, assessmentID string) (*AssessmentView, error) {
	assessment, err := s.assessments.GetByAssessmentID(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}

	view := &AssessmentView{Assessment: *assessment}

	ratings, err := s.ratings.GetByAssessment(ctx, nil, assessment.ID)
	if err != nil {
		return nil, err
	}
	view.Factors = factorViews(ratings)

	latest, err := s.results.GetLatest(ctx, nil, assessment.ID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		resultView, err := newResultView(latest)
		if err != nil {
			return nil, err
		}
		view.Result = resultView
	}
	return view, nil
}

func (s *assessmentService) Update(ctx context.Context, assessmentID string, input AssessmentInput) (*AssessmentUpdated, error) {
	if errs := validateAssessmentInput(input, false); errs.HasErrors() {
		return nil, errs
	}

	assessment, err := s.assessments.GetByAssessmentID(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	changed := false
	if input.CaseName != nil {
		assessment.CaseName = *input.CaseName
		changed = true
	}
	if input.JudgeName != nil {
		assessment.JudgeName = *input.JudgeName
		changed = true
	}
	if input.AssessorName != nil {
		assessment.AssessorName = *input.AssessorName
		changed = true
	}
	if input.CaseID != nil {
		assessment.CaseID = *input.CaseID
		changed = true
	}
	if input.CaseManagementSystemID != nil {
		assessment.CaseManagementSystemID = *input.CaseManagementSystemID
		changed = true
	}
	if input.AssessmentDate != nil {
		parsed, err := time.Parse(dateLayout, *input.AssessmentDate)
		if err != nil {
			return nil, apperr.FieldErrors{"assessment_date": "assessment_date must be in YYYY-MM-DD format"}
		}
		assessment.AssessmentDate = parsed
		changed = true
	}

	if !changed {
		return &AssessmentUpdated{
			AssessmentID: assessmentID,
			Status:       assessment.Status,
			UpdatedAt:    assessment.UpdatedAt,
		}, nil
	}

	assessment.Status = types.AssessmentStatusUpdated
	assessment.UpdatedAt = now
	if err := s.assessments.Save(ctx, nil, assessment); err != nil {
		s.log.Error("Failed to update assessment", "assessment_id", assessmentID, "error", err)
		return nil, err
	}
	s.events.Trigger(types.EventAssessmentUpdated, assessmentEventData(assessment))

	return &AssessmentUpdated{
		AssessmentID: assessmentID,
		Status:       types.AssessmentStatusUpdated,
		UpdatedAt:    now,
	}, nil
}

func (s *assessmentService) Delete(ctx context.Context, assessmentID string) (*AssessmentDeleted, error) {
	assessment, err := s.assessments.GetByAssessmentID(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	s.events.Trigger(types.EventAssessmentDeleted, map[string]interface{}{
		"assessment_id": assessmentID,
		"deleted_at":    now.Format(time.RFC3339Nano),
	})

	if err := s.assessments.Delete(ctx, nil, assessment); err != nil {
		s.log.Error("Failed to delete assessment", "assessment_id", assessmentID, "error", err)
		return nil, err
	}
	s.log.Info("Assessment deleted", "assessment_id", assessmentID)

	return &AssessmentDeleted{Status: "deleted", DeletedAt: now}, nil
}

func (s *assessmentService) List(ctx context.Context, filter repos.AssessmentFilter) (*AssessmentPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	assessments, total, err := s.assessments.List(ctx, nil, filter)
	if err != nil {
		return nil, err
	}

	perPage := int64(filter.PerPage)
	return &AssessmentPage{
		Assessments: assessments,
		Page:        filter.Page,
		PerPage:     filter.PerPage,
		Total:       total,
		Pages:       (total + perPage - 1) / perPage,
	}, nil
}

func assessmentEventData(a *types.Assessment) map[string]interface{} {
	return map[string]interface{}{
		"assessment_id":             a.AssessmentID,
		"case_name":                 a.CaseName,
		"judge_name":                a.JudgeName,
		"assessor_name":             a.AssessorName,
		"assessment_date":           a.AssessmentDate.Format(dateLayout),
		"case_id":                   a.CaseID,
		"case_management_system_id": a.CaseManagementSystemID,
		"status":                    a.Status,
	}
}

func factorViews(ratings []*types.FactorRating) []FactorView {
	views := make([]FactorView, 0, len(ratings))
	for _, r := range ratings {
		name := r.FactorID
		if def, ok := catalog.Find(r.FactorID); ok {
			name = def.Name
		}
		views = append(views, FactorView{
			ID:         r.FactorID,
			Name:       name,
			Category:   r.Category,
			Likelihood: r.Likelihood,
			Impact:     r.Impact,
			Score:      r.Score(),
			Notes:      r.Notes,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
		})
	}
	return views
}
