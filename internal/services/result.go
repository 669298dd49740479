package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/prejudice-risk-backend/internal/apperr"
	"github.com/yungbote/prejudice-risk-backend/internal/catalog"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/repos"
	"github.com/yungbote/prejudice-risk-backend/internal/scoring"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

// ResultView is one calculation with its JSON columns decoded.
type ResultView struct {
	OverallScore    int                      `json:"overall_score"`
	RiskLevel       string                   `json:"risk_level"`
	CategoryScores  map[string]int           `json:"category_scores"`
	HighRiskFactors []scoring.HighRiskFactor `json:"high_risk_factors"`
	Recommendations []string                 `json:"recommendations"`
	CalculatedAt    time.Time                `json:"calculated_at"`
}

type CalculationResult struct {
	AssessmentID string `json:"assessment_id"`
	ResultView
}

type ResultList struct {
	AssessmentID string       `json:"assessment_id"`
	Results      []ResultView `json:"results"`
}

// Export bundles an assessment, its latest result and all ratings.
type Export struct {
	Assessment *types.Assessment `json:"assessment"`
	Result     *ResultView       `json:"result"`
	Factors    []FactorView      `json:"factors"`
	ExportDate time.Time         `json:"export_date"`
}

type ResultService interface {
	Calculate(ctx context.Context, assessmentID string) (*CalculationResult, error)
	ListResults(ctx context.Context, assessmentID string) (*ResultList, error)
	LatestResult(ctx context.Context, assessmentID string) (*ResultView, error)
	ExportLatest(ctx context.Context, assessmentID string) (*Export, error)
}

type resultService struct {
	log         *logger.Logger
	db          *gorm.DB
	assessments repos.AssessmentRepo
	ratings     repos.FactorRatingRepo
	results     repos.ResultRepo
	events      EventService
}

func NewResultService(log *logger.Logger, db *gorm.DB, assessments repos.AssessmentRepo, ratings repos.FactorRatingRepo, results repos.ResultRepo, events EventService) ResultService {
	return &resultService{
		log:         log.With("service", "ResultService"),
		db:          db,
		assessments: assessments,
		ratings:     ratings,
		results:     results,
		events:      events,
	}
}

func (s *resultService) Calculate(ctx context.Context, assessmentID string) (*CalculationResult, error) {
	assessment, err := s.assessments.GetByAssessmentID(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratings.GetByAssessment(ctx, nil, assessment.ID)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, apperr.ErrNoRatings
	}

	rated := make([]scoring.RatedFactor, 0, len(ratings))
	for _, r := range ratings {
		name := r.FactorID
		if def, ok := catalog.Find(r.FactorID); ok {
			name = def.Name
		}
		rated = append(rated, scoring.RatedFactor{
			ID:         r.FactorID,
			Name:       name,
			Category:   r.Category,
			Likelihood: r.Likelihood,
			Impact:     r.Impact,
		})
	}

	summary := scoring.Calculate(rated)
	if summary.RatedCount == 0 {
		return nil, apperr.ErrNoRatings
	}
	now := time.Now().UTC()

	previous, err := s.results.GetLatest(ctx, nil, assessment.ID)
	if err != nil {
		return nil, err
	}

	categoryScores, err := json.Marshal(summary.CategoryScores)
	if err != nil {
		return nil, err
	}
	highRisk, err := json.Marshal(summary.HighRiskFactors)
	if err != nil {
		return nil, err
	}
	recommendations, err := json.Marshal(summary.Recommendations)
	if err != nil {
		return nil, err
	}

	result := &types.Result{
		AssessmentID:    assessment.ID,
		OverallScore:    summary.OverallScore,
		RiskLevel:       summary.RiskLevel,
		CategoryScores:  datatypes.JSON(categoryScores),
		HighRiskFactors: datatypes.JSON(highRisk),
		Recommendations: datatypes.JSON(recommendations),
		CalculatedAt:    now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.results.Create(ctx, tx, result); err != nil {
			return err
		}
		return s.assessments.Touch(ctx, tx, assessment, types.AssessmentStatusCalculated, now)
	})
	if err != nil {
		s.log.Error("Failed to persist calculation", "assessment_id", assessmentID, "error", err)
		return nil, err
	}

	s.log.Info("Risk calculated",
		"assessment_id", assessmentID,
		"overall_score", summary.OverallScore,
		"risk_level", summary.RiskLevel)

	eventData := map[string]interface{}{
		"assessment_id":     assessmentID,
		"overall_score":     summary.OverallScore,
		"risk_level":        summary.RiskLevel,
		"category_scores":   summary.CategoryScores,
		"high_risk_factors": summary.HighRiskFactors,
		"recommendations":   summary.Recommendations,
		"calculated_at":     now.Format(time.RFC3339Nano),
	}
	s.events.Trigger(types.EventResultCalculated, eventData)

	if previous != nil && previous.RiskLevel != summary.RiskLevel {
		s.events.Trigger(types.EventRiskLevelChanged, map[string]interface{}{
			"assessment_id":  assessmentID,
			"previous_level": previous.RiskLevel,
			"new_level":      summary.RiskLevel,
			"previous_score": previous.OverallScore,
			"new_score":      summary.OverallScore,
			"changed_at":     now.Format(time.RFC3339Nano),
		})
	}

	return &CalculationResult{
		AssessmentID: assessmentID,
		ResultView: ResultView{
			OverallScore:    summary.OverallScore,
			RiskLevel:       summary.RiskLevel,
			CategoryScores:  summary.CategoryScores,
			HighRiskFactors: summary.HighRiskFactors,
			Recommendations: summary.Recommendations,
			CalculatedAt:    now,
		},
	}, nil
}

func (s *resultService) ListResults(ctx context.Context, assessmentID string) (*ResultList, error) {
	assessment, err := s.assessments.GetByAssessmentID(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}
	rows, err := s.results.GetByAssessment(ctx, nil, assessment.ID)
	if err != nil {
		return nil, err
	}

	views := make([]ResultView, 0, len(rows))
	for _, row := range rows {
		view, err := newResultView(row)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return &ResultList{AssessmentID: assessmentID, Results: views}, nil
}

func (s *resultService) LatestResult(ctx context.Context, assessmentID string) (*ResultView, error) {
	assessment, err := s.assessments.GetByAssessmentID(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}
	latest, err := s.results.GetLatest(ctx, nil, assessment.ID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, apperr.ErrNotFound
	}
	return newResultView(latest)
}

func (s *resultService) ExportLatest(ctx context.Context, assessmentID string) (*Export, error) {
	assessment, err := s.assessments.GetByAssessmentID(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}
	latest, err := s.results.GetLatest(ctx, nil, assessment.ID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, apperr.ErrNotFound
	}
	view, err := newResultView(latest)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratings.GetByAssessment(ctx, nil, assessment.ID)
	if err != nil {
		return nil, err
	}

	return &Export{
		Assessment: assessment,
		Result:     view,
		Factors:    factorViews(ratings),
		ExportDate: time.Now().UTC(),
	}, nil
}

func newResultView(result *types.Result) (*ResultView, error) {
	view := &ResultView{
		OverallScore: result.OverallScore,
		RiskLevel:    result.RiskLevel,
		CalculatedAt: result.CalculatedAt,
	}
	if err := json.Unmarshal(result.CategoryScores, &view.CategoryScores); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(result.HighRiskFactors, &view.HighRiskFactors); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(result.Recommendations, &view.Recommendations); err != nil {
		return nil, err
	}
	return view, nil
}
