package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/prejudice-risk-backend/internal/apperr"
	"github.com/yungbote/prejudice-risk-backend/internal/catalog"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/repos"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

type RatingsSubmitted struct {
	Status         string    `json:"status"`
	FactorsUpdated int       `json:"factors_updated"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type RatingUpdated struct {
	Status    string    `json:"status"`
	FactorID  string    `json:"factor_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RatingList struct {
	AssessmentID string       `json:"assessment_id"`
	Factors      []FactorView `json:"factors"`
}

// FactorService manages per-assessment factor ratings. Batch submission
// silently skips invalid items and unknown factor ids; the single-factor
// update rejects them instead.
type FactorService interface {
	SubmitRatings(ctx context.Context, assessmentID string, inputs []FactorInput) (*RatingsSubmitted, error)
	UpdateRating(ctx context.Context, assessmentID, factorID string, input FactorInput) (*RatingUpdated, error)
	ListRatings(ctx context.Context, assessmentID string) (*RatingList, error)
}

type factorService struct {
	log         *logger.Logger
	db          *gorm.DB
	assessments repos.AssessmentRepo
	ratings     repos.FactorRatingRepo
	events      EventService
}

func NewFactorService(log *logger.Logger, db *gorm.DB, assessments repos.AssessmentRepo, ratings repos.FactorRatingRepo, events EventService) FactorService {
	return &factorService{
		log:         log.With("service", "FactorService"),
		db:          db,
		assessments: assessments,
		ratings:     ratings,
		events:      events,
	}
}

func (s *factorService) SubmitRatings(ctx context.Context, assessmentID string, inputs []FactorInput) (*RatingsSubmitted, error) {
	assessment, err := s.assessments.GetByAssessmentID(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated := make([]map[string]interface{}, 0, len(inputs))

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, input := range inputs {
			if validateFactorInput(input, true).HasErrors() {
				continue
			}
			def, ok := catalog.Find(input.ID)
			if !ok {
				continue
			}
			rating, err := s.upsert(ctx, tx, assessment, def, input, now)
			if err != nil {
				return err
			}
			updated = append(updated, ratingEventData(def, rating))
		}
		if len(updated) > 0 {
			return s.assessments.Touch(ctx, tx, assessment, types.AssessmentStatusInProgress, now)
		}
		return nil
	})
	if err != nil {
		s.log.Error("Failed to submit factor ratings", "assessment_id", assessmentID, "error", err)
		return nil, err
	}

	if len(updated) > 0 {
		s.events.Trigger(types.EventFactorUpdated, map[string]interface{}{
			"assessment_id":   assessmentID,
			"factors_updated": updated,
			"updated_at":      now.Format(time.RFC3339Nano),
		})
	}

	return &RatingsSubmitted{
		Status:         "success",
		FactorsUpdated: len(updated),
		UpdatedAt:      now,
	}, nil
}

func (s *factorService) UpdateRating(ctx context.Context, assessmentID, factorID string, input FactorInput) (*RatingUpdated, error) {
	assessment, err := s.assessments.GetByAssessmentID(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}
	def, ok := catalog.Find(factorID)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if errs := validateFactorInput(input, false); errs.HasErrors() {
		return nil, errs
	}

	now := time.Now().UTC()
	var rating *types.FactorRating
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		input.ID = factorID
		rating, err = s.upsert(ctx, tx, assessment, def, input, now)
		if err != nil {
			return err
		}
		return s.assessments.Touch(ctx, tx, assessment, types.AssessmentStatusInProgress, now)
	})
	if err != nil {
		s.log.Error("Failed to update factor rating", "assessment_id", assessmentID, "factor_id", factorID, "error", err)
		return nil, err
	}

	s.events.Trigger(types.EventFactorUpdated, map[string]interface{}{
		"assessment_id":   assessmentID,
		"factors_updated": []map[string]interface{}{ratingEventData(def, rating)},
		"updated_at":      now.Format(time.RFC3339Nano),
	})

	return &RatingUpdated{Status: "updated", FactorID: factorID, UpdatedAt: now}, nil
}

func (s *factorService) ListRatings(ctx context.Context, assessmentID string) (*RatingList, error) {
	assessment, err := s.assessments.GetByAssessmentID(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratings.GetByAssessment(ctx, nil, assessment.ID)
	if err != nil {
		return nil, err
	}
	return &RatingList{
		AssessmentID: assessmentID,
		Factors:      factorViews(ratings),
	}, nil
}

func (s *factorService) upsert(ctx context.Context, tx *gorm.DB, assessment *types.Assessment, def catalog.Factor, input FactorInput, now time.Time) (*types.FactorRating, error) {
	rating, err := s.ratings.GetByAssessmentAndFactor(ctx, tx, assessment.ID, def.ID)
	if err != nil {
		return nil, err
	}
	if rating == nil {
		rating = &types.FactorRating{
			AssessmentID: assessment.ID,
			FactorID:     def.ID,
			Category:     def.Category,
		}
		if err := s.ratings.Create(ctx, tx, rating); err != nil {
			return nil, err
		}
	}

	if input.Likelihood != nil {
		rating.Likelihood = input.Likelihood
	}
	if input.Impact != nil {
		rating.Impact = input.Impact
	}
	if input.Notes != nil {
		rating.Notes = *input.Notes
	}
	rating.UpdatedAt = now
	if err := s.ratings.Save(ctx, tx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

func ratingEventData(def catalog.Factor, rating *types.FactorRating) map[string]interface{} {
	var score interface{}
	if s := rating.Score(); s != nil {
		score = *s
	}
	return map[string]interface{}{
		"id":         rating.FactorID,
		"name":       def.Name,
		"category":   rating.Category,
		"likelihood": rating.Likelihood,
		"impact":     rating.Impact,
		"score":      score,
	}
}
