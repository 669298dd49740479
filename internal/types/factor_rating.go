package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FactorRating holds one (likelihood, impact, notes) tuple for a factor within
// an assessment. Likelihood and impact stay nil until the assessor rates them.
type FactorRating struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	AssessmentID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uix_rating_assessment_factor;column:assessment_id" json:"-"`
	FactorID     string    `gorm:"not null;uniqueIndex:uix_rating_assessment_factor;column:factor_id" json:"id"`
	Category     string    `gorm:"not null;column:category" json:"category"`
	Likelihood   *int      `gorm:"column:likelihood" json:"likelihood"`
	Impact       *int      `gorm:"column:impact" json:"impact"`
	Notes        string    `gorm:"type:text;column:notes" json:"notes"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (FactorRating) TableName() string {
	return "factor_ratings"
}

func (fr *FactorRating) BeforeCreate(tx *gorm.DB) error {
	if fr.ID == uuid.Nil {
		fr.ID = uuid.New()
	}
	return nil
}

// Score is likelihood*impact, defined only when both halves are present.
func (fr *FactorRating) Score() *int {
	if fr.Likelihood == nil || fr.Impact == nil {
		return nil
	}
	s := *fr.Likelihood * *fr.Impact
	return &s
}
