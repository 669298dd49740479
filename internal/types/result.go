package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Risk levels derived from the overall score thresholds.
const (
	RiskLevelLow      = "Low"
	RiskLevelMedium   = "Medium"
	RiskLevelHigh     = "High"
	RiskLevelCritical = "Critical"
)

// Result is an immutable snapshot of one risk calculation. Rows are appended,
// never updated; the latest result is the one with the greatest calculated_at.
type Result struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"-"`
	AssessmentID    uuid.UUID      `gorm:"type:uuid;not null;index;column:assessment_id" json:"-"`
	OverallScore    int            `gorm:"not null;column:overall_score" json:"overall_score"`
	RiskLevel       string         `gorm:"not null;column:risk_level" json:"risk_level"`
	CategoryScores  datatypes.JSON `gorm:"not null;column:category_scores" json:"category_scores"`
	HighRiskFactors datatypes.JSON `gorm:"not null;column:high_risk_factors" json:"high_risk_factors"`
	Recommendations datatypes.JSON `gorm:"not null;column:recommendations" json:"recommendations"`
	CalculatedAt    time.Time      `gorm:"not null;index;column:calculated_at" json:"calculated_at"`
}

func (Result) TableName() string {
	return "results"
}

func (r *Result) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
