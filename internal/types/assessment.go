package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assessment statuses move created -> in_progress -> calculated, with
// "updated" set whenever case metadata changes after creation.
const (
	AssessmentStatusCreated    = "created"
	AssessmentStatusInProgress = "in_progress"
	AssessmentStatusCalculated = "calculated"
	AssessmentStatusUpdated    = "updated"
)

type Assessment struct {
	ID                     uuid.UUID      `gorm:"type:uuid;primaryKey" json:"-"`
	AssessmentID           string         `gorm:"uniqueIndex;not null;column:assessment_id" json:"assessment_id"`
	CaseName               string         `gorm:"not null;column:case_name" json:"case_name"`
	JudgeName              string         `gorm:"not null;column:judge_name" json:"judge_name"`
	AssessorName           string         `gorm:"not null;column:assessor_name" json:"assessor_name"`
	AssessmentDate         time.Time      `gorm:"not null;column:assessment_date" json:"assessment_date"`
	CaseID                 string         `gorm:"column:case_id" json:"case_id"`
	CaseManagementSystemID string         `gorm:"column:case_management_system_id" json:"case_management_system_id"`
	Status                 string         `gorm:"not null;default:created;column:status" json:"status"`
	CreatedAt              time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt              time.Time      `gorm:"not null" json:"updated_at"`
	Ratings                []FactorRating `gorm:"foreignKey:AssessmentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Results                []Result       `gorm:"foreignKey:AssessmentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	CMSLinks               []CMSLink      `gorm:"foreignKey:AssessmentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Assessment) TableName() string {
	return "assessments"
}

func (a *Assessment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// YearCounter backs per-year assessment ID sequencing. The current value is
// incremented inside the creating transaction so concurrent creates in the
// same year cannot mint the same sequence number.
type YearCounter struct {
	Year    int `gorm:"primaryKey;column:year"`
	Current int `gorm:"not null;default:0;column:current"`
}

func (YearCounter) TableName() string {
	return "assessment_year_counters"
}
