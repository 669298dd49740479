package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CMSLink associates an assessment with a case in an external case management
// system. At most one link exists per (assessment, cms_type); re-linking the
// same system updates the row in place.
type CMSLink struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	AssessmentID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uix_link_assessment_cms;column:assessment_id" json:"-"`
	CMSType      string    `gorm:"not null;uniqueIndex:uix_link_assessment_cms;column:cms_type" json:"cms_type"`
	CMSCaseID    string    `gorm:"not null;column:cms_case_id" json:"cms_case_id"`
	CMSMatterID  string    `gorm:"column:cms_matter_id" json:"cms_matter_id"`
	SyncData     bool      `gorm:"not null;default:false;column:sync_data" json:"sync_data"`
	LinkedAt     time.Time `gorm:"not null;column:linked_at" json:"linked_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (CMSLink) TableName() string {
	return "cms_links"
}

func (cl *CMSLink) BeforeCreate(tx *gorm.DB) error {
	if cl.ID == uuid.Nil {
		cl.ID = uuid.New()
	}
	return nil
}
