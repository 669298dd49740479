package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Factor categories.
const (
	CategoryRelationship = "relationship"
	CategoryConduct      = "conduct"
	CategoryContextual   = "contextual"
)

// FactorDefinition is a catalog entry. Rows are seeded from the built-in
// catalog at startup and never mutated by requests.
type FactorDefinition struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	FactorID    string    `gorm:"uniqueIndex;not null;column:factor_id" json:"id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	Category    string    `gorm:"not null;column:category" json:"category"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	Guidance    string    `gorm:"type:text;column:guidance" json:"guidance"`
	CreatedAt   time.Time `gorm:"not null" json:"-"`
	UpdatedAt   time.Time `gorm:"not null" json:"-"`
}

func (FactorDefinition) TableName() string {
	return "factor_definitions"
}

func (fd *FactorDefinition) BeforeCreate(tx *gorm.DB) error {
	if fd.ID == uuid.Nil {
		fd.ID = uuid.New()
	}
	return nil
}
