package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// APIKey stores only the SHA-256 hash of an issued key. The raw key is shown
// once at creation or rotation and is never persisted.
type APIKey struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"-"`
	KeyID       string     `gorm:"uniqueIndex;not null;column:key_id" json:"key_id"`
	KeyHash     string     `gorm:"uniqueIndex;not null;column:key_hash" json:"-"`
	Name        string     `gorm:"not null;column:name" json:"name"`
	Description string     `gorm:"type:text;column:description" json:"description"`
	CreatedBy   string     `gorm:"not null;column:created_by" json:"created_by"`
	IsActive    bool       `gorm:"not null;default:true;column:is_active" json:"is_active"`
	LastUsedAt  *time.Time `gorm:"column:last_used_at" json:"last_used_at"`
	ExpiresAt   *time.Time `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (APIKey) TableName() string {
	return "api_keys"
}

func (k *APIKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}

// Expired reports whether the key has an expiry in the past.
func (k *APIKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && k.ExpiresAt.Before(now)
}
