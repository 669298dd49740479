package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event names a webhook may subscribe to. The enum is fixed; registration
// rejects anything outside it.
const (
	EventAssessmentCreated = "assessment.created"
	EventAssessmentUpdated = "assessment.updated"
	EventAssessmentDeleted = "assessment.deleted"
	EventFactorUpdated     = "factor.updated"
	EventResultCalculated  = "result.calculated"
	EventRiskLevelChanged  = "risk_level.changed"
	EventLinkCreated       = "link.created"
	EventLinkUpdated       = "link.updated"
	EventLinkDeleted       = "link.deleted"
)

// ValidEvents lists every event type a webhook can subscribe to.
var ValidEvents = []string{
	EventAssessmentCreated,
	EventAssessmentUpdated,
	EventAssessmentDeleted,
	EventFactorUpdated,
	EventResultCalculated,
	EventRiskLevelChanged,
	EventLinkCreated,
	EventLinkUpdated,
	EventLinkDeleted,
}

const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Webhook is a subscription to a subset of domain events. Only the SHA-256
// hash of the signing secret is stored; deliveries are signed with that hash,
// so subscribers derive the verification key by hashing their secret.
type Webhook struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"-"`
	WebhookID   string         `gorm:"uniqueIndex;not null;column:webhook_id" json:"webhook_id"`
	TargetURL   string         `gorm:"not null;column:target_url" json:"target_url"`
	Events      datatypes.JSON `gorm:"not null;column:events" json:"events"`
	Description string         `gorm:"type:text;column:description" json:"description"`
	SecretHash  string         `gorm:"not null;column:secret_hash" json:"-"`
	Active      bool           `gorm:"not null;default:true;column:active" json:"active"`
	ContentType string         `gorm:"not null;default:application/json;column:content_type" json:"content_type"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`

	Deliveries []WebhookDelivery `gorm:"foreignKey:WebhookID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Webhook) TableName() string {
	return "webhooks"
}

func (w *Webhook) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
