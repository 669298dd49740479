package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Delivery states. A row starts pending and ends delivered (2xx) or failed
// (non-2xx, transport error, or timeout).
const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusFailed    = "failed"
)

// WebhookDelivery is one attempted delivery of one event to one webhook.
// Append-only log; next_retry_at records the declared backoff policy but no
// background worker consumes it.
type WebhookDelivery struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"-"`
	DeliveryID   string         `gorm:"uniqueIndex;not null;column:delivery_id" json:"delivery_id"`
	WebhookID    uuid.UUID      `gorm:"type:uuid;not null;index;column:webhook_id" json:"-"`
	EventID      string         `gorm:"not null;column:event_id" json:"event_id"`
	EventType    string         `gorm:"not null;column:event_type" json:"event_type"`
	Payload      datatypes.JSON `gorm:"not null;column:payload" json:"-"`
	Status       string         `gorm:"not null;default:pending;column:status" json:"status"`
	ResponseCode *int           `gorm:"column:response_code" json:"response_code"`
	ResponseBody string         `gorm:"type:text;column:response_body" json:"response_body"`
	Error        string         `gorm:"type:text;column:error" json:"error"`
	RetryCount   int            `gorm:"not null;default:0;column:retry_count" json:"retry_count"`
	NextRetryAt  *time.Time     `gorm:"column:next_retry_at" json:"next_retry_at"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
	DeliveredAt  *time.Time     `gorm:"column:delivered_at" json:"delivered_at"`
}

func (WebhookDelivery) TableName() string {
	return "webhook_deliveries"
}

func (d *WebhookDelivery) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
