package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/observability"
	"github.com/yungbote/prejudice-risk-backend/internal/repos"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

const webhookUserAgent = "PrejudiceRiskCalculator-Webhook/1.0"

// EventConfig tunes the notifier. RetryTiers is the declared backoff schedule
// recorded on failed deliveries; no background worker consumes it yet.
type EventConfig struct {
	Enabled         bool
	APIVersion      string
	DeliveryTimeout time.Duration
	RetryTiers      []time.Duration
}

// Envelope is the wire shape of every event.
type Envelope struct {
	ID         string                 `json:"id"`
	Event      string                 `json:"event"`
	CreatedAt  string                 `json:"created_at"`
	APIVersion string                 `json:"api_version"`
	Data       map[string]interface{} `json:"data"`
}

type TestWebhookInput struct {
	TargetURL         string `json:"target_url"`
	Event             string `json:"event"`
	IncludeSampleData *bool  `json:"include_sample_data"`
}

type TestWebhookResult struct {
	TestID         string            `json:"test_id"`
	TargetURL      string            `json:"target_url"`
	Event          string            `json:"event"`
	Status         string            `json:"status"`
	ResponseCode   *int              `json:"response_code"`
	ResponseBody   string            `json:"response_body"`
	Error          string            `json:"error,omitempty"`
	RequestHeaders map[string]string `json:"request_headers"`
	RequestBody    string            `json:"request_body"`
	CreatedAt      string            `json:"created_at"`
	DeliveredAt    *string           `json:"delivered_at"`
}

// EventService fans domain events out to subscribed webhooks. Trigger never
// blocks the caller and a failing target never affects the others.
type EventService interface {
	Trigger(eventType string, data map[string]interface{})
	SendTest(ctx context.Context, input TestWebhookInput) (*TestWebhookResult, error)
}

type eventService struct {
	log        *logger.Logger
	webhooks   repos.WebhookRepo
	deliveries repos.WebhookDeliveryRepo
	metrics    *observability.Metrics
	client     *http.Client
	cfg        EventConfig
}

func NewEventService(log *logger.Logger, webhooks repos.WebhookRepo, deliveries repos.WebhookDeliveryRepo, metrics *observability.Metrics, cfg EventConfig) EventService {
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 10 * time.Second
	}
	return &eventService{
		log:        log.With("service", "EventService"),
		webhooks:   webhooks,
		deliveries: deliveries,
		metrics:    metrics,
		client:     &http.Client{Timeout: cfg.DeliveryTimeout},
		cfg:        cfg,
	}
}

func shortID(prefix string) string {
	return prefix + "_" + uuid.New().String()[:8]
}

func (s *eventService) Trigger(eventType string, data map[string]interface{}) {
	if !s.cfg.Enabled {
		s.log.Info("Webhooks disabled, not triggering event", "event_type", eventType)
		return
	}

	eventID := shortID("evt")
	now := time.Now().UTC()
	envelope := Envelope{
		ID:         eventID,
		Event:      eventType,
		CreatedAt:  now.Format(time.RFC3339Nano),
		APIVersion: s.cfg.APIVersion,
		Data:       data,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		s.log.Error("Failed to marshal event payload", "event_type", eventType, "error", err)
		return
	}

	hooks, err := s.webhooks.ListActive(context.Background(), nil)
	if err != nil {
		s.log.Error("Failed to load active webhooks", "event_type", eventType, "error", err)
		return
	}

	s.log.Info("Triggered event", "event_type", eventType, "event_id", eventID)
	for _, hook := range hooks {
		if !subscribed(hook, eventType) {
			continue
		}
		go s.deliver(hook, eventType, eventID, payload, now)
	}
}

func subscribed(hook *types.Webhook, eventType string) bool {
	var events []string
	if err := json.Unmarshal(hook.Events, &events); err != nil {
		return false
	}
	for _, e := range events {
		if e == eventType {
			return true
		}
	}
	return false
}

// sign computes the delivery signature over "{unix_ts}.{payload}". Only the
// secret's SHA-256 hash is stored, so the hash is the HMAC key; subscribers
// derive the same key by hashing their secret.
func sign(secretHash string, ts time.Time, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secretHash))
	fmt.Fprintf(mac, "%d.", ts.Unix())
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *eventService) deliver(hook *types.Webhook, eventType, eventID string, payload []byte, ts time.Time) {
	delivery := &types.WebhookDelivery{
		DeliveryID: shortID("dlv"),
		WebhookID:  hook.ID,
		EventID:    eventID,
		EventType:  eventType,
		Payload:    datatypes.JSON(payload),
		Status:     types.DeliveryStatusPending,
	}
	if err := s.deliveries.Create(context.Background(), nil, delivery); err != nil {
		s.log.Error("Failed to record webhook delivery", "webhook_id", hook.WebhookID, "event_id", eventID, "error", err)
		return
	}

	code, body, sendErr := s.send(hook.TargetURL, hook.ContentType, hook.WebhookID, hook.SecretHash, eventType, payload, ts)

	now := time.Now().UTC()
	delivery.UpdatedAt = now
	delivery.ResponseCode = code
	delivery.ResponseBody = body
	switch {
	case sendErr != nil:
		delivery.Status = types.DeliveryStatusFailed
		delivery.Error = sendErr.Error()
	case *code >= 200 && *code < 300:
		delivery.Status = types.DeliveryStatusDelivered
		delivery.DeliveredAt = &now
	default:
		delivery.Status = types.DeliveryStatusFailed
		delivery.Error = fmt.Sprintf("HTTP %d", *code)
	}
	if delivery.Status == types.DeliveryStatusFailed && len(s.cfg.RetryTiers) > 0 {
		next := now.Add(s.cfg.RetryTiers[0])
		delivery.NextRetryAt = &next
	}

	if s.metrics != nil {
		s.metrics.ObserveWebhookDelivery(eventType, delivery.Status)
	}
	if err := s.deliveries.Save(context.Background(), nil, delivery); err != nil {
		s.log.Error("Failed to update webhook delivery", "delivery_id", delivery.DeliveryID, "error", err)
		return
	}
	s.log.Info("Webhook delivery finished",
		"webhook_id", hook.WebhookID,
		"delivery_id", delivery.DeliveryID,
		"event_id", eventID,
		"status", delivery.Status)
}

// send posts one signed payload. Returns the response code and a truncated
// body, or an error on transport failure or timeout.
func (s *eventService) send(targetURL, contentType, webhookID, secretHash, eventType string, payload []byte, ts time.Time) (*int, string, error) {
	req, err := http.NewRequest(http.MethodPost, targetURL, bytes.NewReader(payload))
	if err != nil {
		return nil, "", err
	}
	if contentType == "" {
		contentType = types.ContentTypeJSON
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Prejudice-Signature", "sha256="+sign(secretHash, ts, payload))
	req.Header.Set("X-Prejudice-Timestamp", fmt.Sprintf("%d", ts.Unix()))
	req.Header.Set("X-Prejudice-Event", eventType)
	req.Header.Set("X-Prejudice-Webhook-ID", webhookID)
	req.Header.Set("User-Agent", webhookUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	code := resp.StatusCode
	return &code, string(body), nil
}

func (s *eventService) SendTest(ctx context.Context, input TestWebhookInput) (*TestWebhookResult, error) {
	now := time.Now().UTC()
	envelope := Envelope{
		ID:         "evt_test",
		Event:      input.Event,
		CreatedAt:  now.Format(time.RFC3339Nano),
		APIVersion: s.cfg.APIVersion,
		Data:       samplePayload(input.Event, now, input.IncludeSampleData == nil || *input.IncludeSampleData),
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, err
	}

	const testSecretHash = "test_webhook_secret"
	headers := map[string]string{
		"Content-Type":           types.ContentTypeJSON,
		"X-Prejudice-Signature":  "sha256=" + sign(testSecretHash, now, payload),
		"X-Prejudice-Timestamp":  fmt.Sprintf("%d", now.Unix()),
		"X-Prejudice-Event":      input.Event,
		"X-Prejudice-Webhook-ID": "wh_test",
		"User-Agent":             webhookUserAgent,
	}

	result := &TestWebhookResult{
		TestID:         shortID("test"),
		TargetURL:      input.TargetURL,
		Event:          input.Event,
		RequestHeaders: headers,
		RequestBody:    string(payload),
		CreatedAt:      now.Format(time.RFC3339Nano),
	}

	code, body, sendErr := s.send(input.TargetURL, types.ContentTypeJSON, "wh_test", testSecretHash, input.Event, payload, now)
	result.ResponseCode = code
	result.ResponseBody = body
	switch {
	case sendErr != nil:
		result.Status = types.DeliveryStatusFailed
		result.Error = sendErr.Error()
	case *code >= 200 && *code < 300:
		result.Status = types.DeliveryStatusDelivered
		deliveredAt := time.Now().UTC().Format(time.RFC3339Nano)
		result.DeliveredAt = &deliveredAt
	default:
		result.Status = types.DeliveryStatusFailed
		result.Error = fmt.Sprintf("HTTP %d", *code)
	}
	return result, nil
}

func samplePayload(eventType string, now time.Time, includeSample bool) map[string]interface{} {
	if includeSample {
		switch eventType {
		case types.EventAssessmentCreated:
			return map[string]interface{}{
				"assessment_id":             "PRF-2025-TEST",
				"case_name":                 "Test Case",
				"judge_name":                "Test Judge",
				"assessor_name":             "Test Assessor",
				"assessment_date":           now.Format(dateLayout),
				"case_id":                   "CASE-TEST",
				"case_management_system_id": "CMS-TEST",
				"status":                    "created",
			}
		case types.EventResultCalculated:
			return map[string]interface{}{
				"assessment_id":  "PRF-2025-TEST",
				"overall_score":  18,
				"risk_level":     types.RiskLevelHigh,
				"category_scores": map[string]interface{}{
					"relationship": 17,
					"conduct":      12,
					"contextual":   9,
				},
				"high_risk_factors": []map[string]interface{}{
					{"id": "financial-direct", "name": "Direct financial interest", "score": 20},
				},
				"recommendations": []string{
					"File a motion to recuse/disqualify or for disclosure of potential conflicts",
					"Consider requesting a hearing on prejudice concerns",
					"Develop detailed documentation of all prejudice indicators",
					"Implement strategic adjustments to case presentation",
					"Prepare record for potential appeal on prejudice grounds",
				},
				"calculated_at": now.Format(time.RFC3339Nano),
			}
		}
	}
	return map[string]interface{}{
		"message":   "This is a test webhook",
		"timestamp": now.Format(time.RFC3339Nano),
	}
}
