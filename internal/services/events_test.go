package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/repos"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

func newEventService(env *testEnv, cfg EventConfig) EventService {
	return NewEventService(logger.NewNop(), env.webhookRepo, env.deliveryRepo, nil, cfg)
}

func seedWebhook(t *testing.T, env *testEnv, targetURL, secret string, events ...string) *types.Webhook {
	t.Helper()
	raw, err := json.Marshal(events)
	require.NoError(t, err)
	hook := &types.Webhook{
		WebhookID:   shortID("wh"),
		TargetURL:   targetURL,
		Events:      datatypes.JSON(raw),
		SecretHash:  hashSecret(secret),
		Active:      true,
		ContentType: types.ContentTypeJSON,
	}
	require.NoError(t, env.webhookRepo.Create(context.Background(), nil, hook))
	return hook
}

// capturedRequest is one request seen by the test target.
type capturedRequest struct {
	Headers http.Header
	Body    []byte
}

func captureTarget(status int) (*httptest.Server, func() []capturedRequest) {
	var mu sync.Mutex
	var captured []capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		captured = append(captured, capturedRequest{Headers: r.Header.Clone(), Body: body})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	return server, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		out := make([]capturedRequest, len(captured))
		copy(out, captured)
		return out
	}
}

func settledDeliveries(t *testing.T, env *testEnv, hook *types.Webhook, want int) []*types.WebhookDelivery {
	t.Helper()
	var rows []*types.WebhookDelivery
	require.Eventually(t, func() bool {
		var err error
		rows, _, err = env.deliveryRepo.ListByWebhook(context.Background(), nil, hook.ID, repos.DeliveryFilter{PerPage: 100})
		if err != nil || len(rows) < want {
			return false
		}
		for _, row := range rows {
			if row.Status == types.DeliveryStatusPending {
				return false
			}
		}
		return true
	}, 5*time.Second, 20*time.Millisecond)
	return rows
}

func TestTriggerDeliversSignedEnvelope(t *testing.T) {
	env := newTestEnv(t)
	server, captured := captureTarget(http.StatusOK)
	defer server.Close()

	const secret = "shhh-very-long-secret"
	hook := seedWebhook(t, env, server.URL, secret, types.EventAssessmentCreated)
	svc := newEventService(env, EventConfig{Enabled: true, APIVersion: "v1", RetryTiers: []time.Duration{time.Minute}})

	svc.Trigger(types.EventAssessmentCreated, map[string]interface{}{"assessment_id": "PRF-2025-0001"})

	rows := settledDeliveries(t, env, hook, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, types.DeliveryStatusDelivered, rows[0].Status)
	assert.Equal(t, 200, *rows[0].ResponseCode)
	assert.NotNil(t, rows[0].DeliveredAt)
	assert.Nil(t, rows[0].NextRetryAt)

	reqs := captured()
	require.Len(t, reqs, 1)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(reqs[0].Body, &envelope))
	assert.True(t, len(envelope.ID) == 12 && envelope.ID[:4] == "evt_")
	assert.Equal(t, types.EventAssessmentCreated, envelope.Event)
	assert.Equal(t, "v1", envelope.APIVersion)
	assert.Equal(t, "PRF-2025-0001", envelope.Data["assessment_id"])
	_, err := time.Parse(time.RFC3339Nano, envelope.CreatedAt)
	assert.NoError(t, err)

	headers := reqs[0].Headers
	assert.Equal(t, types.EventAssessmentCreated, headers.Get("X-Prejudice-Event"))
	assert.Equal(t, hook.WebhookID, headers.Get("X-Prejudice-Webhook-ID"))
	assert.Equal(t, "PrejudiceRiskCalculator-Webhook/1.0", headers.Get("User-Agent"))

	// A subscriber hashes its secret and verifies hmac(hash, "{ts}.{body}").
	ts, err := strconv.ParseInt(headers.Get("X-Prejudice-Timestamp"), 10, 64)
	require.NoError(t, err)
	mac := hmac.New(sha256.New, []byte(hashSecret(secret)))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(reqs[0].Body)
	assert.Equal(t, "sha256="+hex.EncodeToString(mac.Sum(nil)), headers.Get("X-Prejudice-Signature"))
}

func TestTriggerSkipsUnsubscribedAndInactive(t *testing.T) {
	env := newTestEnv(t)
	server, captured := captureTarget(http.StatusOK)
	defer server.Close()

	subscribed := seedWebhook(t, env, server.URL, "secret-one-long-enough", types.EventResultCalculated)
	other := seedWebhook(t, env, server.URL, "secret-two-long-enough", types.EventAssessmentDeleted)
	inactive := seedWebhook(t, env, server.URL, "secret-three-long-enough", types.EventResultCalculated)
	inactive.Active = false
	require.NoError(t, env.webhookRepo.Save(context.Background(), nil, inactive))

	svc := newEventService(env, EventConfig{Enabled: true, APIVersion: "v1"})
	svc.Trigger(types.EventResultCalculated, map[string]interface{}{"overall_score": 16})

	settledDeliveries(t, env, subscribed, 1)
	assert.Len(t, captured(), 1)

	rows, _, err := env.deliveryRepo.ListByWebhook(context.Background(), nil, other.ID, repos.DeliveryFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
	rows, _, err = env.deliveryRepo.ListByWebhook(context.Background(), nil, inactive.ID, repos.DeliveryFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTriggerRecordsServerErrorWithRetrySchedule(t *testing.T) {
	env := newTestEnv(t)
	server, _ := captureTarget(http.StatusInternalServerError)
	defer server.Close()

	hook := seedWebhook(t, env, server.URL, "secret-long-enough-here", types.EventAssessmentCreated)
	svc := newEventService(env, EventConfig{
		Enabled:    true,
		APIVersion: "v1",
		RetryTiers: []time.Duration{time.Minute, 5 * time.Minute},
	})

	svc.Trigger(types.EventAssessmentCreated, map[string]interface{}{"assessment_id": "PRF-2025-0001"})

	rows := settledDeliveries(t, env, hook, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, types.DeliveryStatusFailed, rows[0].Status)
	assert.Equal(t, 500, *rows[0].ResponseCode)
	assert.Equal(t, "HTTP 500", rows[0].Error)
	assert.Nil(t, rows[0].DeliveredAt)
	require.NotNil(t, rows[0].NextRetryAt)
}

func TestTriggerRecordsTimeout(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	hook := seedWebhook(t, env, server.URL, "secret-long-enough-here", types.EventAssessmentCreated)
	svc := newEventService(env, EventConfig{
		Enabled:         true,
		APIVersion:      "v1",
		DeliveryTimeout: 50 * time.Millisecond,
	})

	svc.Trigger(types.EventAssessmentCreated, map[string]interface{}{"assessment_id": "PRF-2025-0001"})

	rows := settledDeliveries(t, env, hook, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, types.DeliveryStatusFailed, rows[0].Status)
	assert.Nil(t, rows[0].ResponseCode)
	assert.NotEmpty(t, rows[0].Error)
}

func TestTriggerDisabled(t *testing.T) {
	env := newTestEnv(t)
	server, captured := captureTarget(http.StatusOK)
	defer server.Close()

	hook := seedWebhook(t, env, server.URL, "secret-long-enough-here", types.EventAssessmentCreated)
	svc := newEventService(env, EventConfig{Enabled: false, APIVersion: "v1"})

	svc.Trigger(types.EventAssessmentCreated, map[string]interface{}{"assessment_id": "PRF-2025-0001"})

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, captured())
	rows, _, err := env.deliveryRepo.ListByWebhook(context.Background(), nil, hook.ID, repos.DeliveryFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSendTestUsesFixedIdentifiers(t *testing.T) {
	env := newTestEnv(t)
	server, captured := captureTarget(http.StatusNoContent)
	defer server.Close()

	svc := newEventService(env, EventConfig{Enabled: true, APIVersion: "v1"})
	result, err := svc.SendTest(context.Background(), TestWebhookInput{
		TargetURL: server.URL,
		Event:     types.EventAssessmentCreated,
	})
	require.NoError(t, err)
	assert.Equal(t, types.DeliveryStatusDelivered, result.Status)
	assert.Equal(t, 204, *result.ResponseCode)
	assert.NotNil(t, result.DeliveredAt)

	reqs := captured()
	require.Len(t, reqs, 1)
	assert.Equal(t, "wh_test", reqs[0].Headers.Get("X-Prejudice-Webhook-ID"))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(reqs[0].Body, &envelope))
	assert.Equal(t, "evt_test", envelope.ID)
	assert.Equal(t, "PRF-2025-TEST", envelope.Data["assessment_id"])

	assert.Equal(t, result.RequestBody, string(reqs[0].Body))
}

func TestSendTestGenericPayload(t *testing.T) {
	env := newTestEnv(t)
	server, captured := captureTarget(http.StatusOK)
	defer server.Close()

	svc := newEventService(env, EventConfig{Enabled: true, APIVersion: "v1"})
	_, err := svc.SendTest(context.Background(), TestWebhookInput{
		TargetURL: server.URL,
		Event:     types.EventLinkCreated,
	})
	require.NoError(t, err)

	reqs := captured()
	require.Len(t, reqs, 1)
	var envelope Envelope
	require.NoError(t, json.Unmarshal(reqs[0].Body, &envelope))
	assert.Equal(t, "This is a test webhook", envelope.Data["message"])
}

func TestSendTestUnreachableTarget(t *testing.T) {
	env := newTestEnv(t)
	svc := newEventService(env, EventConfig{Enabled: true, APIVersion: "v1", DeliveryTimeout: 200 * time.Millisecond})

	result, err := svc.SendTest(context.Background(), TestWebhookInput{
		TargetURL: "http://127.0.0.1:1/webhook",
		Event:     types.EventAssessmentCreated,
	})
	require.NoError(t, err)
	assert.Equal(t, types.DeliveryStatusFailed, result.Status)
	assert.NotEmpty(t, result.Error)
	assert.Nil(t, result.ResponseCode)
}
