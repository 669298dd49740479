package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/prejudice-risk-backend/internal/apperr"
	"github.com/yungbote/prejudice-risk-backend/internal/repos"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

func registerWebhook(t *testing.T, env *testEnv, events ...string) *WebhookView {
	t.Helper()
	view, err := env.webhooks.Register(context.Background(), WebhookInput{
		TargetURL: strp("https://example.com/hooks"),
		Events:    events,
		Secret:    strp("a-secret-long-enough"),
	})
	require.NoError(t, err)
	return view
}

func TestWebhookRegisterDefaults(t *testing.T) {
	env := newTestEnv(t)

	view := registerWebhook(t, env, types.EventAssessmentCreated, types.EventResultCalculated)
	assert.True(t, strings.HasPrefix(view.WebhookID, "wh_"))
	assert.True(t, view.Active)
	assert.Equal(t, types.ContentTypeJSON, view.ContentType)
	assert.Equal(t, []string{types.EventAssessmentCreated, types.EventResultCalculated}, view.Events)

	// The stored row keeps only the secret hash.
	hook, err := env.webhookRepo.GetByWebhookID(context.Background(), nil, view.WebhookID)
	require.NoError(t, err)
	assert.Equal(t, hashSecret("a-secret-long-enough"), hook.SecretHash)
}

func TestWebhookRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	var fieldErrs apperr.FieldErrors

	_, err := env.webhooks.Register(ctx, WebhookInput{})
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "target_url is required", fieldErrs["target_url"])
	assert.Equal(t, "events is required", fieldErrs["events"])
	assert.Equal(t, "secret is required", fieldErrs["secret"])

	_, err = env.webhooks.Register(ctx, WebhookInput{
		TargetURL: strp("ftp://example.com"),
		Events:    []string{types.EventAssessmentCreated},
		Secret:    strp("a-secret-long-enough"),
	})
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "target_url must be a valid HTTP or HTTPS URL", fieldErrs["target_url"])

	_, err = env.webhooks.Register(ctx, WebhookInput{
		TargetURL: strp("https://example.com"),
		Events:    []string{types.EventAssessmentCreated, "bogus.event", "other.bogus"},
		Secret:    strp("a-secret-long-enough"),
	})
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "Invalid events: bogus.event, other.bogus", fieldErrs["events"])

	_, err = env.webhooks.Register(ctx, WebhookInput{
		TargetURL: strp("https://example.com"),
		Events:    []string{types.EventAssessmentCreated},
		Secret:    strp("short"),
	})
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "secret must be at least 16 characters", fieldErrs["secret"])
}

func TestWebhookUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	view := registerWebhook(t, env, types.EventAssessmentCreated)

	updated, err := env.webhooks.Update(ctx, view.WebhookID, WebhookInput{
		Events: []string{types.EventResultCalculated},
		Active: boolp(false),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{types.EventResultCalculated}, updated.Events)
	assert.False(t, updated.Active)

	_, err = env.webhooks.Update(ctx, view.WebhookID, WebhookInput{
		Events: []string{"bogus.event"},
	})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))

	_, err = env.webhooks.Update(ctx, view.WebhookID, WebhookInput{
		Secret: strp("short"),
	})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))

	_, err = env.webhooks.Update(ctx, view.WebhookID, WebhookInput{
		ContentType: strp("text/plain"),
	})
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))
}

func TestWebhookGetWithDeliveryStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	view := registerWebhook(t, env, types.EventAssessmentCreated)
	hook, err := env.webhookRepo.GetByWebhookID(ctx, nil, view.WebhookID)
	require.NoError(t, err)

	now := time.Now().UTC()
	for i := 0; i < 4; i++ {
		delivery := &types.WebhookDelivery{
			DeliveryID: shortID("dlv"),
			WebhookID:  hook.ID,
			EventID:    shortID("evt"),
			EventType:  types.EventAssessmentCreated,
			Payload:    []byte(`{}`),
			Status:     types.DeliveryStatusFailed,
		}
		if i < 3 {
			deliveredAt := now.Add(time.Duration(i) * time.Minute)
			delivery.Status = types.DeliveryStatusDelivered
			delivery.DeliveredAt = &deliveredAt
		}
		require.NoError(t, env.deliveryRepo.Create(ctx, nil, delivery))
	}

	detail, err := env.webhooks.Get(ctx, view.WebhookID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), detail.TotalDeliveries)
	assert.Equal(t, int64(3), detail.SuccessfulDeliveries)
	assert.InDelta(t, 0.75, detail.DeliverySuccessRate, 1e-9)
	require.NotNil(t, detail.LastSuccessfulDelivery)
	assert.WithinDuration(t, now.Add(2*time.Minute), *detail.LastSuccessfulDelivery, time.Second)
}

func TestWebhookListDeliveriesPaging(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	view := registerWebhook(t, env, types.EventAssessmentCreated)
	hook, err := env.webhookRepo.GetByWebhookID(ctx, nil, view.WebhookID)
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		status := types.DeliveryStatusDelivered
		if i%5 == 0 {
			status = types.DeliveryStatusFailed
		}
		require.NoError(t, env.deliveryRepo.Create(ctx, nil, &types.WebhookDelivery{
			DeliveryID: shortID("dlv"),
			WebhookID:  hook.ID,
			EventID:    shortID("evt"),
			EventType:  types.EventAssessmentCreated,
			Payload:    []byte(`{}`),
			Status:     status,
		}))
	}

	page, err := env.webhooks.ListDeliveries(ctx, view.WebhookID, repos.DeliveryFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, int64(2), page.Pages)
	assert.Len(t, page.Deliveries, 20)

	page, err = env.webhooks.ListDeliveries(ctx, view.WebhookID, repos.DeliveryFilter{Status: types.DeliveryStatusFailed})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
}

func TestListDeliveriesZeroFilterReturnsRows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	view := registerWebhook(t, env, types.EventAssessmentCreated)
	hook, err := env.webhookRepo.GetByWebhookID(ctx, nil, view.WebhookID)
	require.NoError(t, err)

	require.NoError(t, env.deliveryRepo.Create(ctx, nil, &types.WebhookDelivery{
		DeliveryID: shortID("dlv"),
		WebhookID:  hook.ID,
		EventID:    shortID("evt"),
		EventType:  types.EventAssessmentCreated,
		Payload:    []byte(`{}`),
		Status:     types.DeliveryStatusDelivered,
	}))

	rows, total, err := env.deliveryRepo.ListByWebhook(ctx, nil, hook.ID, repos.DeliveryFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
}

func TestWebhookDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	view := registerWebhook(t, env, types.EventAssessmentCreated)

	deleted, err := env.webhooks.Delete(ctx, view.WebhookID)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	_, err = env.webhooks.Get(ctx, view.WebhookID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestWebhookListExcludesSecrets(t *testing.T) {
	env := newTestEnv(t)
	registerWebhook(t, env, types.EventAssessmentCreated)
	registerWebhook(t, env, types.EventResultCalculated)

	views, err := env.webhooks.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, views, 2)
}
