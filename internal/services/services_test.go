package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/prejudice-risk-backend/internal/db"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/repos"
)

var dbSeq int64

func strp(s string) *string { return &s }
func intp(v int) *int       { return &v }
func boolp(v bool) *bool    { return &v }

// recordedEvent is one Trigger call seen by the recorder.
type recordedEvent struct {
	Type string
	Data map[string]interface{}
}

// eventRecorder is an EventService that records instead of delivering.
type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) Trigger(eventType string, data map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Type: eventType, Data: data})
}

func (r *eventRecorder) SendTest(ctx context.Context, input TestWebhookInput) (*TestWebhookResult, error) {
	return nil, nil
}

func (r *eventRecorder) recorded() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]recordedEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *eventRecorder) lastOfType(eventType string) (recordedEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == eventType {
			return r.events[i], true
		}
	}
	return recordedEvent{}, false
}

type testEnv struct {
	db     *gorm.DB
	events *eventRecorder

	assessmentRepo repos.AssessmentRepo
	ratingRepo     repos.FactorRatingRepo
	resultRepo     repos.ResultRepo
	linkRepo       repos.CMSLinkRepo
	webhookRepo    repos.WebhookRepo
	deliveryRepo   repos.WebhookDeliveryRepo
	keyRepo        repos.APIKeyRepo

	assessments AssessmentService
	factors     FactorService
	results     ResultService
	cms         CMSService
	webhooks    WebhookService
	auth        AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:services%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	gormDB, err := db.NewSQLite(dsn)
	require.NoError(t, err)

	log := logger.NewNop()
	recorder := &eventRecorder{}

	env := &testEnv{
		db:             gormDB,
		events:         recorder,
		assessmentRepo: repos.NewAssessmentRepo(gormDB, log),
		ratingRepo:     repos.NewFactorRatingRepo(gormDB, log),
		resultRepo:     repos.NewResultRepo(gormDB, log),
		linkRepo:       repos.NewCMSLinkRepo(gormDB, log),
		webhookRepo:    repos.NewWebhookRepo(gormDB, log),
		deliveryRepo:   repos.NewWebhookDeliveryRepo(gormDB, log),
		keyRepo:        repos.NewAPIKeyRepo(gormDB, log),
	}
	env.assessments = NewAssessmentService(log, gormDB, env.assessmentRepo, env.ratingRepo, env.resultRepo, recorder)
	env.factors = NewFactorService(log, gormDB, env.assessmentRepo, env.ratingRepo, recorder)
	env.results = NewResultService(log, gormDB, env.assessmentRepo, env.ratingRepo, env.resultRepo, recorder)
	env.cms = NewCMSService(log, gormDB, env.assessmentRepo, env.linkRepo, recorder)
	env.webhooks = NewWebhookService(log, env.webhookRepo, env.deliveryRepo)
	env.auth = NewAuthService(log, env.keyRepo)
	return env
}

func (env *testEnv) createAssessment(t *testing.T) string {
	t.Helper()
	created, err := env.assessments.Create(context.Background(), AssessmentInput{
		CaseName:     strp("Smith v. Jones"),
		JudgeName:    strp("Judge Hargrove"),
		AssessorName: strp("A. Counsel"),
	})
	require.NoError(t, err)
	return created.AssessmentID
}
