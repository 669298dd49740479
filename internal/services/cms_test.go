package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/prejudice-risk-backend/internal/apperr"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
)

func TestCMSLinkCreateAndRelink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createAssessment(t)

	linked, err := env.cms.Link(ctx, id, CMSLinkInput{
		CMSType: "clio",
		CaseID:  "CLIO-100",
	})
	require.NoError(t, err)
	assert.Equal(t, "linked", linked.Status)
	assert.Equal(t, "clio", linked.CMSType)
	assert.Equal(t, "CLIO-100", linked.CaseID)

	event, ok := env.events.lastOfType(types.EventLinkCreated)
	require.True(t, ok)
	assert.Equal(t, id, event.Data["assessment_id"])

	// Relinking the same system updates the row in place.
	relinked, err := env.cms.Link(ctx, id, CMSLinkInput{
		CMSType:  "clio",
		CaseID:   "CLIO-200",
		SyncData: boolp(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "updated", relinked.Status)

	list, err := env.cms.ListLinks(ctx, id)
	require.NoError(t, err)
	require.Len(t, list.Links, 1)
	assert.Equal(t, "CLIO-200", list.Links[0].CMSCaseID)
	assert.True(t, list.Links[0].SyncData)

	_, ok = env.events.lastOfType(types.EventLinkUpdated)
	assert.True(t, ok)
}

func TestCMSLinkValidation(t *testing.T) {
	env := newTestEnv(t)
	id := env.createAssessment(t)

	_, err := env.cms.Link(context.Background(), id, CMSLinkInput{})
	var fieldErrs apperr.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "cms_type is required", fieldErrs["cms_type"])
	assert.Equal(t, "case_id is required", fieldErrs["case_id"])
}

func TestCMSDeleteLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createAssessment(t)

	_, err := env.cms.Link(ctx, id, CMSLinkInput{CMSType: "mycase", CaseID: "MC-1"})
	require.NoError(t, err)

	deleted, err := env.cms.DeleteLink(ctx, id, "mycase")
	require.NoError(t, err)
	assert.Equal(t, "deleted", deleted.Status)
	assert.Equal(t, "mycase", deleted.CMSType)

	_, ok := env.events.lastOfType(types.EventLinkDeleted)
	assert.True(t, ok)

	list, err := env.cms.ListLinks(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, list.Links)

	_, err = env.cms.DeleteLink(ctx, id, "mycase")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCMSSyncStates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createAssessment(t)

	_, err := env.cms.Sync(ctx, id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))

	_, err = env.cms.Link(ctx, id, CMSLinkInput{CMSType: "clio", CaseID: "CLIO-1"})
	require.NoError(t, err)
	result, err := env.cms.Sync(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "no_sync", result.Status)

	_, err = env.cms.Link(ctx, id, CMSLinkInput{
		CMSType:  "practice_panther",
		CaseID:   "PP-1",
		SyncData: boolp(true),
	})
	require.NoError(t, err)
	result, err = env.cms.Sync(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "synced", result.Status)
	assert.Equal(t, []string{"case_name", "judge_name", "dates"}, result.SyncedFields)
	assert.Equal(t, []string{"practice_panther"}, result.SyncedCMS)
}

func TestCMSListSystems(t *testing.T) {
	env := newTestEnv(t)

	systems := env.cms.ListSystems()
	require.Len(t, systems, 4)
	ids := make([]string, 0, len(systems))
	for _, sys := range systems {
		ids = append(ids, sys.ID)
		assert.NotEmpty(t, sys.Name)
		assert.NotEmpty(t, sys.Features)
	}
	assert.ElementsMatch(t, []string{"clio", "practice_panther", "mycase", "rocket_matter"}, ids)
}
