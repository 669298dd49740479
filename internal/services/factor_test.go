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

func TestSubmitRatingsUpsertKeepsOneRowPerFactor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createAssessment(t)

	submitted, err := env.factors.SubmitRatings(ctx, id, []FactorInput{
		{ID: "financial-direct", Likelihood: intp(2), Impact: intp(3)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, submitted.FactorsUpdated)

	submitted, err = env.factors.SubmitRatings(ctx, id, []FactorInput{
		{ID: "financial-direct", Likelihood: intp(4), Impact: intp(5), Notes: strp("updated")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, submitted.FactorsUpdated)

	list, err := env.factors.ListRatings(ctx, id)
	require.NoError(t, err)
	require.Len(t, list.Factors, 1)
	assert.Equal(t, "financial-direct", list.Factors[0].ID)
	assert.Equal(t, "Direct financial interest", list.Factors[0].Name)
	assert.Equal(t, types.CategoryRelationship, list.Factors[0].Category)
	assert.Equal(t, 4, *list.Factors[0].Likelihood)
	assert.Equal(t, 5, *list.Factors[0].Impact)
	assert.Equal(t, 20, *list.Factors[0].Score)
	assert.Equal(t, "updated", list.Factors[0].Notes)
}

func TestSubmitRatingsSkipsInvalidAndUnknown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createAssessment(t)

	submitted, err := env.factors.SubmitRatings(ctx, id, []FactorInput{
		{ID: "financial-direct", Likelihood: intp(6), Impact: intp(3)},
		{ID: "no-such-factor", Likelihood: intp(2), Impact: intp(2)},
		{ID: "relationship-family", Likelihood: intp(3), Impact: intp(4)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, submitted.FactorsUpdated)

	list, err := env.factors.ListRatings(ctx, id)
	require.NoError(t, err)
	require.Len(t, list.Factors, 1)
	assert.Equal(t, "relationship-family", list.Factors[0].ID)
}

func TestSubmitRatingsMovesAssessmentInProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createAssessment(t)

	_, err := env.factors.SubmitRatings(ctx, id, []FactorInput{
		{ID: "statements-disparaging", Likelihood: intp(3), Impact: intp(3)},
	})
	require.NoError(t, err)

	view, err := env.assessments.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.AssessmentStatusInProgress, view.Status)

	event, ok := env.events.lastOfType(types.EventFactorUpdated)
	require.True(t, ok)
	assert.Equal(t, id, event.Data["assessment_id"])
}

func TestSubmitRatingsAllSkippedTriggersNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createAssessment(t)
	before := len(env.events.recorded())

	submitted, err := env.factors.SubmitRatings(ctx, id, []FactorInput{
		{ID: "no-such-factor", Likelihood: intp(2), Impact: intp(2)},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, submitted.FactorsUpdated)
	assert.Len(t, env.events.recorded(), before)
}

func TestUpdateRatingUnknownFactor(t *testing.T) {
	env := newTestEnv(t)
	id := env.createAssessment(t)

	_, err := env.factors.UpdateRating(context.Background(), id, "no-such-factor", FactorInput{
		Likelihood: intp(2),
	})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestUpdateRatingValidation(t *testing.T) {
	env := newTestEnv(t)
	id := env.createAssessment(t)

	_, err := env.factors.UpdateRating(context.Background(), id, "financial-direct", FactorInput{
		Likelihood: intp(0),
	})
	var fieldErrs apperr.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "likelihood must be between 1 and 5", fieldErrs["likelihood"])
}

func TestUpdateRatingPartialFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.createAssessment(t)

	_, err := env.factors.UpdateRating(ctx, id, "rulings-onesided", FactorInput{
		Likelihood: intp(2), Impact: intp(5),
	})
	require.NoError(t, err)

	updated, err := env.factors.UpdateRating(ctx, id, "rulings-onesided", FactorInput{
		Notes: strp("pattern documented at hearing"),
	})
	require.NoError(t, err)
	assert.Equal(t, "updated", updated.Status)
	assert.Equal(t, "rulings-onesided", updated.FactorID)

	list, err := env.factors.ListRatings(ctx, id)
	require.NoError(t, err)
	require.Len(t, list.Factors, 1)
	assert.Equal(t, 2, *list.Factors[0].Likelihood)
	assert.Equal(t, 5, *list.Factors[0].Impact)
	assert.Equal(t, "pattern documented at hearing", list.Factors[0].Notes)
}
