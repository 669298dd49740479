package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func TestLevelForScoreBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, LevelLow},
		{7, LevelLow},
		{8, LevelMedium},
		{14, LevelMedium},
		{15, LevelHigh},
		{19, LevelHigh},
		{20, LevelCritical},
		{25, LevelCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LevelForScore(tc.score), "score %d", tc.score)
	}
}

func TestCalculateWorkedExample(t *testing.T) {
	// financial-direct 4x5=20 and relationship-family 3x4=12, both in the
	// relationship category: category score round(32/2)=16, overall 16, High.
	sum := Calculate([]RatedFactor{
		{ID: "financial-direct", Name: "Direct financial interest", Category: "relationship", Likelihood: intp(4), Impact: intp(5)},
		{ID: "relationship-family", Name: "Family relationship", Category: "relationship", Likelihood: intp(3), Impact: intp(4)},
	})

	assert.Equal(t, 16, sum.OverallScore)
	assert.Equal(t, LevelHigh, sum.RiskLevel)
	assert.Equal(t, map[string]int{"relationship": 16}, sum.CategoryScores)
	require.Len(t, sum.HighRiskFactors, 1)
	assert.Equal(t, "financial-direct", sum.HighRiskFactors[0].ID)
	assert.Equal(t, 20, sum.HighRiskFactors[0].Score)
	assert.Equal(t, 2, sum.RatedCount)
}

func TestCalculateSkipsPartiallyRatedFactors(t *testing.T) {
	sum := Calculate([]RatedFactor{
		{ID: "rulings-onesided", Category: "conduct", Likelihood: intp(5)},
		{ID: "rulings-unequal", Category: "conduct", Impact: intp(5)},
		{ID: "statements-disparaging", Category: "conduct", Likelihood: intp(2), Impact: intp(3)},
	})

	assert.Equal(t, 1, sum.RatedCount)
	assert.Equal(t, 6, sum.OverallScore)
	assert.Equal(t, LevelLow, sum.RiskLevel)
	assert.Empty(t, sum.HighRiskFactors)
}

func TestCalculateNoRatedFactors(t *testing.T) {
	sum := Calculate([]RatedFactor{
		{ID: "external-public", Category: "contextual"},
	})
	assert.Zero(t, sum.RatedCount)
	assert.Zero(t, sum.OverallScore)
	assert.Equal(t, LevelLow, sum.RiskLevel)
	assert.Empty(t, sum.CategoryScores)
}

func TestCalculateOmitsUnratedCategories(t *testing.T) {
	sum := Calculate([]RatedFactor{
		{ID: "financial-direct", Category: "relationship", Likelihood: intp(4), Impact: intp(4)},
		{ID: "external-public", Category: "contextual"},
	})
	_, hasContextual := sum.CategoryScores["contextual"]
	assert.False(t, hasContextual)
	assert.Equal(t, 16, sum.CategoryScores["relationship"])
}

func TestHighRiskFactorsMembershipAndOrder(t *testing.T) {
	sum := Calculate([]RatedFactor{
		{ID: "a", Category: "conduct", Likelihood: intp(3), Impact: intp(5)},  // 15
		{ID: "b", Category: "conduct", Likelihood: intp(5), Impact: intp(5)},  // 25
		{ID: "c", Category: "conduct", Likelihood: intp(2), Impact: intp(7)},  // 14 (below cutoff)
		{ID: "d", Category: "contextual", Likelihood: intp(5), Impact: intp(3)}, // 15, tie with a
		{ID: "e", Category: "contextual"},                                     // unrated
	})

	var ids []string
	for _, f := range sum.HighRiskFactors {
		ids = append(ids, f.ID)
	}
	// 25 first, then the two 15s in encounter order. Unrated and sub-15
	// factors never appear.
	assert.Equal(t, []string{"b", "a", "d"}, ids)
}

func TestRecommendationsPerLevel(t *testing.T) {
	for _, level := range []string{LevelLow, LevelMedium, LevelHigh, LevelCritical} {
		recs := Recommendations(level)
		assert.Len(t, recs, 5, "level %s", level)
	}
	assert.Equal(t, "File a formal motion to recuse/disqualify immediately", Recommendations(LevelCritical)[0])
	assert.Equal(t, "Document potential prejudice indicators as they arise", Recommendations(LevelLow)[0])
	assert.NotEqual(t, Recommendations(LevelHigh), Recommendations(LevelMedium))
}

func TestRoundMeanHalfToEven(t *testing.T) {
	// 12.5 rounds to 12, 15.5 rounds to 16.
	assert.Equal(t, 12, roundMean(25, 2))
	assert.Equal(t, 16, roundMean(31, 2))
}
