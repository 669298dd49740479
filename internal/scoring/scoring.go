// Package scoring computes risk summaries from factor ratings. The engine is
// a pure function over its inputs; persistence and event emission live in the
// service layer.
package scoring

import (
	"math"
	"sort"
)

// Risk level thresholds on the overall score: Medium starts at 8, High at 15,
// Critical at 20.
const (
	thresholdMedium   = 8
	thresholdHigh     = 15
	thresholdCritical = 20

	// highRiskScore is the per-factor score at which a factor is flagged.
	highRiskScore = 15
)

const (
	LevelLow      = "Low"
	LevelMedium   = "Medium"
	LevelHigh     = "High"
	LevelCritical = "Critical"
)

// RatedFactor is one factor rating as seen by the engine. Likelihood and
// Impact may be nil; such factors are ignored entirely.
type RatedFactor struct {
	ID         string
	Name       string
	Category   string
	Likelihood *int
	Impact     *int
}

// HighRiskFactor is an entry in the ranked high-risk list.
type HighRiskFactor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Score    int    `json:"score"`
}

// Summary is the outcome of one calculation.
type Summary struct {
	OverallScore    int
	RiskLevel       string
	CategoryScores  map[string]int
	HighRiskFactors []HighRiskFactor
	Recommendations []string
	RatedCount      int
}

// Calculate scores every fully rated factor (score = likelihood * impact),
// averages per category and overall, classifies the risk level and ranks
// high-risk factors. Categories with no rated factor are omitted. RatedCount
// is zero when no factor has both halves of its rating.
func Calculate(factors []RatedFactor) Summary {
	categoryTotals := make(map[string]int)
	categoryCounts := make(map[string]int)
	total := 0
	count := 0

	var highRisk []HighRiskFactor
	for _, f := range factors {
		if f.Likelihood == nil || f.Impact == nil {
			continue
		}
		score := *f.Likelihood * *f.Impact
		categoryTotals[f.Category] += score
		categoryCounts[f.Category]++
		total += score
		count++

		if score >= highRiskScore {
			highRisk = append(highRisk, HighRiskFactor{
				ID:       f.ID,
				Name:     f.Name,
				Category: f.Category,
				Score:    score,
			})
		}
	}

	categoryScores := make(map[string]int, len(categoryTotals))
	for category, sum := range categoryTotals {
		categoryScores[category] = roundMean(sum, categoryCounts[category])
	}

	overall := 0
	if count > 0 {
		overall = roundMean(total, count)
	}

	// Descending by score; ties keep encounter order.
	sort.SliceStable(highRisk, func(i, j int) bool {
		return highRisk[i].Score > highRisk[j].Score
	})

	level := LevelForScore(overall)
	return Summary{
		OverallScore:    overall,
		RiskLevel:       level,
		CategoryScores:  categoryScores,
		HighRiskFactors: highRisk,
		Recommendations: Recommendations(level),
		RatedCount:      count,
	}
}

// LevelForScore maps an overall score to its risk level.
func LevelForScore(score int) string {
	switch {
	case score >= thresholdCritical:
		return LevelCritical
	case score >= thresholdHigh:
		return LevelHigh
	case score >= thresholdMedium:
		return LevelMedium
	default:
		return LevelLow
	}
}

// roundMean rounds half to even, matching the reference calculator's output
// on .5 means.
func roundMean(sum, count int) int {
	return int(math.RoundToEven(float64(sum) / float64(count)))
}

var recommendationsByLevel = map[string][]string{
	LevelCritical: {
		"File a formal motion to recuse/disqualify immediately",
		"Consider motion to stay proceedings pending resolution",
		"Prepare detailed affidavit documenting all prejudice factors",
		"Consult with appellate counsel regarding potential mandamus relief",
		"Implement comprehensive documentation protocol for all interactions",
	},
	LevelHigh: {
		"File a motion to recuse/disqualify or for disclosure of potential conflicts",
		"Consider requesting a hearing on prejudice concerns",
		"Develop detailed documentation of all prejudice indicators",
		"Implement strategic adjustments to case presentation",
		"Prepare record for potential appeal on prejudice grounds",
	},
	LevelMedium: {
		"Enhance documentation of potential prejudice indicators",
		"Consider strategic motion practice to test for bias",
		"Modify case presentation approach to mitigate prejudice impact",
		"Request written rulings for significant decisions",
		"Preserve all procedural objections related to potential prejudice",
	},
	LevelLow: {
		"Document potential prejudice indicators as they arise",
		"Track rulings for emerging patterns",
		"Compare treatment with opposing party",
		"Maintain professional conduct to avoid escalation",
		"Reassess risk level periodically throughout proceedings",
	},
}

// Recommendations returns the fixed guidance list for a risk level. The text
// is part of the API contract.
func Recommendations(level string) []string {
	recs := recommendationsByLevel[level]
	out := make([]string, len(recs))
	copy(out, recs)
	return out
}
