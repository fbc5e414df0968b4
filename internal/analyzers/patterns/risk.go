package patterns

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/serenlabs/lucid/internal/analytics"
	"github.com/serenlabs/lucid/internal/domain"
)

// Risk factor normalization and weighting.
const (
	riskWindowDays   = 30
	riskFreqNorm     = 10.0 // occurrences in the window treated as maximal
	recentSampleSize = 5
	riskDistinctNorm = 8.0 // distinct substances treated as maximal
	riskLowRatedNorm = 5.0

	riskFreqWeight     = 0.3
	riskDistinctWeight = 0.4
	riskLowRatedWeight = 0.3
)

// Risk classification thresholds.
const (
	riskMediumThreshold = 0.4
	riskHighThreshold   = 0.7
)

// mitigationTrigger is the factor score at which a mitigation is suggested.
const mitigationTrigger = 0.5

// AssessRisk combines usage frequency, substance diversity, and recent
// experience quality into one clamped [0,1] risk score.
func AssessRisk(actx *analytics.Context) *analytics.Result {
	result := &analytics.Result{}

	exps := append([]domain.Experience(nil), actx.InRange()...)
	if len(exps) == 0 {
		return result
	}
	sort.Slice(exps, func(i, j int) bool { return exps[i].StartedAt.Before(exps[j].StartedAt) })

	windowDays := actx.RiskWindowDays
	if windowDays <= 0 {
		windowDays = riskWindowDays
	}
	sampleSize := actx.RecentSampleSize
	if sampleSize <= 0 {
		sampleSize = recentSampleSize
	}

	ref := referenceTime(actx, exps)
	windowStart := ref.AddDate(0, 0, -windowDays)

	inWindow := 0
	for _, exp := range exps {
		if !exp.StartedAt.Before(windowStart) && !exp.StartedAt.After(ref) {
			inWindow++
		}
	}
	freqScore := analytics.Clamp01(float64(inWindow) / riskFreqNorm)

	recent := exps
	if len(recent) > sampleSize {
		recent = recent[len(recent)-sampleSize:]
	}

	distinct := make(map[string]bool)
	lowRated := 0
	for _, exp := range recent {
		for _, name := range exp.SubstanceSet() {
			distinct[name] = true
		}
		if exp.Rated() && exp.Rating <= 2 {
			lowRated++
		}
	}
	distinctScore := analytics.Clamp01(float64(len(distinct)) / riskDistinctNorm)
	lowRatedScore := analytics.Clamp01(float64(lowRated) / riskLowRatedNorm)

	overall := analytics.Clamp01(
		freqScore*riskFreqWeight +
			distinctScore*riskDistinctWeight +
			lowRatedScore*riskLowRatedWeight)

	level := analytics.SeverityLow
	switch {
	case overall >= riskHighThreshold:
		level = analytics.SeverityHigh
	case overall >= riskMediumThreshold:
		level = analytics.SeverityMedium
	}

	assessment := &analytics.RiskAssessment{
		OverallRisk: overall,
		Level:       level,
		Factors: []analytics.RiskFactor{
			{
				Name:        "usage frequency",
				Description: fmt.Sprintf("%d experiences in the last %d days", inWindow, windowDays),
				Score:       freqScore,
				Severity:    factorSeverity(freqScore),
			},
			{
				Name:        "substance diversity",
				Description: fmt.Sprintf("%d distinct substances across the %d most recent experiences", len(distinct), len(recent)),
				Score:       distinctScore,
				Severity:    factorSeverity(distinctScore),
			},
			{
				Name:        "recent low ratings",
				Description: fmt.Sprintf("%d of the %d most recent experiences rated 2 or lower", lowRated, len(recent)),
				Score:       lowRatedScore,
				Severity:    factorSeverity(lowRatedScore),
			},
		},
	}

	type mitigation struct {
		score float64
		text  string
		title string
	}
	for _, m := range []mitigation{
		{freqScore, "Schedule longer breaks between sessions to bring usage frequency down.", "Slow down the pace"},
		{distinctScore, "Reduce the variety of substances used in close succession.", "Simplify your rotation"},
		{lowRatedScore, "Pause and reassess; several recent experiences went poorly.", "Take stock of recent experiences"},
	} {
		if m.score < mitigationTrigger {
			continue
		}
		assessment.Mitigations = append(assessment.Mitigations, m.text)
		result.Recommendations = append(result.Recommendations, analytics.Recommendation{
			ID:          uuid.New().String(),
			Title:       m.title,
			Description: m.text,
			Actionable:  true,
			Priority:    analytics.PriorityHigh,
			Category:    analytics.CategorySafety,
		})
	}

	result.Risk = assessment
	result.Insights = append(result.Insights, analytics.Insight{
		ID:    uuid.New().String(),
		Title: fmt.Sprintf("Overall risk: %s", level),
		Description: fmt.Sprintf(
			"Weighted risk score %.2f from usage frequency (%.2f), substance diversity (%.2f), and recent low ratings (%.2f).",
			overall, freqScore, distinctScore, lowRatedScore),
		Confidence: 0.75,
		Severity:   level,
	})
	result.Visualizations = append(result.Visualizations, analytics.VisualizationData{
		ID:    uuid.New().String(),
		Kind:  analytics.ChartGauge,
		Title: "Risk score",
		Data:  map[string]any{"value": overall, "level": string(level)},
	})
	return result
}

// referenceTime anchors the recency window: the context range's end when
// set, otherwise the latest experience, so analyses stay deterministic.
func referenceTime(actx *analytics.Context, sorted []domain.Experience) time.Time {
	if actx.Range != nil && !actx.Range.End.IsZero() {
		return actx.Range.End
	}
	return sorted[len(sorted)-1].StartedAt
}

func factorSeverity(score float64) analytics.Severity {
	switch {
	case score >= 0.75:
		return analytics.SeverityHigh
	case score >= 0.5:
		return analytics.SeverityMedium
	default:
		return analytics.SeverityLow
	}
}
