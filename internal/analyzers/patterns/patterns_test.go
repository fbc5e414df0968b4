package patterns

import (
	"context"
	"testing"
	"time"

	"github.com/serenlabs/lucid/internal/analytics"
	"github.com/serenlabs/lucid/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)

func experience(daysAfter int, rating int, substances ...string) domain.Experience {
	start := day0.AddDate(0, 0, daysAfter)
	exp := domain.Experience{
		ID:        start.Format("20060102"),
		StartedAt: start,
		Rating:    rating,
	}
	for _, name := range substances {
		exp.Ingestions = append(exp.Ingestions, domain.Ingestion{
			SubstanceName: name,
			Dose:          1,
			Unit:          "mg",
			Timestamp:     start,
		})
	}
	return exp
}

func TestDetectInteractions_NegativeComboHistory(t *testing.T) {
	actx := &analytics.Context{Experiences: []domain.Experience{
		experience(0, 2, "foo", "bar"),
		experience(10, 4, "foo", "bar"),
		experience(20, 1, "foo", "bar"),
	}}

	result := DetectInteractions(actx)

	require.Len(t, result.Insights, 1)
	insight := result.Insights[0]
	assert.InDelta(t, 2.0/3.0, insight.Confidence, 0.001)
	assert.Equal(t, analytics.SeverityHigh, insight.Severity)
	assert.Contains(t, insight.Description, "2 of 3")

	require.Len(t, result.Recommendations, 1)
	rec := result.Recommendations[0]
	assert.Equal(t, analytics.CategorySafety, rec.Category)
	assert.Equal(t, analytics.PriorityHigh, rec.Priority)
	assert.True(t, rec.Actionable)
}

func TestDetectInteractions_StableInsightOrder(t *testing.T) {
	exps := []domain.Experience{
		experience(0, 1, "zeta", "yotta"),
		experience(5, 1, "zeta", "yotta"),
		experience(10, 1, "axo", "bixo"),
		experience(15, 1, "axo", "bixo"),
	}

	// Insights come back in combination-key order on every run.
	for i := 0; i < 5; i++ {
		result := DetectInteractions(&analytics.Context{Experiences: exps})
		require.Len(t, result.Insights, 2)
		assert.Equal(t, "Negative pattern for axo + bixo", result.Insights[0].Title)
		assert.Equal(t, "Negative pattern for yotta + zeta", result.Insights[1].Title)
	}
}

func TestDetectInteractions_AllNegativeIsCritical(t *testing.T) {
	actx := &analytics.Context{Experiences: []domain.Experience{
		experience(0, 1, "foo", "bar"),
		experience(10, 2, "foo", "bar"),
	}}

	result := DetectInteractions(actx)

	require.Len(t, result.Insights, 1)
	assert.Equal(t, analytics.SeverityCritical, result.Insights[0].Severity)
	// Confidence never reports full certainty.
	assert.InDelta(t, 0.9, result.Insights[0].Confidence, 0.001)
}

func TestDetectInteractions_GoodHistoryStaysQuiet(t *testing.T) {
	actx := &analytics.Context{Experiences: []domain.Experience{
		experience(0, 4, "foo", "bar"),
		experience(10, 5, "foo", "bar"),
		experience(20, 2, "foo", "bar"),
	}}

	result := DetectInteractions(actx)
	assert.Empty(t, result.Insights)
	assert.Empty(t, result.Recommendations)
}

func TestDetectInteractions_KnownDangerousPair(t *testing.T) {
	// A single use with no ratings still triggers the fixed-table warning.
	actx := &analytics.Context{Experiences: []domain.Experience{
		experience(0, 0, "MDMA", "Tramadol"),
	}}

	result := DetectInteractions(actx)

	require.Len(t, result.Insights, 1)
	insight := result.Insights[0]
	assert.Equal(t, analytics.SeverityCritical, insight.Severity)
	assert.InDelta(t, 0.95, insight.Confidence, 0.001)
	assert.Contains(t, insight.Description, "serotonin")
}

func TestDetectInteractions_SingleSubstanceIgnored(t *testing.T) {
	actx := &analytics.Context{Experiences: []domain.Experience{
		experience(0, 1, "foo"),
		experience(5, 1, "foo"),
		experience(9, 1, "foo"),
	}}

	result := DetectInteractions(actx)
	assert.Empty(t, result.Insights)
}

func TestTrackTolerance_EscalatingDoses(t *testing.T) {
	doses := []float64{10, 12, 15, 20, 26}
	var exps []domain.Experience
	for i, dose := range doses {
		exp := experience(i*7, 3, "foo")
		exp.Ingestions[0].Dose = dose
		exps = append(exps, exp)
	}

	result := TrackTolerance(&analytics.Context{Experiences: exps})

	require.Len(t, result.Insights, 1)
	insight := result.Insights[0]
	assert.Contains(t, insight.Title, "foo")
	// 3 of 4 consecutive steps exceed the 20% escalation threshold.
	assert.Contains(t, insight.Description, "3 of 4")
	assert.InDelta(t, 0.75, insight.Confidence, 0.001)
	assert.Equal(t, analytics.SeverityHigh, insight.Severity)

	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, analytics.CategoryDosage, result.Recommendations[0].Category)
	require.Len(t, result.Visualizations, 1)
	assert.Equal(t, analytics.ChartLine, result.Visualizations[0].Kind)
}

func TestTrackTolerance_ConstantDosesStayQuiet(t *testing.T) {
	var exps []domain.Experience
	for i := 0; i < 5; i++ {
		exp := experience(i*7, 3, "foo")
		exp.Ingestions[0].Dose = 10
		exps = append(exps, exp)
	}

	result := TrackTolerance(&analytics.Context{Experiences: exps})
	assert.Empty(t, result.Insights)
	assert.Empty(t, result.Recommendations)
}

func TestTrackTolerance_NegativeDoseQualityCorrelation(t *testing.T) {
	// Higher doses, worse ratings. Steps stay within 20% so no escalation
	// insight muddies the result.
	cases := []struct {
		dose   float64
		rating int
	}{
		{10, 5}, {11, 4}, {12, 3}, {13, 2}, {14, 1},
	}
	var exps []domain.Experience
	for i, c := range cases {
		exp := experience(i*7, c.rating, "foo")
		exp.Ingestions[0].Dose = c.dose
		exps = append(exps, exp)
	}

	result := TrackTolerance(&analytics.Context{Experiences: exps})

	require.Len(t, result.Insights, 1)
	assert.Contains(t, result.Insights[0].Title, "worse experiences")
	require.Len(t, result.Recommendations, 1)
	assert.Contains(t, result.Recommendations[0].Title, "lower doses")
}

func TestCorrelateQuality_InsufficientData(t *testing.T) {
	actx := &analytics.Context{Experiences: []domain.Experience{
		experience(0, 4, "foo"),
		experience(5, 3, "foo"),
		experience(9, 5, "foo"),
		experience(12, 0, "foo"), // unrated, does not count
	}}

	result := CorrelateQuality(actx)

	require.Len(t, result.Insights, 1)
	insight := result.Insights[0]
	assert.Equal(t, analytics.SeverityLow, insight.Severity)
	assert.Contains(t, insight.Description, "only 3")
	assert.Empty(t, result.Recommendations)
	assert.Empty(t, result.Visualizations)
}

func TestCorrelateQuality_LocationAverages(t *testing.T) {
	home := []int{5, 4, 5}
	club := []int{2, 1, 2}
	var exps []domain.Experience
	for i, r := range home {
		exp := experience(i*3, r, "foo")
		exp.Location = "Home"
		exps = append(exps, exp)
	}
	for i, r := range club {
		exp := experience(30+i*3, r, "foo")
		exp.Location = "Club"
		exps = append(exps, exp)
	}

	result := CorrelateQuality(&analytics.Context{Experiences: exps})

	require.Len(t, result.Insights, 1)
	assert.Contains(t, result.Insights[0].Title, "Club")
	require.Len(t, result.Recommendations, 1)
	assert.Contains(t, result.Recommendations[0].Title, "Home")
	assert.Equal(t, analytics.CategorySetting, result.Recommendations[0].Category)
}

func TestAnalyzeTiming_TooFrequentPsychedelicUse(t *testing.T) {
	actx := &analytics.Context{Experiences: []domain.Experience{
		experience(0, 4, "LSD"),
		experience(5, 4, "LSD"),
		experience(10, 4, "LSD"),
	}}

	result := AnalyzeTiming(actx)

	require.Len(t, result.Insights, 1)
	insight := result.Insights[0]
	// Average interval 5 days against a 14-day minimum is under half.
	assert.Equal(t, analytics.SeverityHigh, insight.Severity)
	assert.Contains(t, insight.Description, "14 days")

	require.Len(t, result.Recommendations, 1)
	rec := result.Recommendations[0]
	assert.Equal(t, analytics.CategoryTiming, rec.Category)
	assert.Contains(t, rec.Description, "14 days")
}

func TestAnalyzeTiming_CatalogClassWins(t *testing.T) {
	catalog := domain.NewCatalog([]domain.Substance{
		{Name: "candyflip", Class: domain.ClassEmpathogen},
	})
	actx := &analytics.Context{
		Catalog: catalog,
		Experiences: []domain.Experience{
			experience(0, 3, "candyflip"),
			experience(30, 3, "candyflip"),
			experience(60, 3, "candyflip"),
		},
	}

	result := AnalyzeTiming(actx)

	// 30-day spacing is fine for the default class but not for empathogens.
	require.Len(t, result.Insights, 1)
	assert.Contains(t, result.Insights[0].Description, "90 days")
}

func TestAnalyzeTiming_AdequateSpacing(t *testing.T) {
	actx := &analytics.Context{Experiences: []domain.Experience{
		experience(0, 4, "LSD"),
		experience(20, 4, "LSD"),
		experience(40, 4, "LSD"),
	}}

	result := AnalyzeTiming(actx)
	assert.Empty(t, result.Insights)
}

func TestAssessRisk_QuietHistoryIsLow(t *testing.T) {
	actx := &analytics.Context{Experiences: []domain.Experience{
		experience(0, 4, "foo"),
		experience(60, 5, "foo"),
	}}

	result := AssessRisk(actx)

	require.NotNil(t, result.Risk)
	assert.Equal(t, analytics.SeverityLow, result.Risk.Level)
	assert.Less(t, result.Risk.OverallRisk, 0.4)
	assert.Len(t, result.Risk.Factors, 3)
}

func TestAssessRisk_ExtremeInputStaysClamped(t *testing.T) {
	// Daily use of many substances, all rated poorly. Every factor
	// saturates; the composite must stay within [0,1].
	var exps []domain.Experience
	for i := 0; i < 40; i++ {
		exps = append(exps, experience(i, 1,
			"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10"))
	}

	result := AssessRisk(&analytics.Context{Experiences: exps})

	require.NotNil(t, result.Risk)
	risk := result.Risk
	assert.GreaterOrEqual(t, risk.OverallRisk, 0.0)
	assert.LessOrEqual(t, risk.OverallRisk, 1.0)
	assert.Equal(t, analytics.SeverityHigh, risk.Level)
	for _, f := range risk.Factors {
		assert.GreaterOrEqual(t, f.Score, 0.0)
		assert.LessOrEqual(t, f.Score, 1.0)
	}
	assert.NotEmpty(t, risk.Mitigations)
}

func TestAssessRisk_WindowAnchoredToRangeEnd(t *testing.T) {
	// Ten experiences all well before the range end: none fall in the
	// 30-day window, so frequency contributes nothing.
	var exps []domain.Experience
	for i := 0; i < 10; i++ {
		exps = append(exps, experience(i*3, 3, "foo"))
	}
	rangeEnd := day0.AddDate(0, 0, 365)
	actx := &analytics.Context{
		Experiences: exps,
		Range:       &analytics.TimeRange{Start: day0, End: rangeEnd},
	}

	result := AssessRisk(actx)

	require.NotNil(t, result.Risk)
	freq := result.Risk.Factors[0]
	assert.Equal(t, "usage frequency", freq.Name)
	assert.Equal(t, 0.0, freq.Score)
}

func TestAssessRisk_TunedWindow(t *testing.T) {
	var exps []domain.Experience
	for i := 0; i < 10; i++ {
		exps = append(exps, experience(i, 3, "foo"))
	}

	result := AssessRisk(&analytics.Context{
		Experiences:    exps,
		RiskWindowDays: 5,
	})

	require.NotNil(t, result.Risk)
	freq := result.Risk.Factors[0]
	// Six of the ten daily experiences fall inside the narrowed window.
	assert.InDelta(t, 0.6, freq.Score, 0.001)
	assert.Contains(t, freq.Description, "last 5 days")
}

func TestAssessRisk_NoExperiences(t *testing.T) {
	result := AssessRisk(&analytics.Context{})
	assert.Nil(t, result.Risk)
	assert.Empty(t, result.Insights)
}

func TestAnalyzer_AnalyzeMergesAllFindings(t *testing.T) {
	exps := []domain.Experience{
		experience(0, 1, "MDMA", "Tramadol"),
		experience(5, 4, "LSD"),
		experience(10, 4, "LSD"),
		experience(15, 4, "LSD"),
	}
	a := &Analyzer{}
	require.NoError(t, a.Shutdown())

	result, err := a.Analyze(context.Background(), &analytics.Context{Experiences: exps})
	require.NoError(t, err)

	assert.NotNil(t, result.Risk)
	titles := make([]string, 0, len(result.Insights))
	for _, in := range result.Insights {
		titles = append(titles, in.Title)
	}
	assert.Contains(t, titles, "Dangerous combination: mdma + tramadol")
}

func TestAnalyzer_CancelledContextReturnsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := &Analyzer{}
	result, err := a.Analyze(ctx, &analytics.Context{
		Experiences: []domain.Experience{experience(0, 3, "foo")},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Insights)
	assert.Nil(t, result.Risk)
}

func TestManifestDeclaresRequiredPermissions(t *testing.T) {
	m := Manifest()
	require.NoError(t, m.Validate())
	assert.Equal(t, EntryPoint, m.EntryPoint)
	assert.True(t, m.Has("read-experiences"))
	assert.True(t, m.Has("read-substances"))
	assert.True(t, m.Has("analytics-access"))
}
