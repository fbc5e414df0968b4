package analytics

import (
	"testing"
	"time"

	"github.com/serenlabs/lucid/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
}

func TestPearson_PerfectCorrelation(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{2, 4, 6, 8, 10}
	assert.InDelta(t, 1.0, Pearson(xs, ys), 1e-9)

	inverse := []float64{10, 8, 6, 4, 2}
	assert.InDelta(t, -1.0, Pearson(xs, inverse), 1e-9)
}

func TestPearson_ZeroVariance(t *testing.T) {
	flat := []float64{5, 5, 5, 5}
	varying := []float64{1, 2, 3, 4}

	assert.Equal(t, 0.0, Pearson(flat, varying))
	assert.Equal(t, 0.0, Pearson(varying, flat))
	assert.Equal(t, 0.0, Pearson(flat, flat))
}

func TestPearson_DegenerateInputs(t *testing.T) {
	assert.Equal(t, 0.0, Pearson(nil, nil))
	assert.Equal(t, 0.0, Pearson([]float64{1}, []float64{2}))
	assert.Equal(t, 0.0, Pearson([]float64{1, 2}, []float64{1}))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.5))
	assert.Equal(t, 0.42, Clamp01(0.42))
	assert.Equal(t, 1.0, Clamp01(7.3))
}

func TestContext_InRange(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	exps := []domain.Experience{
		{ID: "a", StartedAt: base},
		{ID: "b", StartedAt: base.AddDate(0, 0, 10)},
		{ID: "c", StartedAt: base.AddDate(0, 0, 20)},
	}

	open := &Context{Experiences: exps}
	assert.Len(t, open.InRange(), 3)

	bounded := &Context{
		Experiences: exps,
		Range: &TimeRange{
			Start: base.AddDate(0, 0, 5),
			End:   base.AddDate(0, 0, 15),
		},
	}
	got := bounded.InRange()
	assert.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestResult_Merge(t *testing.T) {
	dst := &Result{Insights: []Insight{{ID: "i1"}}}
	src := &Result{
		Insights:        []Insight{{ID: "i2"}},
		Recommendations: []Recommendation{{ID: "r1"}},
		Risk:            &RiskAssessment{OverallRisk: 0.5, Level: SeverityMedium},
	}

	dst.Merge(src)
	assert.Len(t, dst.Insights, 2)
	assert.Len(t, dst.Recommendations, 1)
	assert.NotNil(t, dst.Risk)

	// existing risk wins
	dst.Merge(&Result{Risk: &RiskAssessment{OverallRisk: 0.9}})
	assert.Equal(t, 0.5, dst.Risk.OverallRisk)

	dst.Merge(nil) // no panic
}
