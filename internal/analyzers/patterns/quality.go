package patterns

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/serenlabs/lucid/internal/analytics"
)

// minRatedExperiences is the smallest sample quality correlation works on.
const minRatedExperiences = 5

// Location average thresholds.
const (
	optimalSettingAverage    = 4.0
	suboptimalSettingAverage = 2.5
)

// CorrelateQuality relates experience quality to the recorded setting.
// With fewer than five rated experiences it reports insufficient data and
// stops.
func CorrelateQuality(actx *analytics.Context) *analytics.Result {
	result := &analytics.Result{}

	type locStats struct {
		display string
		ratings []float64
	}

	rated := 0
	byLocation := make(map[string]*locStats)
	for _, exp := range actx.InRange() {
		if !exp.Rated() {
			continue
		}
		rated++
		loc := strings.TrimSpace(exp.Location)
		if loc == "" {
			continue
		}
		key := strings.ToLower(loc)
		if byLocation[key] == nil {
			byLocation[key] = &locStats{display: loc}
		}
		byLocation[key].ratings = append(byLocation[key].ratings, float64(exp.Rating))
	}

	if rated < minRatedExperiences {
		result.Insights = append(result.Insights, analytics.Insight{
			ID:    uuid.New().String(),
			Title: "Not enough rated experiences",
			Description: fmt.Sprintf(
				"Quality correlation needs at least %d rated experiences; only %d are available.",
				minRatedExperiences, rated),
			Confidence: 1.0,
			Severity:   analytics.SeverityLow,
		})
		return result
	}

	keys := make([]string, 0, len(byLocation))
	for key := range byLocation {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	averages := make(map[string]any, len(keys))
	for _, key := range keys {
		stats := byLocation[key]
		avg := analytics.Mean(stats.ratings)
		averages[stats.display] = avg

		if avg >= optimalSettingAverage && len(byLocation) >= 2 {
			result.Recommendations = append(result.Recommendations, analytics.Recommendation{
				ID:    uuid.New().String(),
				Title: fmt.Sprintf("%q works well for you", stats.display),
				Description: fmt.Sprintf(
					"Experiences at %s average %.1f out of 5. Favoring this setting may keep quality high.",
					stats.display, avg),
				Actionable: true,
				Priority:   analytics.PriorityMedium,
				Category:   analytics.CategorySetting,
			})
		}
		if avg <= suboptimalSettingAverage {
			result.Insights = append(result.Insights, analytics.Insight{
				ID:    uuid.New().String(),
				Title: fmt.Sprintf("Poor experiences at %q", stats.display),
				Description: fmt.Sprintf(
					"Experiences at %s average only %.1f out of 5 across %d sessions.",
					stats.display, avg, len(stats.ratings)),
				Confidence: 0.7,
				Severity:   analytics.SeverityMedium,
			})
		}
	}

	if len(averages) > 0 {
		result.Visualizations = append(result.Visualizations, analytics.VisualizationData{
			ID:    uuid.New().String(),
			Kind:  analytics.ChartBar,
			Title: "Average quality by location",
			Data:  map[string]any{"averages": averages},
		})
	}
	return result
}
