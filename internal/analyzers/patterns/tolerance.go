package patterns

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/serenlabs/lucid/internal/analytics"
)

// doseIncreaseFactor marks a consecutive dose step as an escalation when the
// later dose exceeds the earlier one by more than 20%.
const doseIncreaseFactor = 1.2

// doseQualityCorrelationCutoff flags substances whose dose correlates
// negatively with experience quality.
const doseQualityCorrelationCutoff = -0.3

type doseObservation struct {
	dose   float64
	rating int // experience rating, 0 when unrated
	at     time.Time
}

// TrackTolerance looks for escalating dose patterns per substance and for
// negative dose-to-quality correlations.
func TrackTolerance(actx *analytics.Context) *analytics.Result {
	result := &analytics.Result{}

	bySubstance := make(map[string][]doseObservation)
	for _, exp := range actx.InRange() {
		for _, ing := range exp.Ingestions {
			name := strings.ToLower(strings.TrimSpace(ing.SubstanceName))
			if name == "" || ing.Dose <= 0 || ing.Timestamp.IsZero() {
				continue
			}
			bySubstance[name] = append(bySubstance[name], doseObservation{
				dose:   ing.Dose,
				rating: exp.Rating,
				at:     ing.Timestamp,
			})
		}
	}

	names := make([]string, 0, len(bySubstance))
	for name := range bySubstance {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		obs := bySubstance[name]
		if len(obs) < 3 {
			continue
		}
		sort.Slice(obs, func(i, j int) bool { return obs[i].at.Before(obs[j].at) })

		increases := 0
		for i := 1; i < len(obs); i++ {
			if obs[i].dose > obs[i-1].dose*doseIncreaseFactor {
				increases++
			}
		}
		pairs := len(obs) - 1
		ratio := float64(increases) / float64(pairs)

		if ratio > 0.5 {
			severity := analytics.SeverityMedium
			if ratio >= 0.75 {
				severity = analytics.SeverityHigh
			}
			result.Insights = append(result.Insights, analytics.Insight{
				ID:    uuid.New().String(),
				Title: fmt.Sprintf("Tolerance buildup: %s", name),
				Description: fmt.Sprintf(
					"Doses of %s increased by more than 20%% in %d of %d consecutive uses.",
					name, increases, pairs),
				Confidence: min(ratio, 0.9),
				Severity:   severity,
			})
			result.Recommendations = append(result.Recommendations, analytics.Recommendation{
				ID:    uuid.New().String(),
				Title: fmt.Sprintf("Consider a tolerance break from %s", name),
				Description: "Escalating doses suggest growing tolerance. An extended break " +
					"restores sensitivity and reduces the dose needed.",
				Actionable: true,
				Priority:   analytics.PriorityMedium,
				Category:   analytics.CategoryDosage,
			})
			result.Visualizations = append(result.Visualizations, analytics.VisualizationData{
				ID:    uuid.New().String(),
				Kind:  analytics.ChartLine,
				Title: fmt.Sprintf("Dose trend: %s", name),
				Data:  doseSeries(obs),
			})
		}

		if insight, rec, ok := doseQualityFinding(name, obs); ok {
			result.Insights = append(result.Insights, insight)
			result.Recommendations = append(result.Recommendations, rec)
		}
	}
	return result
}

// doseQualityFinding computes the Pearson correlation between dose and
// rating for one substance's rated observations.
func doseQualityFinding(name string, obs []doseObservation) (analytics.Insight, analytics.Recommendation, bool) {
	var doses, ratings []float64
	for _, o := range obs {
		if o.rating < 1 {
			continue
		}
		doses = append(doses, o.dose)
		ratings = append(ratings, float64(o.rating))
	}
	if len(doses) < 3 {
		return analytics.Insight{}, analytics.Recommendation{}, false
	}

	corr := analytics.Pearson(doses, ratings)
	if corr >= doseQualityCorrelationCutoff {
		return analytics.Insight{}, analytics.Recommendation{}, false
	}

	insight := analytics.Insight{
		ID:    uuid.New().String(),
		Title: fmt.Sprintf("Higher %s doses correlate with worse experiences", name),
		Description: fmt.Sprintf(
			"Dose and quality rating for %s show a correlation of %.2f across %d rated uses.",
			name, corr, len(doses)),
		Confidence: min(-corr, 0.9),
		Severity:   analytics.SeverityMedium,
	}
	rec := analytics.Recommendation{
		ID:    uuid.New().String(),
		Title: fmt.Sprintf("Use lower doses of %s", name),
		Description: "Your better experiences with this substance happened at lower doses. " +
			"Scaling back may improve quality.",
		Actionable: true,
		Priority:   analytics.PriorityMedium,
		Category:   analytics.CategoryDosage,
	}
	return insight, rec, true
}

func doseSeries(obs []doseObservation) map[string]any {
	times := make([]string, len(obs))
	doses := make([]float64, len(obs))
	for i, o := range obs {
		times[i] = o.at.Format(time.RFC3339)
		doses[i] = o.dose
	}
	return map[string]any{"timestamps": times, "doses": doses}
}
