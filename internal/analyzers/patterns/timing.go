package patterns

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/serenlabs/lucid/internal/analytics"
	"github.com/serenlabs/lucid/internal/domain"
)

// defaultMinIntervalDays applies to substances with no class or name match.
const defaultMinIntervalDays = 7.0

// Minimum safe spacing by substance class.
var classMinIntervalDays = map[string]float64{
	domain.ClassPsychedelic:  14,
	domain.ClassEmpathogen:   90,
	domain.ClassDissociative: 1,
}

// Name-substring fallbacks when the substance is not in the catalog.
var nameMinIntervalDays = []struct {
	substring string
	days      float64
}{
	{"lsd", 14},
	{"psilocybin", 14},
	{"mushroom", 14},
	{"mescaline", 14},
	{"2c-", 14},
	{"mdma", 90},
	{"mda", 90},
	{"ecstasy", 90},
	{"molly", 90},
	{"ketamine", 1},
	{"dxm", 1},
	{"nitrous", 1},
}

// AnalyzeTiming compares each substance's average use interval against its
// minimum safe spacing.
func AnalyzeTiming(actx *analytics.Context) *analytics.Result {
	result := &analytics.Result{}

	useDates := make(map[string][]time.Time)
	for _, exp := range actx.InRange() {
		if exp.StartedAt.IsZero() {
			continue
		}
		for _, name := range exp.SubstanceSet() {
			useDates[name] = append(useDates[name], exp.StartedAt)
		}
	}

	names := make([]string, 0, len(useDates))
	for name := range useDates {
		names = append(names, name)
	}
	sort.Strings(names)

	timelines := make(map[string]any)
	for _, name := range names {
		dates := useDates[name]
		if len(dates) < 3 {
			continue
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		var totalDays float64
		for i := 1; i < len(dates); i++ {
			totalDays += dates[i].Sub(dates[i-1]).Hours() / 24
		}
		avgDays := totalDays / float64(len(dates)-1)

		minDays := minIntervalFor(name, actx.Catalog)
		if avgDays >= minDays {
			continue
		}

		ratio := avgDays / minDays
		severity := analytics.SeverityLow
		switch {
		case ratio < 0.5:
			severity = analytics.SeverityHigh
		case ratio < 0.7:
			severity = analytics.SeverityMedium
		}

		result.Insights = append(result.Insights, analytics.Insight{
			ID:    uuid.New().String(),
			Title: fmt.Sprintf("Using %s too frequently", name),
			Description: fmt.Sprintf(
				"Average interval between uses of %s is %.1f days; the recommended minimum is %.0f days.",
				name, avgDays, minDays),
			Confidence: 0.8,
			Severity:   severity,
		})
		result.Recommendations = append(result.Recommendations, analytics.Recommendation{
			ID:    uuid.New().String(),
			Title: fmt.Sprintf("Space out %s use", name),
			Description: fmt.Sprintf(
				"Waiting at least %.0f days between uses reduces tolerance and physiological strain.",
				minDays),
			Actionable: true,
			Priority:   analytics.PriorityHigh,
			Category:   analytics.CategoryTiming,
		})
		timelines[name] = timestampStrings(dates)
	}

	if len(timelines) > 0 {
		result.Visualizations = append(result.Visualizations, analytics.VisualizationData{
			ID:    uuid.New().String(),
			Kind:  analytics.ChartTimeline,
			Title: "Use frequency",
			Data:  map[string]any{"uses": timelines},
		})
	}
	return result
}

// minIntervalFor resolves the minimum safe interval for a substance,
// preferring the catalog's class over name matching.
func minIntervalFor(name string, catalog *domain.Catalog) float64 {
	if sub, ok := catalog.Lookup(name); ok {
		if days, ok := classMinIntervalDays[sub.Class]; ok {
			return days
		}
		return defaultMinIntervalDays
	}
	lower := strings.ToLower(name)
	for _, entry := range nameMinIntervalDays {
		if strings.Contains(lower, entry.substring) {
			return entry.days
		}
	}
	return defaultMinIntervalDays
}

func timestampStrings(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(time.RFC3339)
	}
	return out
}
