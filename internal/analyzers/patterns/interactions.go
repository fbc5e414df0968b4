package patterns

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/serenlabs/lucid/internal/analytics"
	"github.com/serenlabs/lucid/internal/domain"
)

// negativeFractionThreshold is the minimum share of badly rated experiences
// before a personal combination warning is raised.
const negativeFractionThreshold = 0.6

// dangerousPairs is the fixed table of combinations warned about regardless
// of personal history. Names are matched as case-insensitive substrings.
var dangerousPairs = []struct {
	a, b   string
	reason string
}{
	{"mdma", "maoi", "risk of serotonin syndrome"},
	{"mdma", "tramadol", "risk of serotonin syndrome"},
	{"mdma", "dxm", "risk of serotonin syndrome"},
	{"alcohol", "ghb", "combined respiratory depression"},
	{"alcohol", "benzo", "combined respiratory depression"},
	{"opioid", "benzo", "combined respiratory depression"},
	{"opioid", "alcohol", "combined respiratory depression"},
	{"alcohol", "ketamine", "nausea and severe loss of coordination"},
	{"cocaine", "alcohol", "cocaethylene formation strains the heart"},
	{"lithium", "lsd", "elevated seizure risk"},
	{"lithium", "psilocybin", "elevated seizure risk"},
}

// DetectInteractions groups experiences by the set of substances taken
// together, flags combinations with a poor personal track record, and
// cross-references all observed combinations against the known dangerous
// pairs table.
func DetectInteractions(actx *analytics.Context) *analytics.Result {
	result := &analytics.Result{}

	combos := make(map[string][]domain.Experience)
	for _, exp := range actx.InRange() {
		key := exp.CombinationKey()
		if key == "" {
			continue
		}
		combos[key] = append(combos[key], exp)
	}
	if len(combos) == 0 {
		return result
	}

	keys := make([]string, 0, len(combos))
	for key := range combos {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		exps := combos[key]
		substances := strings.Split(key, "+")

		if len(exps) >= 2 {
			rated, negative := 0, 0
			for _, exp := range exps {
				if !exp.Rated() {
					continue
				}
				rated++
				if exp.Rating <= 2 {
					negative++
				}
			}
			if rated > 0 {
				frac := float64(negative) / float64(rated)
				if frac > negativeFractionThreshold {
					severity := analytics.SeverityHigh
					if frac >= 0.8 {
						severity = analytics.SeverityCritical
					}
					result.Insights = append(result.Insights, analytics.Insight{
						ID:    uuid.New().String(),
						Title: fmt.Sprintf("Negative pattern for %s", displayCombo(substances)),
						Description: fmt.Sprintf(
							"%d of %d rated experiences combining %s were rated 2 or lower.",
							negative, rated, displayCombo(substances)),
						Confidence: min(frac, 0.9),
						Severity:   severity,
					})
					result.Recommendations = append(result.Recommendations, analytics.Recommendation{
						ID:    uuid.New().String(),
						Title: fmt.Sprintf("Avoid combining %s", displayCombo(substances)),
						Description: "This combination has repeatedly produced poor experiences. " +
							"Consider using these substances separately, if at all.",
						Actionable: true,
						Priority:   analytics.PriorityHigh,
						Category:   analytics.CategorySafety,
					})
				}
			}
		}

		for _, pair := range dangerousPairs {
			if containsMatch(substances, pair.a) && containsMatch(substances, pair.b) {
				result.Insights = append(result.Insights, analytics.Insight{
					ID:    uuid.New().String(),
					Title: fmt.Sprintf("Dangerous combination: %s + %s", pair.a, pair.b),
					Description: fmt.Sprintf(
						"Combining %s carries %s. This warning applies regardless of past outcomes.",
						displayCombo(substances), pair.reason),
					Confidence: 0.95,
					Severity:   analytics.SeverityCritical,
				})
			}
		}
	}

	if len(result.Insights) > 0 {
		result.Visualizations = append(result.Visualizations, analytics.VisualizationData{
			ID:    uuid.New().String(),
			Kind:  analytics.ChartNetwork,
			Title: "Substance combinations",
			Data:  comboCounts(combos),
		})
	}
	return result
}

// containsMatch reports whether any substance name contains needle,
// case-insensitive.
func containsMatch(substances []string, needle string) bool {
	for _, s := range substances {
		if strings.Contains(strings.ToLower(s), strings.ToLower(needle)) {
			return true
		}
	}
	return false
}

func displayCombo(substances []string) string {
	return strings.Join(substances, " + ")
}

func comboCounts(combos map[string][]domain.Experience) map[string]any {
	counts := make(map[string]any, len(combos))
	for key, exps := range combos {
		counts[key] = len(exps)
	}
	return map[string]any{"combinations": counts}
}
