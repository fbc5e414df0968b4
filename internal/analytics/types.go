// Package analytics defines the shared types exchanged between the host and
// analytics capabilities: the per-invocation context, insights,
// recommendations, risk assessments, and chart payloads.
package analytics

import (
	"time"

	"github.com/serenlabs/lucid/internal/domain"
)

// Severity grades an insight or risk factor.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Recommendation priorities.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Recommendation categories.
type Category string

const (
	CategorySafety  Category = "safety"
	CategoryDosage  Category = "dosage"
	CategoryTiming  Category = "timing"
	CategorySetting Category = "setting"
	CategoryGeneral Category = "general"
)

// Chart kinds carried by VisualizationData.
type ChartKind string

const (
	ChartLine     ChartKind = "line"
	ChartBar      ChartKind = "bar"
	ChartScatter  ChartKind = "scatter"
	ChartNetwork  ChartKind = "network"
	ChartTimeline ChartKind = "timeline"
	ChartGauge    ChartKind = "gauge"
)

// TimeRange bounds the records an analysis should consider.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls within the range, inclusive of the bounds.
func (r *TimeRange) Contains(t time.Time) bool {
	if r == nil {
		return true
	}
	return !t.Before(r.Start) && !t.After(r.End)
}

// Context is the read-only input handed to every analytics capability for
// one analysis pass. Constructed per invocation and owned by the caller.
type Context struct {
	Experiences []domain.Experience `json:"experiences"`
	Catalog     *domain.Catalog     `json:"-"`
	Range       *TimeRange          `json:"range,omitempty"`

	// Risk tuning. Zero values mean the analyzer's defaults.
	RiskWindowDays   int `json:"riskWindowDays,omitempty"`
	RecentSampleSize int `json:"recentSampleSize,omitempty"`
}

// InRange returns the experiences whose start time falls within the
// context's time range. With no range set, all experiences are returned.
func (c *Context) InRange() []domain.Experience {
	if c.Range == nil {
		return c.Experiences
	}
	var out []domain.Experience
	for _, e := range c.Experiences {
		if c.Range.Contains(e.StartedAt) {
			out = append(out, e)
		}
	}
	return out
}

// Insight is a generated observation about the user's data.
type Insight struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Confidence  float64  `json:"confidence"` // 0 to 1
	Severity    Severity `json:"severity"`
}

// Recommendation is an actionable suggestion derived from one or more insights.
type Recommendation struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Actionable  bool     `json:"actionable"`
	Priority    Priority `json:"priority"`
	Category    Category `json:"category"`
}

// RiskFactor is one named contributor to an overall risk score.
type RiskFactor struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Score       float64  `json:"score"` // 0 to 1, before weighting
	Severity    Severity `json:"severity"`
}

// RiskAssessment aggregates weighted risk factors into a [0,1] score.
type RiskAssessment struct {
	OverallRisk float64      `json:"overallRisk"` // 0 to 1
	Level       Severity     `json:"level"`
	Factors     []RiskFactor `json:"factors,omitempty"`
	Mitigations []string     `json:"mitigations,omitempty"`
}

// VisualizationData is a typed chart payload with a generic data map.
type VisualizationData struct {
	ID    string         `json:"id"`
	Kind  ChartKind      `json:"kind"`
	Title string         `json:"title"`
	Data  map[string]any `json:"data,omitempty"`
}

// Result is the output of one analytics capability invocation.
type Result struct {
	Insights        []Insight           `json:"insights,omitempty"`
	Recommendations []Recommendation    `json:"recommendations,omitempty"`
	Risk            *RiskAssessment     `json:"risk,omitempty"`
	Visualizations  []VisualizationData `json:"visualizations,omitempty"`
}

// Merge appends another result's findings into this one. The receiver's risk
// assessment is kept unless it is nil.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Insights = append(r.Insights, other.Insights...)
	r.Recommendations = append(r.Recommendations, other.Recommendations...)
	r.Visualizations = append(r.Visualizations, other.Visualizations...)
	if r.Risk == nil {
		r.Risk = other.Risk
	}
}
