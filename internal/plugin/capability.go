package plugin

import (
	"context"

	"github.com/serenlabs/lucid/internal/analytics"
)

// CapabilityKind discriminates the closed set of capability variants.
type CapabilityKind string

const (
	KindAnalytics      CapabilityKind = "analytics"
	KindVisualization  CapabilityKind = "visualization"
	KindConversational CapabilityKind = "conversational"
)

// CapabilityInfo identifies a capability within its plugin.
type CapabilityInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Capability is one typed extension point a plugin exposes. Dispatch matches
// on Kind; the concrete variants below are the only implementations.
type Capability interface {
	Kind() CapabilityKind
	Describe() CapabilityInfo
}

// AnalyzeFunc runs one analysis pass over a shared read-only context.
type AnalyzeFunc func(ctx context.Context, actx *analytics.Context) (*analytics.Result, error)

// AnalyticsCapability turns historical records into insights,
// recommendations, and risk assessments.
type AnalyticsCapability struct {
	CapabilityInfo
	Analyze AnalyzeFunc
}

func (c AnalyticsCapability) Kind() CapabilityKind     { return KindAnalytics }
func (c AnalyticsCapability) Describe() CapabilityInfo { return c.CapabilityInfo }

// VisualizationContext is the input to a visualization capability.
type VisualizationContext struct {
	Payload analytics.VisualizationData
	Width   int
	Height  int
}

// RenderedOutput is the product of a visualization capability.
type RenderedOutput struct {
	Format  string // e.g. "text", "svg"
	Content []byte
}

// RenderFunc renders one chart payload.
type RenderFunc func(ctx context.Context, vctx *VisualizationContext) (*RenderedOutput, error)

// VisualizationCapability renders chart payloads into displayable output.
type VisualizationCapability struct {
	CapabilityInfo
	Render RenderFunc
}

func (c VisualizationCapability) Kind() CapabilityKind     { return KindVisualization }
func (c VisualizationCapability) Describe() CapabilityInfo { return c.CapabilityInfo }

// Query is a question posed to a conversational capability.
type Query struct {
	Text string `json:"text"`
}

// Response is a conversational capability's answer.
type Response struct {
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// ProcessFunc answers one conversational query.
type ProcessFunc func(ctx context.Context, q Query) (*Response, error)

// ConversationalCapability answers user questions. In Lucid's reference
// implementation this is a static responder, not a reasoning engine.
type ConversationalCapability struct {
	CapabilityInfo
	Process ProcessFunc
}

func (c ConversationalCapability) Kind() CapabilityKind     { return KindConversational }
func (c ConversationalCapability) Describe() CapabilityInfo { return c.CapabilityInfo }
