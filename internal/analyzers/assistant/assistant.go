// Package assistant is Lucid's reference conversational plugin: a static
// keyword responder for common harm-reduction questions. It does no natural
// language understanding.
package assistant

import (
	"context"
	"strings"

	"github.com/serenlabs/lucid/internal/plugin"
	"github.com/serenlabs/lucid/internal/plugin/builtin"
)

// EntryPoint identifies this implementation in plugin manifests.
const EntryPoint = "lucid.assistant.v1"

func init() {
	builtin.Register(EntryPoint, New)
}

// Manifest describes the assistant plugin package.
func Manifest() plugin.Manifest {
	return plugin.Manifest{
		ID:          "assistant",
		Name:        "Harm Reduction Assistant",
		Version:     "1.0.0",
		Description: "Answers common harm-reduction questions with canned responses.",
		Author:      "Lucid",
		EntryPoint:  EntryPoint,
	}
}

// canned maps lowercase keywords to static answers, checked in order.
var canned = []struct {
	keywords []string
	answer   string
}{
	{
		keywords: []string{"tolerance"},
		answer: "Tolerance builds quickly with most psychedelics and fades over one to " +
			"two weeks of abstinence. Increasing the dose to compensate is the main " +
			"driver of escalation; a break is safer than a bigger dose.",
	},
	{
		keywords: []string{"combine", "combination", "mix", "interaction"},
		answer: "Combining substances multiplies risk unpredictably. Depressant pairs " +
			"(alcohol, opioids, benzodiazepines, GHB) are the most dangerous. Check the " +
			"interaction warnings in your analysis before mixing anything.",
	},
	{
		keywords: []string{"spacing", "interval", "how often", "frequency"},
		answer: "Common spacing guidance: at least two weeks between classic psychedelic " +
			"sessions and three months between MDMA sessions. Your timing analysis " +
			"compares your actual intervals against these minimums.",
	},
	{
		keywords: []string{"set and setting", "setting", "environment"},
		answer: "Set and setting shape outcomes more than dose for many substances. Your " +
			"quality analysis shows which recorded locations correlate with your best " +
			"and worst experiences.",
	},
	{
		keywords: []string{"risk", "score"},
		answer: "The risk score weighs recent usage frequency, substance variety, and " +
			"low-rated experiences into a single 0 to 1 value. Scores above 0.7 mean it " +
			"is time to slow down.",
	},
}

const fallbackAnswer = "I can answer basic questions about tolerance, combinations, " +
	"spacing, set and setting, and your risk score. For anything beyond that, " +
	"consult a harm-reduction resource."

// Assistant implements the plugin contract around the static responder.
type Assistant struct{}

// New constructs an assistant instance.
func New() plugin.Plugin {
	return &Assistant{}
}

// Initialize requires nothing from the host.
func (a *Assistant) Initialize(_ context.Context, host *plugin.HostContext) error {
	host.Log.Debug().Msg("assistant initialized")
	return nil
}

// Shutdown releases nothing.
func (a *Assistant) Shutdown() error { return nil }

// Capabilities exposes the single conversational capability.
func (a *Assistant) Capabilities() []plugin.Capability {
	return []plugin.Capability{
		plugin.ConversationalCapability{
			CapabilityInfo: plugin.CapabilityInfo{
				ID:          "assistant",
				Name:        "Harm Reduction Assistant",
				Description: "Static responder for common harm-reduction questions",
			},
			Process: a.Process,
		},
	}
}

// Process matches the query against the canned answer table.
func (a *Assistant) Process(_ context.Context, q plugin.Query) (*plugin.Response, error) {
	text := strings.ToLower(q.Text)
	for _, entry := range canned {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				return &plugin.Response{Text: entry.answer}, nil
			}
		}
	}
	return &plugin.Response{
		Text: fallbackAnswer,
		Suggestions: []string{
			"How long does tolerance last?",
			"Is it safe to combine substances?",
			"How often is too often?",
		},
	}, nil
}
