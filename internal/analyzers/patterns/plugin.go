// Package patterns is Lucid's reference analytics plugin. It derives
// interaction warnings, tolerance trends, quality correlations, timing
// findings, and an aggregate risk score from the user's experience log.
package patterns

import (
	"context"

	"github.com/serenlabs/lucid/internal/analytics"
	"github.com/serenlabs/lucid/internal/plugin"
	"github.com/serenlabs/lucid/internal/plugin/builtin"
)

// EntryPoint identifies this implementation in plugin manifests.
const EntryPoint = "lucid.patterns.v1"

func init() {
	builtin.Register(EntryPoint, New)
}

// Manifest describes the pattern-recognition plugin package.
func Manifest() plugin.Manifest {
	return plugin.Manifest{
		ID:          "pattern-recognition",
		Name:        "Pattern Recognition",
		Version:     "1.0.0",
		Description: "Detects interaction, tolerance, quality, timing, and risk patterns in the experience log.",
		Author:      "Lucid",
		Permissions: []plugin.Permission{
			plugin.PermReadExperiences,
			plugin.PermReadSubstances,
			plugin.PermAnalyticsAccess,
		},
		EntryPoint: EntryPoint,
	}
}

// Analyzer implements the plugin contract around the five analyses.
type Analyzer struct {
	host *plugin.HostContext
}

// New constructs an uninitialized analyzer instance.
func New() plugin.Plugin {
	return &Analyzer{}
}

// Initialize stores the scoped host accessors.
func (a *Analyzer) Initialize(_ context.Context, host *plugin.HostContext) error {
	a.host = host
	host.Log.Debug().Msg("pattern analyzer initialized")
	return nil
}

// Shutdown releases nothing; the analyzer holds no resources.
func (a *Analyzer) Shutdown() error {
	return nil
}

// Capabilities exposes the single analytics capability.
func (a *Analyzer) Capabilities() []plugin.Capability {
	return []plugin.Capability{
		plugin.AnalyticsCapability{
			CapabilityInfo: plugin.CapabilityInfo{
				ID:          "pattern-recognition",
				Name:        "Pattern Recognition",
				Description: "Statistical pattern analysis over historical experiences",
			},
			Analyze: a.Analyze,
		},
	}
}

// Analyze runs all five analyses over the shared context and unions their
// findings. Cancellation stops between analyses and returns the partial
// result accumulated so far.
func (a *Analyzer) Analyze(ctx context.Context, actx *analytics.Context) (*analytics.Result, error) {
	result := &analytics.Result{}

	analyses := []func(*analytics.Context) *analytics.Result{
		DetectInteractions,
		TrackTolerance,
		CorrelateQuality,
		AnalyzeTiming,
		AssessRisk,
	}
	for _, analyze := range analyses {
		if ctx.Err() != nil {
			return result, nil
		}
		result.Merge(analyze(actx))
	}
	return result, nil
}
