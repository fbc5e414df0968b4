// Package analyzers bundles Lucid's bundled plugins and installs them into
// a plugin manager's store on first run.
package analyzers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/serenlabs/lucid/internal/analyzers/assistant"
	"github.com/serenlabs/lucid/internal/analyzers/patterns"
	"github.com/serenlabs/lucid/internal/plugin"
)

// Bundled returns the manifests of the plugins shipped with Lucid.
func Bundled() []plugin.Manifest {
	return []plugin.Manifest{
		patterns.Manifest(),
		assistant.Manifest(),
	}
}

// EnsureInstalled installs any bundled plugin not yet present in the
// manager's catalogue. Existing installations are left untouched.
func EnsureInstalled(ctx context.Context, mgr *plugin.Manager) error {
	for _, manifest := range Bundled() {
		if _, ok := mgr.Get(manifest.ID); ok {
			continue
		}
		doc, err := json.Marshal(manifest)
		if err != nil {
			return fmt.Errorf("encoding manifest %s: %w", manifest.ID, err)
		}
		pkg, err := plugin.BuildPackage(doc, nil)
		if err != nil {
			return fmt.Errorf("packaging %s: %w", manifest.ID, err)
		}
		if _, err := mgr.Install(ctx, pkg); err != nil {
			return fmt.Errorf("installing %s: %w", manifest.ID, err)
		}
	}
	return nil
}
