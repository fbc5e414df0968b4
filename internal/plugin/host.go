package plugin

import (
	"context"
	"fmt"
	"time"

	"github.com/serenlabs/lucid/internal/domain"
	"github.com/serenlabs/lucid/internal/hooks"
	"github.com/serenlabs/lucid/internal/logging"
)

// PrefPrefix namespaces plugin-written preference keys.
const PrefPrefix = "plugin_pref_"

// RecordSource reads journaled experiences. *store.ExperienceStore satisfies it.
type RecordSource interface {
	List(since time.Time) ([]domain.Experience, error)
}

// RecordSink writes journaled experiences.
type RecordSink interface {
	Insert(exp *domain.Experience) error
}

// SubstanceSource loads the known-substance catalog.
type SubstanceSource interface {
	Catalog() (*domain.Catalog, error)
}

// KV is the host's flat preference contract.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// HostServices bundles the host-side collaborators the manager scopes down
// for each plugin. Plugins never see these directly.
type HostServices struct {
	Records    RecordSource
	RecordSink RecordSink
	Substances SubstanceSource
	Prefs      KV
	Hooks      *hooks.Manager
	Log        *logging.Logger
}

// RecordAccess is a plugin's view of the experience log. Calls fail with
// ErrPermissionDenied unless the manifest declares the matching permission.
type RecordAccess interface {
	List(since time.Time) ([]domain.Experience, error)
	Insert(exp *domain.Experience) error
}

// SubstanceAccess is a plugin's view of the substance catalog.
type SubstanceAccess interface {
	Catalog() (*domain.Catalog, error)
}

// PrefAccess is a plugin's namespaced key/value settings. Keys are stored
// under the plugin_pref_ prefix.
type PrefAccess interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// NotifyAccess lets a plugin raise a notification on the host event bus.
type NotifyAccess interface {
	Send(ctx context.Context, title, body string) error
}

// HostContext is handed to a plugin's Initialize. It exposes the host only
// through narrow, permission-gated accessors.
type HostContext struct {
	PluginID string
	Log      *logging.Logger

	Records    RecordAccess
	Substances SubstanceAccess
	Prefs      PrefAccess
	Notify     NotifyAccess
}

// newHostContext builds the scoped accessors for one plugin. Permission
// checks are enforced here, at the context-interface boundary.
func newHostContext(m *Manifest, svc HostServices) *HostContext {
	return &HostContext{
		PluginID:   m.ID,
		Log:        svc.Log.Sub("plugin." + m.ID),
		Records:    &gatedRecords{manifest: m, source: svc.Records, sink: svc.RecordSink},
		Substances: &gatedSubstances{manifest: m, source: svc.Substances},
		Prefs:      &namespacedPrefs{kv: svc.Prefs},
		Notify:     &gatedNotifier{manifest: m, hooks: svc.Hooks},
	}
}

type gatedRecords struct {
	manifest *Manifest
	source   RecordSource
	sink     RecordSink
}

func (g *gatedRecords) List(since time.Time) ([]domain.Experience, error) {
	if !g.manifest.Has(PermReadExperiences) {
		return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, PermReadExperiences)
	}
	if g.source == nil {
		return nil, nil
	}
	return g.source.List(since)
}

func (g *gatedRecords) Insert(exp *domain.Experience) error {
	if !g.manifest.Has(PermWriteExperiences) {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, PermWriteExperiences)
	}
	if g.sink == nil {
		return fmt.Errorf("record sink unavailable")
	}
	return g.sink.Insert(exp)
}

type gatedSubstances struct {
	manifest *Manifest
	source   SubstanceSource
}

func (g *gatedSubstances) Catalog() (*domain.Catalog, error) {
	if !g.manifest.Has(PermReadSubstances) {
		return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, PermReadSubstances)
	}
	if g.source == nil {
		return nil, nil
	}
	return g.source.Catalog()
}

type namespacedPrefs struct {
	kv KV
}

func (p *namespacedPrefs) Get(key string) (string, bool, error) {
	if p.kv == nil {
		return "", false, nil
	}
	return p.kv.Get(PrefPrefix + key)
}

func (p *namespacedPrefs) Set(key, value string) error {
	if p.kv == nil {
		return fmt.Errorf("preference store unavailable")
	}
	return p.kv.Set(PrefPrefix+key, value)
}

type gatedNotifier struct {
	manifest *Manifest
	hooks    *hooks.Manager
}

func (g *gatedNotifier) Send(ctx context.Context, title, body string) error {
	if !g.manifest.Has(PermSendNotifications) {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, PermSendNotifications)
	}
	if g.hooks == nil {
		return nil
	}
	g.hooks.Emit(ctx, hooks.EventPluginNotification, map[string]any{
		"plugin": g.manifest.ID,
		"title":  title,
		"body":   body,
	})
	return nil
}
