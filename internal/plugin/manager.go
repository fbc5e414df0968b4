package plugin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/serenlabs/lucid/internal/hooks"
	"github.com/serenlabs/lucid/internal/logging"
)

// enabledPrefPrefix namespaces the manager's persisted enable flags.
const enabledPrefPrefix = "plugin_enabled_"

// packageExt is the on-disk extension for stored plugin packages.
const packageExt = ".zip"

// Info is the runtime projection of an installed plugin: its manifest plus
// the persisted enable flag and the current in-memory load state.
type Info struct {
	Manifest  Manifest `json:"manifest"`
	IsEnabled bool     `json:"isEnabled"`
	IsLoaded  bool     `json:"isLoaded"`
	LastError string   `json:"lastError,omitempty"`
}

// RegisteredCapability pairs a capability with the plugin that exposed it.
type RegisteredCapability struct {
	PluginID   string
	Capability Capability
}

// Options configures a Manager.
type Options struct {
	Dir         string        // plugin store directory
	LoadTimeout time.Duration // bound on package I/O and Initialize, default 5s
	Resolver    Resolver      // entry-point resolution
	Services    HostServices  // scoped down per plugin at Initialize time
}

// Manager owns the catalogue of installed plugins and is the only writer of
// enabled/loaded state. Mutating operations are serialized; reads see a
// stable snapshot.
type Manager struct {
	mu          sync.RWMutex
	dir         string
	loadTimeout time.Duration
	resolver    Resolver
	services    HostServices
	log         *logging.Logger

	installed map[string]*Info
	loaded    map[string]Plugin
	order     []string // load order, drives capability index order
	caps      map[CapabilityKind][]RegisteredCapability
}

// NewManager creates a plugin manager. Call Scan to pick up plugins already
// present in the store directory.
func NewManager(opts Options) *Manager {
	timeout := opts.LoadTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	log := opts.Services.Log
	if log == nil {
		log = logging.New(nil, "silent")
		opts.Services.Log = log
	}
	return &Manager{
		dir:         opts.Dir,
		loadTimeout: timeout,
		resolver:    opts.Resolver,
		services:    opts.Services,
		log:         log.Sub("plugins"),
		installed:   make(map[string]*Info),
		loaded:      make(map[string]Plugin),
		caps:        make(map[CapabilityKind][]RegisteredCapability),
	}
}

// Scan reads the store directory, registers packages not yet in the
// catalogue, and loads plugins previously marked enabled. Unreadable or
// invalid packages are skipped with a log line.
func (m *Manager) Scan(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("scanning plugin dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), packageExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(m.dir, entry.Name()))
		if err != nil {
			m.log.Warn().Err(err).Str("file", entry.Name()).Msg("unreadable plugin package")
			continue
		}
		manifest, err := ReadPackage(data)
		if err != nil {
			m.log.Warn().Err(err).Str("file", entry.Name()).Msg("invalid plugin package")
			continue
		}
		if _, exists := m.installed[manifest.ID]; exists {
			continue
		}
		m.installed[manifest.ID] = &Info{
			Manifest:  *manifest,
			IsEnabled: m.enabledFlag(manifest.ID),
		}
		m.log.Info().Str("id", manifest.ID).Str("version", manifest.Version).Msg("plugin discovered")
	}

	// Auto-load everything previously enabled. Load failures keep the
	// catalogue entry in an inspectable error state.
	for _, id := range m.idsLocked() {
		info := m.installed[id]
		if !info.IsEnabled || info.IsLoaded {
			continue
		}
		if err := m.loadLocked(ctx, id); err != nil {
			m.log.Error().Err(err).Str("id", id).Msg("auto-load failed")
		}
	}
	return nil
}

// Install unpacks and validates a plugin package, copies it into the plugin
// store, registers it, and enables it. Validation failures leave no trace in
// the catalogue or the store. Reinstalling an id that is currently loaded
// shuts the resident instance down first so the new package is the one that
// loads.
func (m *Manager) Install(ctx context.Context, pkg []byte) (Info, error) {
	manifest, err := ReadPackage(pkg)
	if err != nil {
		return Info{}, err
	}

	m.mu.Lock()
	wasLoaded := false
	if _, loaded := m.loaded[manifest.ID]; loaded {
		wasLoaded = true
		if err := m.unloadLocked(manifest.ID); err != nil {
			m.log.Warn().Err(err).Str("id", manifest.ID).Msg("shutdown error during reinstall")
		}
	}
	if err := os.MkdirAll(m.dir, 0o700); err != nil {
		m.mu.Unlock()
		return Info{}, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	if err := os.WriteFile(m.packagePath(manifest.ID), pkg, 0o600); err != nil {
		m.mu.Unlock()
		return Info{}, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	m.installed[manifest.ID] = &Info{Manifest: *manifest}
	m.log.Info().Str("id", manifest.ID).Str("version", manifest.Version).Msg("plugin installed")

	loadErr := m.enableLocked(ctx, manifest.ID)
	info := *m.installed[manifest.ID]
	m.mu.Unlock()

	if wasLoaded {
		m.emit(ctx, hooks.EventPluginUnloaded, manifest.ID)
	}
	m.emit(ctx, hooks.EventPluginInstalled, manifest.ID)
	if info.IsLoaded {
		m.emit(ctx, hooks.EventPluginLoaded, manifest.ID)
	}
	return info, loadErr
}

// Uninstall disables a plugin (unloading it), deletes the stored package,
// and removes the catalogue entry. Uninstalling an unknown id is a no-op.
func (m *Manager) Uninstall(ctx context.Context, id string) error {
	m.mu.Lock()
	if _, ok := m.installed[id]; !ok {
		m.mu.Unlock()
		return nil
	}

	if _, loaded := m.loaded[id]; loaded {
		// Shutdown errors still unload; uninstall proceeds regardless.
		if err := m.unloadLocked(id); err != nil {
			m.log.Warn().Err(err).Str("id", id).Msg("shutdown error during uninstall")
		}
	}
	if err := m.setEnabledFlag(id, false); err != nil {
		m.log.Warn().Err(err).Str("id", id).Msg("clearing enable flag")
	}
	if err := os.Remove(m.packagePath(id)); err != nil && !os.IsNotExist(err) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	delete(m.installed, id)
	m.mu.Unlock()

	m.log.Info().Str("id", id).Msg("plugin uninstalled")
	m.emit(ctx, hooks.EventPluginUninstalled, id)
	return nil
}

// Load constructs the plugin instance, initializes it with scoped host
// accessors, and registers its capabilities.
func (m *Manager) Load(ctx context.Context, id string) error {
	m.mu.Lock()
	err := m.loadLocked(ctx, id)
	m.mu.Unlock()

	if err == nil {
		m.emit(ctx, hooks.EventPluginLoaded, id)
	}
	return err
}

// Unload shuts the plugin down and removes it from the loaded table. The
// plugin is removed even when Shutdown fails.
func (m *Manager) Unload(ctx context.Context, id string) error {
	m.mu.Lock()
	err := m.unloadLocked(id)
	m.mu.Unlock()

	if err == nil || !errors.Is(err, ErrNotLoaded) {
		m.emit(ctx, hooks.EventPluginUnloaded, id)
	}
	return err
}

// Enable persists the enable flag, then loads the plugin. Enabling an
// already-loaded plugin is a no-op beyond the flag write.
func (m *Manager) Enable(ctx context.Context, id string) error {
	m.mu.Lock()
	err := m.enableLocked(ctx, id)
	loaded := err == nil && m.installed[id] != nil && m.installed[id].IsLoaded
	m.mu.Unlock()

	if loaded {
		m.emit(ctx, hooks.EventPluginLoaded, id)
	}
	return err
}

// Disable persists the flag and unloads the plugin. A disabled plugin is
// never loaded.
func (m *Manager) Disable(ctx context.Context, id string) error {
	m.mu.Lock()
	info, ok := m.installed[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotInstalled, id)
	}
	if err := m.setEnabledFlag(id, false); err != nil {
		m.mu.Unlock()
		return err
	}
	info.IsEnabled = false

	var err error
	wasLoaded := false
	if _, loaded := m.loaded[id]; loaded {
		wasLoaded = true
		err = m.unloadLocked(id)
	}
	m.mu.Unlock()

	if wasLoaded {
		m.emit(ctx, hooks.EventPluginUnloaded, id)
	}
	return err
}

// Get returns a snapshot of one catalogue entry.
func (m *Manager) Get(id string) (Info, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.installed[id]
	if !ok {
		return Info{}, false
	}
	return *info, true
}

// Plugins returns a snapshot of the catalogue, sorted by plugin id.
func (m *Manager) Plugins() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]Info, 0, len(m.installed))
	for _, info := range m.installed {
		infos = append(infos, *info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Manifest.ID < infos[j].Manifest.ID
	})
	return infos
}

// Capabilities returns all capabilities of the requested kind across loaded
// plugins, in load order. Pure read.
func (m *Manager) Capabilities(kind CapabilityKind) []RegisteredCapability {
	m.mu.RLock()
	defer m.mu.RUnlock()

	caps := make([]RegisteredCapability, len(m.caps[kind]))
	copy(caps, m.caps[kind])
	return caps
}

func (m *Manager) loadLocked(ctx context.Context, id string) error {
	info, ok := m.installed[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInstalled, id)
	}
	if _, loaded := m.loaded[id]; loaded {
		return fmt.Errorf("%w: %s", ErrAlreadyLoaded, id)
	}

	factory, ok := m.resolver.Resolve(info.Manifest.EntryPoint)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownEntryPoint, info.Manifest.EntryPoint)
		info.LastError = err.Error()
		return err
	}

	instance := factory()
	hostCtx := newHostContext(&info.Manifest, m.services)

	initCtx, cancel := context.WithTimeout(ctx, m.loadTimeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- instance.Initialize(initCtx, hostCtx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			wrapped := fmt.Errorf("%w: %v", ErrInitFailed, err)
			info.LastError = wrapped.Error()
			return wrapped
		}
	case <-initCtx.Done():
		wrapped := fmt.Errorf("%w: %s", ErrLoadTimeout, id)
		info.LastError = wrapped.Error()
		return wrapped
	}

	m.loaded[id] = instance
	m.order = append(m.order, id)
	info.IsLoaded = true
	info.LastError = ""
	m.rebuildCapabilityIndexLocked()

	m.log.Info().Str("id", id).Str("version", info.Manifest.Version).Msg("plugin loaded")
	return nil
}

func (m *Manager) unloadLocked(id string) error {
	instance, ok := m.loaded[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotLoaded, id)
	}

	shutdownErr := instance.Shutdown()

	delete(m.loaded, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if info, ok := m.installed[id]; ok {
		info.IsLoaded = false
		if shutdownErr != nil {
			info.LastError = shutdownErr.Error()
		}
	}
	m.rebuildCapabilityIndexLocked()

	m.log.Info().Str("id", id).Msg("plugin unloaded")
	if shutdownErr != nil {
		return fmt.Errorf("%w: %v", ErrShutdownFailed, shutdownErr)
	}
	return nil
}

func (m *Manager) enableLocked(ctx context.Context, id string) error {
	info, ok := m.installed[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInstalled, id)
	}
	if err := m.setEnabledFlag(id, true); err != nil {
		return err
	}
	info.IsEnabled = true

	if _, loaded := m.loaded[id]; loaded {
		return nil
	}
	return m.loadLocked(ctx, id)
}

func (m *Manager) rebuildCapabilityIndexLocked() {
	caps := make(map[CapabilityKind][]RegisteredCapability)
	for _, id := range m.order {
		instance, ok := m.loaded[id]
		if !ok {
			continue
		}
		for _, c := range instance.Capabilities() {
			caps[c.Kind()] = append(caps[c.Kind()], RegisteredCapability{
				PluginID:   id,
				Capability: c,
			})
		}
	}
	m.caps = caps
}

func (m *Manager) idsLocked() []string {
	ids := make([]string, 0, len(m.installed))
	for id := range m.installed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Manager) packagePath(id string) string {
	return filepath.Join(m.dir, id+packageExt)
}

func (m *Manager) enabledFlag(id string) bool {
	if m.services.Prefs == nil {
		return false
	}
	v, ok, err := m.services.Prefs.Get(enabledPrefPrefix + id)
	if err != nil {
		m.log.Warn().Err(err).Str("id", id).Msg("reading enable flag")
		return false
	}
	return ok && v == "true"
}

func (m *Manager) setEnabledFlag(id string, enabled bool) error {
	if m.services.Prefs == nil {
		return nil
	}
	value := "false"
	if enabled {
		value = "true"
	}
	if err := m.services.Prefs.Set(enabledPrefPrefix+id, value); err != nil {
		return fmt.Errorf("persisting enable flag: %w", err)
	}
	return nil
}

func (m *Manager) emit(ctx context.Context, event, id string) {
	if m.services.Hooks == nil {
		return
	}
	m.services.Hooks.Emit(ctx, event, map[string]any{"id": id})
}
