// Package builtin holds the compile-time registry of statically linked
// plugin implementations. Plugin packages register a factory for their
// entry-point id in an init function; the manager resolves manifests
// against this registry at load time.
package builtin

import (
	"sort"
	"sync"

	"github.com/serenlabs/lucid/internal/plugin"
)

var (
	mu        sync.RWMutex
	factories = make(map[string]plugin.Factory)
)

// Register binds an entry-point id to a plugin factory. Registering the
// same entry point twice panics; it indicates two plugins claiming one id.
func Register(entryPoint string, factory plugin.Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[entryPoint]; exists {
		panic("builtin: duplicate plugin entry point: " + entryPoint)
	}
	factories[entryPoint] = factory
}

// Registry implements plugin.Resolver over the package-level registrations.
type Registry struct{}

// Resolve returns the factory for an entry point, if registered.
func (Registry) Resolve(entryPoint string) (plugin.Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[entryPoint]
	return f, ok
}

// EntryPoints lists all registered entry-point ids, sorted.
func EntryPoints() []string {
	mu.RLock()
	defer mu.RUnlock()
	eps := make([]string, 0, len(factories))
	for ep := range factories {
		eps = append(eps, ep)
	}
	sort.Strings(eps)
	return eps
}
