package plugin

import "context"

// Plugin is the contract every Lucid plugin implements. The host invokes
// capabilities without knowing the plugin's internals.
type Plugin interface {
	// Initialize prepares the plugin with scoped host accessors. It is
	// called once per load; failure leaves the plugin unloaded.
	Initialize(ctx context.Context, host *HostContext) error

	// Shutdown releases the plugin's resources. Called once per unload.
	Shutdown() error

	// Capabilities returns the extension points the plugin exposes.
	// A plugin may expose any number of capabilities of any variant.
	Capabilities() []Capability
}

// Factory constructs a fresh plugin instance.
type Factory func() Plugin

// Resolver maps a manifest entry point to a plugin factory. Lucid links
// plugin implementations statically and selects them by entry-point id;
// the contract is independent of the loading mechanism.
type Resolver interface {
	Resolve(entryPoint string) (Factory, bool)
}
