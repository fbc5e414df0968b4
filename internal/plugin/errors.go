package plugin

import "errors"

// Failure classes surfaced by the plugin manager. Catalogue-mutating
// operations return these to the caller; dispatch never propagates them.
var (
	ErrManifestInvalid   = errors.New("plugin manifest invalid")
	ErrManifestNotFound  = errors.New("plugin package has no manifest")
	ErrAlreadyLoaded     = errors.New("plugin already loaded")
	ErrNotLoaded         = errors.New("plugin not loaded")
	ErrNotInstalled      = errors.New("plugin not installed")
	ErrInitFailed        = errors.New("plugin initialize failed")
	ErrShutdownFailed    = errors.New("plugin shutdown failed")
	ErrStoreWrite        = errors.New("plugin store write failed")
	ErrLoadTimeout       = errors.New("plugin load timed out")
	ErrUnknownEntryPoint = errors.New("no implementation registered for entry point")
	ErrPermissionDenied  = errors.New("permission not declared in manifest")
)
