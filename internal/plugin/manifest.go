// Package plugin implements Lucid's capability plugin system: manifests and
// permissions, the plugin contract, the installed-plugin catalogue, and the
// fan-out dispatch that feeds analytics capabilities.
package plugin

import (
	"encoding/json"
	"fmt"
)

// Permission is a capability a plugin requests in its manifest.
type Permission string

// The closed set of permissions a manifest may declare.
const (
	PermReadExperiences   Permission = "read-experiences"
	PermWriteExperiences  Permission = "write-experiences"
	PermReadSubstances    Permission = "read-substances"
	PermNetworkAccess     Permission = "network-access"
	PermFileSystemAccess  Permission = "file-system-access"
	PermBiometricData     Permission = "biometric-data"
	PermExportData        Permission = "export-data"
	PermImportData        Permission = "import-data"
	PermSendNotifications Permission = "send-notifications"
	PermAnalyticsAccess   Permission = "analytics-access"
)

// AllPermissions lists every recognized permission.
var AllPermissions = []Permission{
	PermReadExperiences,
	PermWriteExperiences,
	PermReadSubstances,
	PermNetworkAccess,
	PermFileSystemAccess,
	PermBiometricData,
	PermExportData,
	PermImportData,
	PermSendNotifications,
	PermAnalyticsAccess,
}

// Manifest is a plugin's immutable identity record, created at install time
// by unpacking the plugin package.
type Manifest struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Description  string       `json:"description,omitempty"`
	Author       string       `json:"author,omitempty"`
	Permissions  []Permission `json:"permissions,omitempty"`
	EntryPoint   string       `json:"entryPoint"`
	Dependencies []string     `json:"dependencies,omitempty"` // declared, not enforced
}

// Validate checks the manifest's required fields. Returns an error wrapping
// ErrManifestInvalid naming the first missing field.
func (m *Manifest) Validate() error {
	for _, f := range []struct {
		name, value string
	}{
		{"id", m.ID},
		{"name", m.Name},
		{"version", m.Version},
		{"entryPoint", m.EntryPoint},
	} {
		if f.value == "" {
			return fmt.Errorf("%w: missing %s", ErrManifestInvalid, f.name)
		}
	}
	return nil
}

// Has reports whether the manifest declares the given permission.
func (m *Manifest) Has(p Permission) bool {
	for _, have := range m.Permissions {
		if have == p {
			return true
		}
	}
	return false
}

// ParseManifest decodes a manifest document and validates it.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestInvalid, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
