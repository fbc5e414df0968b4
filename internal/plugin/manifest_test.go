package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validManifest() *Manifest {
	return &Manifest{
		ID:         "test-plugin",
		Name:       "Test Plugin",
		Version:    "1.0.0",
		EntryPoint: "test.entry.v1",
		Permissions: []Permission{
			PermReadExperiences,
			PermAnalyticsAccess,
		},
	}
}

func TestManifest_Validate(t *testing.T) {
	assert.NoError(t, validManifest().Validate())
}

func TestManifest_ValidateMissingFields(t *testing.T) {
	cases := []struct {
		field string
		mut   func(*Manifest)
	}{
		{"id", func(m *Manifest) { m.ID = "" }},
		{"name", func(m *Manifest) { m.Name = "" }},
		{"version", func(m *Manifest) { m.Version = "" }},
		{"entryPoint", func(m *Manifest) { m.EntryPoint = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			m := validManifest()
			tc.mut(m)
			err := m.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrManifestInvalid)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestManifest_Has(t *testing.T) {
	m := validManifest()
	assert.True(t, m.Has(PermReadExperiences))
	assert.True(t, m.Has(PermAnalyticsAccess))
	assert.False(t, m.Has(PermWriteExperiences))
	assert.False(t, m.Has(PermNetworkAccess))
}

func TestParseManifest(t *testing.T) {
	data := []byte(`{
		"id": "pattern-recognition",
		"name": "Pattern Recognition",
		"version": "1.0.0",
		"entryPoint": "lucid.patterns.v1",
		"permissions": ["read-experiences", "read-substances"]
	}`)

	m, err := ParseManifest(data)
	require.NoError(t, err)
	assert.Equal(t, "pattern-recognition", m.ID)
	assert.Equal(t, "lucid.patterns.v1", m.EntryPoint)
	assert.True(t, m.Has(PermReadSubstances))
}

func TestParseManifest_BadJSON(t *testing.T) {
	_, err := ParseManifest([]byte(`{"id": `))
	assert.ErrorIs(t, err, ErrManifestInvalid)
}

func TestParseManifest_IncompleteDocument(t *testing.T) {
	_, err := ParseManifest([]byte(`{"id": "x", "name": "X"}`))
	assert.ErrorIs(t, err, ErrManifestInvalid)
}
