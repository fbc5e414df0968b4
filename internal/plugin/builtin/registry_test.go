package builtin

import (
	"context"
	"testing"

	"github.com/serenlabs/lucid/internal/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopPlugin struct{}

func (noopPlugin) Initialize(context.Context, *plugin.HostContext) error { return nil }
func (noopPlugin) Shutdown() error                                       { return nil }
func (noopPlugin) Capabilities() []plugin.Capability                     { return nil }

func TestRegisterAndResolve(t *testing.T) {
	Register("test.noop.v1", func() plugin.Plugin { return noopPlugin{} })

	factory, ok := Registry{}.Resolve("test.noop.v1")
	require.True(t, ok)
	assert.NotNil(t, factory())

	_, ok = Registry{}.Resolve("test.absent.v1")
	assert.False(t, ok)

	assert.Contains(t, EntryPoints(), "test.noop.v1")
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test.dup.v1", func() plugin.Plugin { return noopPlugin{} })
	assert.Panics(t, func() {
		Register("test.dup.v1", func() plugin.Plugin { return noopPlugin{} })
	})
}
