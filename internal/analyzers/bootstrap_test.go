package analyzers

import (
	"context"
	"sync"
	"testing"

	"github.com/serenlabs/lucid/internal/logging"
	"github.com/serenlabs/lucid/internal/plugin"
	"github.com/serenlabs/lucid/internal/plugin/builtin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func (kv *memKV) Get(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	return v, ok, nil
}

func (kv *memKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	return nil
}

func newTestManager(t *testing.T) *plugin.Manager {
	t.Helper()
	return plugin.NewManager(plugin.Options{
		Dir:      t.TempDir(),
		Resolver: builtin.Registry{},
		Services: plugin.HostServices{
			Prefs: &memKV{data: make(map[string]string)},
			Log:   logging.New(nil, "silent"),
		},
	})
}

func TestBundledManifestsValidate(t *testing.T) {
	bundled := Bundled()
	require.Len(t, bundled, 2)
	for _, m := range bundled {
		assert.NoError(t, m.Validate())
		_, ok := builtin.Registry{}.Resolve(m.EntryPoint)
		assert.True(t, ok, "no implementation registered for %s", m.EntryPoint)
	}
}

func TestEnsureInstalled(t *testing.T) {
	mgr := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, EnsureInstalled(ctx, mgr))

	infos := mgr.Plugins()
	require.Len(t, infos, 2)
	for _, info := range infos {
		assert.True(t, info.IsEnabled)
		assert.True(t, info.IsLoaded)
	}
	assert.NotEmpty(t, mgr.Capabilities(plugin.KindAnalytics))
	assert.NotEmpty(t, mgr.Capabilities(plugin.KindConversational))

	// A second run leaves the catalogue untouched.
	require.NoError(t, EnsureInstalled(ctx, mgr))
	assert.Len(t, mgr.Plugins(), 2)
}

func TestEnsureInstalled_RespectsDisabledState(t *testing.T) {
	mgr := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, EnsureInstalled(ctx, mgr))
	require.NoError(t, mgr.Disable(ctx, "assistant"))

	require.NoError(t, EnsureInstalled(ctx, mgr))
	info, ok := mgr.Get("assistant")
	require.True(t, ok)
	assert.False(t, info.IsEnabled)
	assert.False(t, info.IsLoaded)
}
