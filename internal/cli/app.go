package cli

import (
	"context"
	"time"

	"github.com/serenlabs/lucid/internal/analyzers"
	"github.com/serenlabs/lucid/internal/hooks"
	"github.com/serenlabs/lucid/internal/plugin"
	"github.com/serenlabs/lucid/internal/plugin/builtin"
	"github.com/serenlabs/lucid/internal/store"
)

// app wires the store, plugin manager, and dispatcher for one command run.
type app struct {
	db          *store.DB
	experiences *store.ExperienceStore
	substances  *store.SubstanceStore
	manager     *plugin.Manager
	dispatcher  *plugin.Dispatcher
}

// openApp builds the full runtime: opens the database, installs bundled
// plugins on first run, and loads everything previously enabled.
func openApp(ctx context.Context) (*app, error) {
	if err := paths.EnsureDirs(); err != nil {
		return nil, err
	}

	dbPath := paths.DatabasePath(cfg.Store)
	if cfg.Store.Backend == "memory" {
		dbPath = ":memory:"
	}
	db, err := store.Open(dbPath, log)
	if err != nil {
		return nil, err
	}

	experiences := store.NewExperienceStore(db)
	substances := store.NewSubstanceStore(db)
	prefs := store.NewSQLitePrefStore(db)
	hookMgr := hooks.NewManager(log)

	manager := plugin.NewManager(plugin.Options{
		Dir:         paths.PluginDir(cfg.Plugins),
		LoadTimeout: time.Duration(cfg.Plugins.LoadTimeoutMs) * time.Millisecond,
		Resolver:    builtin.Registry{},
		Services: plugin.HostServices{
			Records:    experiences,
			RecordSink: experiences,
			Substances: substances,
			Prefs:      prefs,
			Hooks:      hookMgr,
			Log:        log,
		},
	})

	if err := manager.Scan(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := analyzers.EnsureInstalled(ctx, manager); err != nil {
		db.Close()
		return nil, err
	}

	dispatcher := plugin.NewDispatcher(
		manager,
		time.Duration(cfg.Plugins.AnalyzeTimeoutMs)*time.Millisecond,
		cfg.Plugins.MaxWorkers,
		log,
	)

	return &app{
		db:          db,
		experiences: experiences,
		substances:  substances,
		manager:     manager,
		dispatcher:  dispatcher,
	}, nil
}

// close releases the app's resources.
func (a *app) close() {
	a.db.Close()
}
