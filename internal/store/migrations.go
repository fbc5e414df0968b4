package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create experiences and ingestions",
		SQL: `
			CREATE TABLE experiences (
				id          TEXT PRIMARY KEY,
				title       TEXT NOT NULL DEFAULT '',
				started_at  TEXT NOT NULL,
				ended_at    TEXT,
				location    TEXT NOT NULL DEFAULT '',
				notes       TEXT NOT NULL DEFAULT '',
				rating      INTEGER NOT NULL DEFAULT 0
			);

			CREATE INDEX idx_experiences_started ON experiences (started_at);

			CREATE TABLE ingestions (
				id             INTEGER PRIMARY KEY AUTOINCREMENT,
				experience_id  TEXT NOT NULL REFERENCES experiences(id) ON DELETE CASCADE,
				substance_name TEXT NOT NULL,
				dose           REAL NOT NULL DEFAULT 0,
				unit           TEXT NOT NULL DEFAULT '',
				route          TEXT NOT NULL DEFAULT '',
				timestamp      TEXT NOT NULL
			);

			CREATE INDEX idx_ingestions_experience ON ingestions (experience_id, id);
			CREATE INDEX idx_ingestions_substance ON ingestions (substance_name);
		`,
	},
	{
		Version: 2,
		Name:    "create substances catalog",
		SQL: `
			CREATE TABLE substances (
				name         TEXT PRIMARY KEY,
				class        TEXT NOT NULL DEFAULT 'other',
				common_names TEXT
			);
		`,
	},
	{
		Version: 3,
		Name:    "create preferences",
		SQL: `
			CREATE TABLE preferences (
				key        TEXT PRIMARY KEY,
				value      TEXT NOT NULL,
				updated_at TEXT NOT NULL DEFAULT (datetime('now'))
			);
		`,
	},
}
