package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS message_cache (
	account_id     TEXT NOT NULL,
	folder         TEXT NOT NULL,
	id             TEXT NOT NULL,
	thread_id      TEXT NOT NULL DEFAULT '',
	from_json      TEXT NOT NULL DEFAULT '[]',
	to_json        TEXT NOT NULL DEFAULT '[]',
	cc_json        TEXT NOT NULL DEFAULT '[]',
	subject        TEXT NOT NULL DEFAULT '',
	snippet        TEXT NOT NULL DEFAULT '',
	timestamp      INTEGER NOT NULL DEFAULT 0,
	unread         INTEGER NOT NULL DEFAULT 0,
	starred        INTEGER NOT NULL DEFAULT 0,
	folders_json   TEXT NOT NULL DEFAULT '[]',
	has_attachment INTEGER NOT NULL DEFAULT 0,
	cached_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (account_id, folder, id)
);

CREATE TABLE IF NOT EXISTS categories (
	message_id    TEXT PRIMARY KEY,
	category      TEXT NOT NULL,
	classified_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS prefs (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	message_id TEXT NOT NULL DEFAULT '',
	message    TEXT NOT NULL,
	read       INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_message_cache_view
	ON message_cache(account_id, folder, timestamp);
CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read);
CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
