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

CREATE TABLE IF NOT EXISTS users (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	name              TEXT NOT NULL UNIQUE,
	password          TEXT NOT NULL,
	email             TEXT NOT NULL UNIQUE,
	registration_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS permission_types (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

INSERT OR IGNORE INTO permission_types (id, name) VALUES (1, 'admin');

CREATE TABLE IF NOT EXISTS users_permissions (
	user_id       INTEGER NOT NULL,
	permission_id INTEGER NOT NULL,
	UNIQUE(user_id, permission_id)
);

CREATE INDEX IF NOT EXISTS idx_users_permissions_user_id ON users_permissions(user_id);

CREATE TABLE IF NOT EXISTS todo_items (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	status      INTEGER NOT NULL DEFAULT 0 CHECK(status IN (0, 1)),
	create_date DATETIME NOT NULL,
	priority    INTEGER NOT NULL DEFAULT 3,
	due_date    DATE,
	owner_id    INTEGER NOT NULL,
	is_archived INTEGER NOT NULL DEFAULT 0 CHECK(is_archived IN (0, 1)),
	description TEXT
);

CREATE INDEX IF NOT EXISTS idx_todo_items_owner ON todo_items(owner_id, is_archived);
CREATE INDEX IF NOT EXISTS idx_todo_items_create_date ON todo_items(create_date);

CREATE TABLE IF NOT EXISTS history_events (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

INSERT OR IGNORE INTO history_events (id, name) VALUES
	(1, 'create'),
	(2, 'remove'),
	(3, 'archive'),
	(4, 'activate'),
	(5, 'update'),
	(6, 'status done'),
	(7, 'status undone');

CREATE TABLE IF NOT EXISTS todo_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	item_id     INTEGER NOT NULL,
	change_date DATETIME NOT NULL,
	event_id    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_todo_history_item_id ON todo_history(item_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
