package walletstore

// SchemaVersion is the current schema generation recorded in the
// schema_version table. Schema downgrade is not supported; this value
// only ever increases.
const SchemaVersion = 1

// schemaScript creates the six wallet tables plus the additive
// schema_version table. All statements are CREATE TABLE IF NOT EXISTS
// so UpgradeDatabase is idempotent across repeated opens.
const schemaScript = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS hdroot (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp INTEGER NOT NULL,
	version INTEGER NOT NULL,
	secret BLOB NOT NULL,
	UNIQUE (version, secret)
);

CREATE TABLE IF NOT EXISTS hdchain (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hdroot_id INTEGER NOT NULL REFERENCES hdroot(id),
	chaincode INTEGER NOT NULL,
	mine INTEGER NOT NULL,
	sweep INTEGER NOT NULL,
	mindepth INTEGER NOT NULL DEFAULT 0,
	maxdepth INTEGER NOT NULL DEFAULT 0,
	UNIQUE (hdroot_id, chaincode, mine, sweep)
);

CREATE TABLE IF NOT EXISTS secret (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp INTEGER NOT NULL,
	secret TEXT NOT NULL UNIQUE,
	mine INTEGER NOT NULL,
	sweep INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS hdkey (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hdchain_id INTEGER NOT NULL REFERENCES hdchain(id),
	depth INTEGER NOT NULL,
	secret_id INTEGER NOT NULL UNIQUE REFERENCES secret(id),
	UNIQUE (hdchain_id, depth)
);

CREATE TABLE IF NOT EXISTS output (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp INTEGER NOT NULL,
	hash BLOB NOT NULL,
	secret_id INTEGER REFERENCES secret(id),
	amount INTEGER NOT NULL,
	spent INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS terms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp INTEGER NOT NULL,
	body TEXT NOT NULL UNIQUE
);

CREATE INDEX IF NOT EXISTS idx_output_spent ON output(spent);
CREATE INDEX IF NOT EXISTS idx_output_secret ON output(secret_id);
CREATE INDEX IF NOT EXISTS idx_hdkey_secret ON hdkey(secret_id);
`
