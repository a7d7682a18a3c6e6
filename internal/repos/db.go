package repos

import (
	"encoding/hex"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers anyway; one connection also keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS sessions(
  id         TEXT PRIMARY KEY,      -- blake2b-256 of the sid cookie, hex
  data       TEXT NOT NULL,         -- JSON session record
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT,
  expires_at INTEGER NOT NULL       -- unix seconds
);
CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);
`
	_, err := db.Exec(schema)
	return err
}

// SessionKey is the storage key for a sid cookie value. Raw cookie values never reach a store.
func SessionKey(sid string) string {
	sum := blake2b.Sum256([]byte(sid))
	return hex.EncodeToString(sum[:])
}
