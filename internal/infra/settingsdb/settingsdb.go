// Package settingsdb provides a SQLite-backed key-value store for
// local settings.
package settingsdb

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// DB is a settings key-value store.
type DB struct {
	db *sqlx.DB
}

// Open opens the settings database at path, creating the schema when
// needed.
func Open(path string) (*DB, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open settings database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create settings schema")
	}
	return &DB{db: db}, nil
}

// Get returns the value stored under key; ok is false when the key is
// absent.
func (d *DB) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := d.db.GetContext(ctx, &value, "SELECT value FROM settings WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to read setting %q", key)
	}
	return value, true, nil
}

// Put stores value under key, replacing any existing value.
func (d *DB) Put(ctx context.Context, key, value string) error {
	_, err := d.db.ExecContext(ctx,
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return errors.Wrapf(err, "failed to write setting %q", key)
	}
	return nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}
