// File: themekit/store_sqlite.go
package themekit

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// MetaStore persists per-object setting values in SQLite, the custom-field
// analog: each object (post, page, user) carries its own keyed values. Values
// are serialized as JSON, so numbers read back with JSON semantics.
type MetaStore struct {
	db *sql.DB
}

// NewMetaStore opens (creating if needed) a SQLite-backed meta store at
// dbPath. The caller owns the store and must Close it.
func NewMetaStore(dbPath string) (*MetaStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, err
	}

	store := &MetaStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (m *MetaStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS object_meta (
		object_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (object_id, key)
	);

	CREATE INDEX IF NOT EXISTS idx_object_meta_key ON object_meta(key);
	`
	_, err := m.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (m *MetaStore) Close() error {
	return m.db.Close()
}

// ForObject returns a Store view scoped to a single object's values.
func (m *MetaStore) ForObject(objectID string) Store {
	return &objectStore{meta: m, objectID: objectID}
}

// objectStore adapts one object's rows to the Store interface.
type objectStore struct {
	meta     *MetaStore
	objectID string
}

func (o *objectStore) Read(key string) Value {
	var raw string
	err := o.meta.db.QueryRow(
		`SELECT value FROM object_meta WHERE object_id = ? AND key = ?`,
		o.objectID, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Undefined
	}
	if err != nil {
		slog.Warn("meta store read failed", "object", o.objectID, "key", key, "error", err)
		return Undefined
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		slog.Warn("meta store value not valid JSON", "object", o.objectID, "key", key, "error", err)
		return Undefined
	}
	return Some(v)
}

func (o *objectStore) Write(key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}
	_, err = o.meta.db.Exec(
		`INSERT INTO object_meta (object_id, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(object_id, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		o.objectID, key, string(raw),
	)
	return err == nil
}

func (o *objectStore) Delete(key string) bool {
	result, err := o.meta.db.Exec(
		`DELETE FROM object_meta WHERE object_id = ? AND key = ?`,
		o.objectID, key,
	)
	if err != nil {
		return false
	}
	rows, err := result.RowsAffected()
	return err == nil && rows > 0
}

func (o *objectStore) Keys() []string {
	rows, err := o.meta.db.Query(
		`SELECT key FROM object_meta WHERE object_id = ? ORDER BY key`,
		o.objectID,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return keys
		}
		keys = append(keys, key)
	}
	return keys
}

// Purge removes every value stored for an object, e.g. when the object itself
// is deleted. It returns the number of removed rows.
func (m *MetaStore) Purge(objectID string) (int64, error) {
	result, err := m.db.Exec(`DELETE FROM object_meta WHERE object_id = ?`, objectID)
	if err != nil {
		return 0, fmt.Errorf("failed to purge meta for object %q: %w", objectID, err)
	}
	return result.RowsAffected()
}
