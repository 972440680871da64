package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	key       TEXT PRIMARY KEY,
	value     TEXT NOT NULL,
	updatedAt REAL NOT NULL
);
`

// Store is a key/value store of JSON documents on top of SQLite.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "bloom", "bloom.sqlite")
}

// Open opens (creating if needed) the database at path with WAL enabled.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: SQLite serializes writers anyway and :memory:
	// databases are per-connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the raw value for key. found is false when the key is absent.
func (s *Store) Get(key string) (value string, found bool, err error) {
	row := s.db.QueryRow(`SELECT value FROM records WHERE key = ?`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (s *Store) Put(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO records (key, value, updatedAt) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = excluded.updatedAt
	`, key, value, unixFromTime(s.now()))
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// LoadJSON decodes the document stored under key into v.
//
// A record that fails to decode is logged, removed and reported as not
// found, so callers fall back to their defaults. v is left untouched in
// that case, including when the record is valid JSON of the wrong shape.
func (s *Store) LoadJSON(key string, v any) (bool, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false, fmt.Errorf("load %s: destination must be a non-nil pointer", key)
	}

	raw, found, err := s.Get(key)
	if err != nil || !found {
		return false, err
	}

	// Unmarshal fills fields as it goes, so decode into a scratch value
	// first and only then into v, which may hold caller defaults.
	scratch := reflect.New(rv.Elem().Type()).Interface()
	if err := json.Unmarshal([]byte(raw), scratch); err != nil {
		s.logger.Warn("Discarding corrupt record",
			zap.String("key", key),
			zap.Error(err),
		)
		if delErr := s.Delete(key); delErr != nil {
			return false, delErr
		}
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key.
func (s *Store) SaveJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.Put(key, string(data))
}

// SaveJSONBatch stores several documents in one transaction.
func (s *Store) SaveJSONBatch(docs map[string]any) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := unixFromTime(s.now())
	for key, v := range docs {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		_, err = tx.Exec(`
			INSERT INTO records (key, value, updatedAt) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = excluded.updatedAt
		`, key, string(data), now)
		if err != nil {
			return fmt.Errorf("put %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Records returns every stored record ordered by key.
func (s *Store) Records() ([]Record, error) {
	rows, err := s.db.Query(`SELECT key, value, updatedAt FROM records ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var updatedAt float64
		if err := rows.Scan(&r.Key, &r.Value, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.UpdatedAt = timeFromUnix(updatedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

func unixFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
