// Package prefs persists visitor preferences and privacy-conscious visit
// records in SQLite.
package prefs

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// opTimeout bounds a single store call made from a UI handler.
const opTimeout = 2 * time.Second

// DB wraps a sql.DB with the preference and visitor tables.
type DB struct {
	*sql.DB
	log  *zap.Logger
	path string
}

// Open creates or opens the database at path and migrates it.
func Open(path string, log *zap.Logger) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return newDB(sqlDB, path, log)
}

// OpenMemory creates an in-memory database.
func OpenMemory(log *zap.Logger) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	return newDB(sqlDB, ":memory:", log)
}

func newDB(sqlDB *sql.DB, path string, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	d := &DB{DB: sqlDB, log: log, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

// Path is where the database lives.
func (d *DB) Path() string { return d.path }

func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
    visitor TEXT NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (visitor, key)
);

CREATE TABLE IF NOT EXISTS visitors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    hashed_ip TEXT NOT NULL,
    user_agent TEXT,
    path TEXT,
    timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp);
`

// Visitor returns the preference store for one visitor.
func (d *DB) Visitor(id string) *VisitorStore {
	return &VisitorStore{db: d, visitor: id}
}

// VisitorStore is the key/value preference store of one visitor.
type VisitorStore struct {
	db      *DB
	visitor string
}

// Get returns the stored value for key.
func (s *VisitorStore) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE visitor = ? AND key = ?`, s.visitor, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading preference %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key.
func (s *VisitorStore) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (visitor, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(visitor, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.visitor, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving preference %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *VisitorStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM preferences WHERE visitor = ? AND key = ?`, s.visitor, key); err != nil {
		return fmt.Errorf("deleting preference %q: %w", key, err)
	}
	return nil
}

// ValueCount is how many visitors stored one value.
type ValueCount struct {
	Value    string `json:"value"`
	Visitors int64  `json:"visitors"`
}

// CountValues reports, most common first, how many visitors stored each
// value of key.
func (d *DB) CountValues(ctx context.Context, key string) ([]ValueCount, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT value, COUNT(*) AS visitors
		FROM preferences
		WHERE key = ?
		GROUP BY value
		ORDER BY visitors DESC, value`, key)
	if err != nil {
		return nil, fmt.Errorf("counting preference %q: %w", key, err)
	}
	defer rows.Close()

	var counts []ValueCount
	for rows.Next() {
		var c ValueCount
		if err := rows.Scan(&c.Value, &c.Visitors); err != nil {
			return nil, fmt.Errorf("scanning preference count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// ForgetVisitor deletes every preference of visitor.
func (d *DB) ForgetVisitor(ctx context.Context, visitor string) (int64, error) {
	res, err := d.ExecContext(ctx, `DELETE FROM preferences WHERE visitor = ?`, visitor)
	if err != nil {
		return 0, fmt.Errorf("forgetting visitor: %w", err)
	}
	return res.RowsAffected()
}
