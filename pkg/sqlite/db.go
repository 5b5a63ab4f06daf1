// Package sqlite is the database binding for the gateway. It wraps a
// database/sql connection to a SQLite file and exposes the two operations the
// request pipeline needs: run a statement and collect rows, or run a statement
// and collect mutation metadata.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	dirPermissions    = 0750
	connectionTimeout = 5 * time.Second
)

// Config contains database configuration options.
type Config struct {
	// Path is the filesystem path to the SQLite database file.
	// The directory is created if it doesn't exist.
	Path string `mapstructure:"path"`

	// BusyTimeout is the maximum time to wait for a database lock (seconds).
	BusyTimeout int `mapstructure:"busyTimeout"`

	// WALMode enables Write-Ahead Logging for concurrent reads during writes.
	WALMode bool `mapstructure:"walMode"`
}

// DB wraps a sql.DB connection to a SQLite database.
type DB struct {
	*sql.DB
	path string
}

// Meta carries engine metadata for an executed statement. For read statements
// only Duration is meaningful; LastRowID and Changes are zero.
type Meta struct {
	LastRowID int64   `json:"last_row_id"`
	Changes   int64   `json:"changes"`
	Duration  float64 `json:"duration"` // milliseconds
}

// Open creates a new database connection with the given configuration.
// The parent directory is created if missing and the connection is verified
// with a ping before returning.
func Open(cfg Config) (*DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// See https://github.com/mattn/go-sqlite3#connection-string for pragmas.
	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		cfg.Path, cfg.BusyTimeout*1000)
	if cfg.WALMode {
		connStr += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	sqlDB, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite supports a single writer; pooling beyond that is the driver's
	// problem, not ours.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db := &DB{DB: sqlDB, path: cfg.Path}

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	return db, nil
}

// Query runs a statement expected to produce rows and returns them as a slice
// of column-name keyed maps. The slice is non-nil even when no rows match, so
// an empty result serializes as [] rather than null.
func (db *DB) Query(ctx context.Context, query string, args ...any) ([]map[string]any, *Meta, error) {
	start := time.Now()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	results, err := rowsToMaps(rows)
	if err != nil {
		return nil, nil, err
	}

	meta := &Meta{Duration: durationMs(start)}
	return results, meta, nil
}

// Exec runs a mutation statement and returns the engine metadata: the last
// inserted row id and the number of affected rows.
func (db *DB) Exec(ctx context.Context, query string, args ...any) (*Meta, error) {
	start := time.Now()

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	meta := &Meta{Duration: durationMs(start)}
	// The sqlite3 driver supports both; errors here would mean a broken driver.
	if id, err := result.LastInsertId(); err == nil {
		meta.LastRowID = id
	}
	if n, err := result.RowsAffected(); err == nil {
		meta.Changes = n
	}
	return meta, nil
}

// rowsToMaps scans every row into a map keyed by column name. Values keep the
// driver's scalar types; []byte columns are converted to string so they
// serialize as JSON strings rather than base64.
func rowsToMaps(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0)

	for rows.Next() {
		values := make([]any, len(columns))
		valuePointers := make([]any, len(columns))
		for i := range values {
			valuePointers[i] = &values[i]
		}

		if err := rows.Scan(valuePointers...); err != nil {
			return nil, err
		}

		rowMap := make(map[string]any, len(columns))
		for i, name := range columns {
			if b, ok := values[i].([]byte); ok {
				rowMap[name] = string(b)
				continue
			}
			rowMap[name] = values[i]
		}
		results = append(results, rowMap)
	}

	return results, rows.Err()
}

func durationMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
