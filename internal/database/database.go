package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"ttscore/internal/config"
	"ttscore/internal/constants"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DB is the single local store handle. It connects lazily on first use.
type DB struct {
	path   string
	logger zerolog.Logger

	mu     sync.RWMutex
	handle *sql.DB
	group  singleflight.Group
}

func New(cfg *config.Config, logger zerolog.Logger) *DB {
	return Open(cfg.DBPath, logger)
}

func Open(path string, logger zerolog.Logger) *DB {
	return &DB{
		path:   path,
		logger: logger.With().Str("component", "database").Logger(),
	}
}

func (d *DB) Path() string {
	return d.path
}

func (d *DB) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.handle != nil
}

// Connect opens the database once. Concurrent callers wait on the same attempt.
func (d *DB) Connect(ctx context.Context) (*sql.DB, error) {
	d.mu.RLock()
	handle := d.handle
	d.mu.RUnlock()
	if handle != nil {
		return handle, nil
	}

	v, err, _ := d.group.Do("connect", func() (any, error) {
		d.mu.RLock()
		existing := d.handle
		d.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		h, err := d.open(ctx)
		if err != nil {
			return nil, err
		}

		d.mu.Lock()
		d.handle = h
		d.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*sql.DB), nil
}

func (d *DB) open(ctx context.Context) (*sql.DB, error) {
	d.logger.Info().Str("path", d.path).Msg("connecting to database")

	h, err := sql.Open("sqlite3", d.path)
	if err != nil {
		d.logger.Error().Err(err).Msg("failed to connect to database")
		return nil, &StorageError{Op: "connect", Err: err}
	}

	h.SetMaxOpenConns(constants.DBMaxOpenConns)
	h.SetMaxIdleConns(constants.DBMaxIdleConns)
	h.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	h.SetConnMaxIdleTime(constants.DBMaxIdleTime)

	if err := h.PingContext(ctx); err != nil {
		h.Close()
		return nil, &StorageError{Op: "connect", Err: err}
	}

	if err := optimizeSQLite(ctx, h, d.logger); err != nil {
		h.Close()
		d.logger.Error().Err(err).Msg("failed to optimize SQLite")
		return nil, &StorageError{Op: "connect", Err: err}
	}

	d.logger.Info().Msg("database connection established")
	return h, nil
}

// Execute runs a mutating statement and returns the number of affected rows.
func (d *DB) Execute(ctx context.Context, statement string, args ...any) (int64, error) {
	h, err := d.Connect(ctx)
	if err != nil {
		return 0, err
	}

	res, err := h.ExecContext(ctx, statement, args...)
	if err != nil {
		return 0, &StorageError{Op: "execute", Statement: statement, Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, &StorageError{Op: "execute", Statement: statement, Err: err}
	}
	return n, nil
}

// Query runs a read statement. Rows are positional, in projected column order.
func (d *DB) Query(ctx context.Context, statement string, args ...any) ([]Row, error) {
	h, err := d.Connect(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := h.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, &StorageError{Op: "query", Statement: statement, Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &StorageError{Op: "query", Statement: statement, Err: err}
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &StorageError{Op: "query", Statement: statement, Err: err}
		}
		result = append(result, Row(values))
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query", Statement: statement, Err: err}
	}
	return result, nil
}

// UserVersion reads the schema version kept in the store's metadata.
func (d *DB) UserVersion(ctx context.Context) (int, error) {
	rows, err := d.Query(ctx, "PRAGMA user_version")
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Int(0), nil
}

func (d *DB) SetUserVersion(ctx context.Context, version int) error {
	// PRAGMA does not accept bound parameters.
	_, err := d.Execute(ctx, fmt.Sprintf("PRAGMA user_version = %d", version))
	return err
}

func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handle == nil {
		return nil
	}
	err := d.handle.Close()
	d.handle = nil
	return err
}

func optimizeSQLite(ctx context.Context, sqlDB *sql.DB, logger zerolog.Logger) error {
	pragmas := []struct {
		name  string
		value string
	}{
		{"journal_mode", "WAL"},
		{"synchronous", "NORMAL"},
		{"cache_size", "-16000"},
		{"busy_timeout", "5000"},
		{"temp_store", "MEMORY"},
	}

	for _, pragma := range pragmas {
		query := fmt.Sprintf("PRAGMA %s = %s", pragma.name, pragma.value)
		if _, err := sqlDB.ExecContext(ctx, query); err != nil {
			logger.Warn().
				Err(err).
				Str("pragma", pragma.name).
				Str("value", pragma.value).
				Msg("failed to set pragma")
			return fmt.Errorf("failed to set PRAGMA %s: %w", pragma.name, err)
		}
		logger.Debug().
			Str("pragma", pragma.name).
			Str("value", pragma.value).
			Msg("SQLite pragma set")
	}

	return nil
}
