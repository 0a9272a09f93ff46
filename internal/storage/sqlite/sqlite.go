// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
//
// The store acts as the persistence gateway: every operation renders exactly one
// parameterized statement with goqu, runs it under a per-statement timeout and
// releases the connection before returning, even on error.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // goqu dialect for SQLite
	moderncsqlite "modernc.org/sqlite"                 // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/parcattraction/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

const (
	defaultMaxOpenConns = 4
	defaultQueryTimeout = 5 * time.Second
)

// Options tunes the connection pool and statement timeout.
// Zero values fall back to the package defaults.
type Options struct {
	MaxOpenConns int
	QueryTimeout time.Duration
}

// QueryError reports a statement that could not be built, executed or read.
// Callers do not retry; the HTTP layer maps it to a generic 500.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("sqlite: %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// sqliteConstraint is the primary SQLITE_CONSTRAINT result code. Extended
// codes (foreign key, check, unique) keep it in their low byte.
const sqliteConstraint = 19

// Is lets callers match constraint failures with storage.ErrConstraint.
func (e *QueryError) Is(target error) bool {
	if target != storage.ErrConstraint {
		return false
	}
	var serr *moderncsqlite.Error
	return errors.As(e.Err, &serr) && serr.Code()&0xff == sqliteConstraint
}

// statement is any goqu dataset that renders to SQL plus bound arguments.
type statement interface {
	ToSQL() (string, []interface{}, error)
}

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db           *sql.DB
	dialect      goqu.DialectWrapper
	queryTimeout time.Duration
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string, opts Options) (*SQLiteStore, error) {
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = defaultMaxOpenConns
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = defaultQueryTimeout
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys are a per-connection setting in SQLite, so they are enabled
	// through the DSN for every pooled connection.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxOpenConns)

	store := &SQLiteStore{
		db:           db,
		dialect:      goqu.Dialect("sqlite3"),
		queryTimeout: opts.QueryTimeout,
	}

	// Run migrations
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection pool.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// exec runs a single write statement. The statement is committed by SQLite's
// autocommit before the connection returns to the pool.
func (s *SQLiteStore) exec(ctx context.Context, op string, stmt statement) (sql.Result, error) {
	query, args, err := stmt.ToSQL()
	if err != nil {
		return nil, &QueryError{Op: op, Err: fmt.Errorf("build statement: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, &QueryError{Op: op, Err: err}
	}
	return res, nil
}

// query runs a single read statement and hands every row to scan.
// Rows are fully consumed and closed before query returns.
func (s *SQLiteStore) query(ctx context.Context, op string, stmt statement, scan func(*sql.Rows) error) error {
	query, args, err := stmt.ToSQL()
	if err != nil {
		return &QueryError{Op: op, Err: fmt.Errorf("build statement: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return &QueryError{Op: op, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return &QueryError{Op: op, Err: fmt.Errorf("scan: %w", err)}
		}
	}
	if err := rows.Err(); err != nil {
		return &QueryError{Op: op, Err: err}
	}
	return nil
}

// lastInsertID runs an insert and returns the generated row ID.
func (s *SQLiteStore) lastInsertID(ctx context.Context, op string, stmt statement) (int64, error) {
	res, err := s.exec(ctx, op, stmt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &QueryError{Op: op, Err: err}
	}
	return id, nil
}
