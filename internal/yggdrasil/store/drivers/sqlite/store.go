// Package sqlite implements the store interfaces on top of a local sqlite
// database using the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so
// the same repository code serves both transactional and plain access.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the sqlite-backed implementation of store.Store.
type Store struct {
	db *sql.DB

	players      *playersRepo
	sessions     *sessionsRepo
	certificates *certificatesRepo
	profiles     *profilesRepo
}

var _ store.Store = (*Store)(nil)

// New opens (or creates) the sqlite database at path. Use ":memory:" for an
// ephemeral database in tests.
func New(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	if path == ":memory:" {
		dsn = "file::memory:?cache=shared&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// sqlite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY churn under concurrent request handlers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	s.players = &playersRepo{q: db}
	s.sessions = &sessionsRepo{q: db}
	s.certificates = &certificatesRepo{q: db}
	s.profiles = &profilesRepo{q: db}
	return s, nil
}

func (s *Store) Players() store.Players           { return s.players }
func (s *Store) Sessions() store.Sessions         { return s.sessions }
func (s *Store) Certificates() store.Certificates { return s.certificates }
func (s *Store) Profiles() store.Profiles         { return s.profiles }

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return newTx(tx), nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// mapNotFound converts sql.ErrNoRows into the store-level sentinel.
func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
