package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store"
)

// txStore wraps a *sql.Tx so the repositories run inside the transaction.
type txStore struct {
	tx *sql.Tx

	players      *playersRepo
	sessions     *sessionsRepo
	certificates *certificatesRepo
	profiles     *profilesRepo
}

var _ store.Tx = (*txStore)(nil)

func newTx(tx *sql.Tx) *txStore {
	return &txStore{
		tx:           tx,
		players:      &playersRepo{q: tx},
		sessions:     &sessionsRepo{q: tx},
		certificates: &certificatesRepo{q: tx},
		profiles:     &profilesRepo{q: tx},
	}
}

func (t *txStore) Players() store.Players           { return t.players }
func (t *txStore) Sessions() store.Sessions         { return t.sessions }
func (t *txStore) Certificates() store.Certificates { return t.certificates }
func (t *txStore) Profiles() store.Profiles         { return t.profiles }

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) ApplyMigrations() error {
	return errors.New("sqlite: migrations cannot run inside a transaction")
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, errors.New("sqlite: nested transactions are not supported")
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	// Already inside a transaction; run fn against it directly.
	return fn(t)
}

func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }
