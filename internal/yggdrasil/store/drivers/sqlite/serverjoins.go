package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/domain"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store"
)

// ServerJoins is the sqlite fallback for the join handshake broker, used
// when no Redis is configured. Stale rows are removed by housekeeping.
type ServerJoins struct {
	q querier
}

var _ store.ServerJoins = (*ServerJoins)(nil)

// NewServerJoins binds the broker to the given store's database.
func NewServerJoins(s *Store) *ServerJoins {
	return &ServerJoins{q: s.db}
}

func (r *ServerJoins) Put(ctx context.Context, j domain.ServerJoin) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO server_joins (server_id, player_uuid, ip, created_at)
		 VALUES (?1, ?2, ?3, ?4)
		 ON CONFLICT (server_id) DO UPDATE SET
		     player_uuid = excluded.player_uuid,
		     ip          = excluded.ip,
		     created_at  = excluded.created_at`,
		j.ServerID, j.PlayerID, j.IP, j.CreatedAt)
	if err != nil {
		return fmt.Errorf("put server join: %w", err)
	}
	return nil
}

func (r *ServerJoins) Get(ctx context.Context, serverID string) (domain.ServerJoin, error) {
	var j domain.ServerJoin
	err := r.q.QueryRowContext(ctx,
		`SELECT server_id, player_uuid, ip, created_at FROM server_joins WHERE server_id = ?1`,
		serverID).Scan(&j.ServerID, &j.PlayerID, &j.IP, &j.CreatedAt)
	if err != nil {
		return domain.ServerJoin{}, mapNotFound(err)
	}
	return j, nil
}

func (r *ServerJoins) Delete(ctx context.Context, serverID string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM server_joins WHERE server_id = ?1`, serverID)
	return err
}

func (r *ServerJoins) PurgeCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM server_joins WHERE created_at < ?1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge server joins: %w", err)
	}
	return res.RowsAffected()
}
