package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/domain"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store"
)

type sessionsRepo struct {
	q querier
}

var _ store.Sessions = (*sessionsRepo)(nil)

func (r *sessionsRepo) Insert(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO client_sessions (access_token, client_token, player_uuid, created_at)
		 VALUES (?1, ?2, ?3, ?4)`,
		s.AccessToken, s.ClientToken, s.PlayerID, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *sessionsRepo) Validate(ctx context.Context, accessToken, clientToken string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM client_sessions WHERE access_token = ?1 AND client_token = ?2`,
		accessToken, clientToken).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("validate session: %w", err)
	}
	return n > 0, nil
}

func (r *sessionsRepo) Invalidate(ctx context.Context, accessToken, clientToken string) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM client_sessions WHERE access_token = ?1 AND client_token = ?2`,
		accessToken, clientToken)
	if err != nil {
		return 0, fmt.Errorf("invalidate session: %w", err)
	}
	return res.RowsAffected()
}

func (r *sessionsRepo) InvalidateAll(ctx context.Context, playerID string) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM client_sessions WHERE player_uuid = ?1`, playerID)
	if err != nil {
		return 0, fmt.Errorf("invalidate all sessions: %w", err)
	}
	return res.RowsAffected()
}

func (r *sessionsRepo) InsertLegacy(ctx context.Context, s domain.LegacySession) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO legacy_client_sessions (player_uuid, session_id, created_at)
		 VALUES (?1, ?2, ?3)
		 ON CONFLICT (player_uuid) DO UPDATE SET
		     session_id = excluded.session_id,
		     created_at = excluded.created_at`,
		s.PlayerID, s.SessionID, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert legacy session: %w", err)
	}
	return nil
}

func (r *sessionsRepo) ValidateLegacy(ctx context.Context, sessionID, playerID string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM legacy_client_sessions WHERE session_id = ?1 AND player_uuid = ?2`,
		sessionID, playerID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("validate legacy session: %w", err)
	}
	return n > 0, nil
}

func (r *sessionsRepo) PurgeCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM client_sessions WHERE created_at < ?1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	res, err = r.q.ExecContext(ctx,
		`DELETE FROM legacy_client_sessions WHERE created_at < ?1`, cutoff)
	if err != nil {
		return n, fmt.Errorf("purge legacy sessions: %w", err)
	}
	m, err := res.RowsAffected()
	if err != nil {
		return n, err
	}
	return n + m, nil
}
