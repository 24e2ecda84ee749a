package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/domain"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store"
)

type certificatesRepo struct {
	q querier
}

var _ store.Certificates = (*certificatesRepo)(nil)

func (r *certificatesRepo) Get(ctx context.Context, playerID string) (domain.Certificate, error) {
	var c domain.Certificate
	err := r.q.QueryRowContext(ctx,
		`SELECT player_uuid, private_key, public_key, public_key_signature,
		        expires_at, refreshed_after, created_at
		 FROM player_certificates WHERE player_uuid = ?1`, playerID).
		Scan(&c.PlayerID, &c.PrivateKeyPEM, &c.PublicKeyPEM, &c.PublicKeySignature,
			&c.ExpiresAt, &c.RefreshedAfter, &c.CreatedAt)
	if err != nil {
		return domain.Certificate{}, mapNotFound(err)
	}
	return c, nil
}

func (r *certificatesRepo) Put(ctx context.Context, cert domain.Certificate) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO player_certificates
		     (player_uuid, private_key, public_key, public_key_signature,
		      expires_at, refreshed_after, created_at)
		 VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7)
		 ON CONFLICT (player_uuid) DO UPDATE SET
		     private_key          = excluded.private_key,
		     public_key           = excluded.public_key,
		     public_key_signature = excluded.public_key_signature,
		     expires_at           = excluded.expires_at,
		     refreshed_after      = excluded.refreshed_after,
		     created_at           = excluded.created_at`,
		cert.PlayerID, cert.PrivateKeyPEM, cert.PublicKeyPEM, cert.PublicKeySignature,
		cert.ExpiresAt, cert.RefreshedAfter, cert.CreatedAt)
	if err != nil {
		return fmt.Errorf("put certificate: %w", err)
	}
	return nil
}

func (r *certificatesRepo) DeleteExpiredBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM player_certificates WHERE expires_at < ?1`, t)
	if err != nil {
		return 0, fmt.Errorf("delete expired certificates: %w", err)
	}
	return res.RowsAffected()
}
