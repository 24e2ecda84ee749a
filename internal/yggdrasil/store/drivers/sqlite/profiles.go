package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/domain"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store"
)

type profilesRepo struct {
	q querier
}

var _ store.Profiles = (*profilesRepo)(nil)

func (r *profilesRepo) GetActiveSkin(ctx context.Context, playerID string) (*domain.Skin, error) {
	var s domain.Skin
	err := r.q.QueryRowContext(ctx,
		`SELECT url, variant FROM player_skins WHERE player_uuid = ?1`, playerID).
		Scan(&s.URL, &s.Variant)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get skin: %w", err)
	}
	return &s, nil
}

func (r *profilesRepo) GetActiveCape(ctx context.Context, playerID string) (*domain.Cape, error) {
	var c domain.Cape
	err := r.q.QueryRowContext(ctx,
		`SELECT url, alias FROM player_capes WHERE player_uuid = ?1`, playerID).
		Scan(&c.URL, &c.Alias)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cape: %w", err)
	}
	return &c, nil
}

func (r *profilesRepo) GetProfileActions(ctx context.Context, playerID string) ([]string, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT action FROM player_profile_actions WHERE player_uuid = ?1 ORDER BY action`,
		playerID)
	if err != nil {
		return nil, fmt.Errorf("get profile actions: %w", err)
	}
	defer rows.Close()

	var actions []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func (r *profilesRepo) SetActiveSkin(ctx context.Context, playerID string, skin domain.Skin) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO player_skins (player_uuid, url, variant) VALUES (?1, ?2, ?3)
		 ON CONFLICT (player_uuid) DO UPDATE SET url = excluded.url, variant = excluded.variant`,
		playerID, skin.URL, skin.Variant)
	return err
}

func (r *profilesRepo) SetActiveCape(ctx context.Context, playerID string, cape domain.Cape) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO player_capes (player_uuid, url, alias) VALUES (?1, ?2, ?3)
		 ON CONFLICT (player_uuid) DO UPDATE SET url = excluded.url, alias = excluded.alias`,
		playerID, cape.URL, cape.Alias)
	return err
}

func (r *profilesRepo) AddProfileAction(ctx context.Context, playerID, action string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO player_profile_actions (player_uuid, action) VALUES (?1, ?2)
		 ON CONFLICT (player_uuid, action) DO NOTHING`,
		playerID, action)
	return err
}

func (r *profilesRepo) RemoveProfileAction(ctx context.Context, playerID, action string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM player_profile_actions WHERE player_uuid = ?1 AND action = ?2`,
		playerID, action)
	return err
}
