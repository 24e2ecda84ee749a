package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/domain"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store"
)

type playersRepo struct {
	q querier
}

var _ store.Players = (*playersRepo)(nil)

const playerColumns = `uuid, username, email, password_hash, created_at, updated_at`

func scanPlayer(row *sql.Row) (domain.Player, error) {
	var p domain.Player
	var email sql.NullString
	err := row.Scan(&p.UUID, &p.Username, &email, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Player{}, mapNotFound(err)
	}
	p.Email = email.String
	return p, nil
}

func (r *playersRepo) GetPlayerByIdentifier(ctx context.Context, identifier string) (domain.Player, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE username = ?1 OR email = ?1 OR uuid = ?1`,
		identifier)
	return scanPlayer(row)
}

func (r *playersRepo) GetPlayer(ctx context.Context, playerID string) (domain.Player, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE uuid = ?1`, playerID)
	return scanPlayer(row)
}

func (r *playersRepo) GetPlayerByUsername(ctx context.Context, username string) (domain.Player, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE username = ?1`, username)
	return scanPlayer(row)
}

func (r *playersRepo) CreatePlayer(ctx context.Context, p domain.Player) error {
	var email any
	if p.Email != "" {
		email = p.Email
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO players (uuid, username, email, password_hash, created_at, updated_at)
		 VALUES (?1, ?2, ?3, ?4, ?5, ?6)`,
		p.UUID, p.Username, email, p.PasswordHash, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("create player: %w", err)
	}
	return nil
}

func (r *playersRepo) GetPlayerProperties(ctx context.Context, playerID string) ([]domain.Property, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT name, value FROM player_properties WHERE player_uuid = ?1 ORDER BY name`,
		playerID)
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}
	defer rows.Close()

	var props []domain.Property
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(&p.Name, &p.Value); err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

func (r *playersRepo) PutPlayerProperty(ctx context.Context, playerID, name, value string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO player_properties (player_uuid, name, value) VALUES (?1, ?2, ?3)
		 ON CONFLICT (player_uuid, name) DO UPDATE SET value = excluded.value`,
		playerID, name, value)
	return err
}

// isUniqueViolation detects sqlite unique constraint failures without
// depending on driver-specific error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
