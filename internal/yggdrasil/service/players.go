package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/domain"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store"
	"github.com/lanternmc/yggdrasil/pkg/cryptox"
	"github.com/lanternmc/yggdrasil/pkg/uuidx"
)

const (
	minPasswordLength = 8
	maxUsernameLength = 16
)

// PlayerService handles registration and player lookups outside the token
// lifecycle.
type PlayerService struct {
	Store store.Store
	Now   func() time.Time
}

func (s *PlayerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Register creates a new player account. Usernames are unique
// case-insensitively; the assigned UUID is returned in dashed form.
func (s *PlayerService) Register(ctx context.Context, username, email, password string) (domain.Player, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validateUsername(username); err != nil {
		return domain.Player{}, err
	}
	if len(password) < minPasswordLength {
		return domain.Player{}, fmt.Errorf("%w: password must be at least %d characters",
			ErrWeakPassword, minPasswordLength)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Player{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	player := domain.Player{
		UUID:         uuidx.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Players().CreatePlayer(ctx, player); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Player{}, ErrUsernameTaken
		}
		return domain.Player{}, fmt.Errorf("create player: %w", err)
	}

	slog.InfoContext(ctx, "player registered", "player", player.UUID, "username", username)
	return player, nil
}

// Lookup fetches a player by dashed or dash-free UUID.
func (s *PlayerService) Lookup(ctx context.Context, playerID string) (domain.Player, error) {
	player, err := s.Store.Players().GetPlayer(ctx, uuidx.Dashed(playerID))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Player{}, ErrPlayerNotFound
	}
	return player, err
}

// LookupByUsername resolves a profile by player name, the endpoint game
// servers use before a handshake.
func (s *PlayerService) LookupByUsername(ctx context.Context, username string) (domain.Player, error) {
	player, err := s.Store.Players().GetPlayerByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Player{}, ErrPlayerNotFound
	}
	return player, err
}

func validateUsername(username string) error {
	if username == "" || len(username) > maxUsernameLength {
		return fmt.Errorf("%w: username must be 1-%d characters", ErrInvalidUsername, maxUsernameLength)
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return fmt.Errorf("%w: username may contain letters, digits and underscore only", ErrInvalidUsername)
		}
	}
	return nil
}
