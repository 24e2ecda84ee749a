package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/domain"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store"
	"github.com/lanternmc/yggdrasil/pkg/uuidx"
)

// SessionService brokers the multiplayer join handshake and the legacy
// single-token session protocol.
type SessionService struct {
	Store    store.Store
	Joins    store.ServerJoins
	Auth     *AuthService
	Profiles *ProfileService
	Now      func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// JoinServer records that the authenticated player is about to connect to
// serverID. The access token is verified against both signature and store,
// and it must belong to the profile the client claims.
func (s *SessionService) JoinServer(ctx context.Context, accessToken, selectedProfile, serverID, clientIP string) error {
	identity, err := s.Auth.VerifyAccessToken(ctx, accessToken)
	if err != nil {
		return err
	}
	if selectedProfile != "" && uuidx.Dashed(selectedProfile) != identity.PlayerID {
		return ErrTokenInvalid
	}
	if serverID == "" {
		return ErrJoinMismatch
	}

	err = s.Joins.Put(ctx, domain.ServerJoin{
		ServerID:  serverID,
		PlayerID:  identity.PlayerID,
		IP:        clientIP,
		CreatedAt: s.now(),
	})
	if err != nil {
		return fmt.Errorf("record join: %w", err)
	}

	slog.InfoContext(ctx, "join recorded", "player", identity.PlayerID, "server", serverID)
	return nil
}

// HasJoined confirms a pending join from the game server's side and returns
// the joining player's signed profile. When expectedIP is set the recorded
// client address must match it. The pending record is consumed on success.
func (s *SessionService) HasJoined(ctx context.Context, username, serverID, expectedIP string) (domain.SignedProfile, error) {
	join, err := s.Joins.Get(ctx, serverID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.SignedProfile{}, ErrJoinMismatch
		}
		return domain.SignedProfile{}, fmt.Errorf("load join: %w", err)
	}

	player, err := s.Store.Players().GetPlayer(ctx, join.PlayerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.SignedProfile{}, ErrJoinMismatch
		}
		return domain.SignedProfile{}, fmt.Errorf("lookup player: %w", err)
	}
	if player.Username != username {
		return domain.SignedProfile{}, ErrJoinMismatch
	}
	if expectedIP != "" && join.IP != expectedIP {
		return domain.SignedProfile{}, ErrJoinMismatch
	}

	if err := s.Joins.Delete(ctx, serverID); err != nil {
		return domain.SignedProfile{}, fmt.Errorf("consume join: %w", err)
	}

	return s.Profiles.BuildProfile(ctx, player.UUID, false)
}

// RegisterLegacySession stores a single-token session for an older protocol
// client, replacing any previous one the player held.
func (s *SessionService) RegisterLegacySession(ctx context.Context, sessionID, playerID string) error {
	if sessionID == "" {
		return ErrMissingToken
	}
	if _, err := s.Store.Players().GetPlayer(ctx, uuidx.Dashed(playerID)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("lookup player: %w", err)
	}

	err := s.Store.Sessions().InsertLegacy(ctx, domain.LegacySession{
		SessionID: sessionID,
		PlayerID:  uuidx.Dashed(playerID),
		CreatedAt: s.now(),
	})
	if err != nil {
		return fmt.Errorf("register legacy session: %w", err)
	}
	return nil
}

// ValidateLegacySession checks the single-token session for older clients.
func (s *SessionService) ValidateLegacySession(ctx context.Context, sessionID, playerID string) error {
	ok, err := s.Store.Sessions().ValidateLegacy(ctx, sessionID, uuidx.Dashed(playerID))
	if err != nil {
		return fmt.Errorf("validate legacy session: %w", err)
	}
	if !ok {
		return ErrSessionRevoked
	}
	return nil
}
