// Package service implements the identity backend's business logic on top of
// the store interfaces: token lifecycle, player certificates, signed profile
// assertions, registration and the multiplayer join handshake.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/domain"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store"
	"github.com/lanternmc/yggdrasil/pkg/cryptox"
	"github.com/lanternmc/yggdrasil/pkg/jwtx"
	"github.com/lanternmc/yggdrasil/pkg/uuidx"
)

// AuthService owns the session token lifecycle. A session is authoritative
// only while BOTH the JWT verifies and its (access, client) row is live in
// the store; either alone is not enough.
type AuthService struct {
	Store    store.Store
	Signer   *jwtx.Signer
	Verifier *jwtx.Verifier

	Issuer    string
	AccessTTL time.Duration

	// Now is swappable for tests. Defaults to time.Now.
	Now func() time.Time
}

// UserBlock is the optional user section of an auth response, returned when
// the client asks for it.
type UserBlock struct {
	ID         string            `json:"id"`
	Username   string            `json:"username"`
	Properties []domain.Property `json:"properties,omitempty"`
}

// AuthResult is the outcome of authenticate and refresh.
type AuthResult struct {
	AccessToken       string           `json:"accessToken"`
	ClientToken       string           `json:"clientToken"`
	AvailableProfiles []domain.Profile `json:"availableProfiles,omitempty"`
	SelectedProfile   *domain.Profile  `json:"selectedProfile,omitempty"`
	User              *UserBlock       `json:"user,omitempty"`
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) ttl() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

// Authenticate verifies credentials and mints a fresh session. The supplied
// client token is echoed back; when absent, one is generated. A player may
// hold any number of concurrent sessions.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password, clientToken string, requestUser bool) (*AuthResult, error) {
	player, err := s.Store.Players().GetPlayerByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same error as a wrong password, so lookups cannot probe
			// which accounts exist.
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup player: %w", err)
	}

	if err := cryptox.VerifyPassword(password, player.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	// A supplied client token is honored only when it spells a UUID; anything
	// else is replaced so the pair stays well formed in the store.
	if !uuidx.IsValid(clientToken) {
		clientToken = uuidx.Undashed(uuidx.New())
	}

	result, err := s.mintSession(ctx, player, clientToken)
	if err != nil {
		return nil, err
	}
	if requestUser {
		result.User, err = s.userBlock(ctx, player)
		if err != nil {
			return nil, err
		}
	}

	slog.InfoContext(ctx, "session issued", "player", player.UUID)
	return result, nil
}

// Refresh exchanges an old token pair for a new one. The old access token is
// decoded without trusting its signature or expiry, only to route to the
// subject; the old session row then dies whether or not it was still live, so
// refreshing even a leaked or already-revoked token bounds its lifetime
// instead of forking the session. Reissue proceeds as a fresh login for the
// subject, honoring the supplied client token the same way Authenticate does.
func (s *AuthService) Refresh(ctx context.Context, accessToken, clientToken string, requestUser bool) (*AuthResult, error) {
	claims, err := jwtx.Decode(accessToken)
	if err != nil {
		return nil, ErrTokenRejected
	}

	player, err := s.Store.Players().GetPlayer(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("lookup player: %w", err)
	}

	// The pair the token self-describes is removed even when the caller
	// supplied a different correlation token; a row already gone does not
	// block reissue.
	if _, err := s.Store.Sessions().Invalidate(ctx, accessToken, claims.ClientToken); err != nil {
		return nil, fmt.Errorf("consume session: %w", err)
	}

	if !uuidx.IsValid(clientToken) {
		clientToken = uuidx.Undashed(uuidx.New())
	}

	result, err := s.mintSession(ctx, player, clientToken)
	if err != nil {
		return nil, err
	}
	if requestUser {
		result.User, err = s.userBlock(ctx, player)
		if err != nil {
			return nil, err
		}
	}

	slog.InfoContext(ctx, "session refreshed", "player", player.UUID)
	return result, nil
}

// Validate reports whether the token pair is currently authoritative. When
// clientToken is empty only the access token is checked against the store,
// matching clients that validate with the bearer token alone.
func (s *AuthService) Validate(ctx context.Context, accessToken, clientToken string) error {
	if accessToken == "" {
		return ErrMissingToken
	}

	claims, err := s.Verifier.Verify(accessToken)
	if err != nil {
		return mapTokenError(err)
	}
	if clientToken != "" && claims.ClientToken != clientToken {
		return ErrTokenInvalid
	}

	live, err := s.Store.Sessions().Validate(ctx, accessToken, claims.ClientToken)
	if err != nil {
		return fmt.Errorf("validate session: %w", err)
	}
	if !live {
		return ErrSessionRevoked
	}
	return nil
}

// Invalidate revokes exactly the matching session. A pair that matches no
// live record reports ErrNotFound so the caller can tell nothing was revoked.
func (s *AuthService) Invalidate(ctx context.Context, accessToken, clientToken string) error {
	if accessToken == "" {
		return ErrMissingToken
	}

	claims, err := jwtx.Decode(accessToken)
	if err != nil {
		return ErrTokenRejected
	}
	if clientToken == "" {
		clientToken = claims.ClientToken
	}

	removed, err := s.Store.Sessions().Invalidate(ctx, accessToken, clientToken)
	if err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

// SignOut revokes every session the player holds, gated on credentials
// rather than a token so a player who lost all devices can still cut access.
func (s *AuthService) SignOut(ctx context.Context, identifier, password string) error {
	player, err := s.Store.Players().GetPlayerByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("lookup player: %w", err)
	}
	if err := cryptox.VerifyPassword(password, player.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	n, err := s.Store.Sessions().InvalidateAll(ctx, player.UUID)
	if err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	if n == 0 {
		// Nothing was live. Callers are free to treat this as success; the
		// HTTP layer does.
		return ErrNotFound
	}

	slog.InfoContext(ctx, "all sessions revoked", "player", player.UUID, "count", n)
	return nil
}

// VerifyAccessToken authenticates a bearer token for protected resources.
// Checks run in a fixed order so callers get the most specific failure:
// missing, then signature/expiry, then the embedded correlation token, then
// store liveness.
func (s *AuthService) VerifyAccessToken(ctx context.Context, accessToken string) (domain.Identity, error) {
	if accessToken == "" {
		return domain.Identity{}, ErrMissingToken
	}

	claims, err := s.Verifier.Verify(accessToken)
	if err != nil {
		return domain.Identity{}, mapTokenError(err)
	}
	if claims.ClientToken == "" {
		// A session token always embeds its correlation token; one without
		// it was not minted here.
		return domain.Identity{}, ErrTokenMalformed
	}

	live, err := s.Store.Sessions().Validate(ctx, accessToken, claims.ClientToken)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("validate session: %w", err)
	}
	if !live {
		return domain.Identity{}, ErrSessionRevoked
	}

	return domain.Identity{
		PlayerID:    claims.Subject,
		Username:    claims.Username,
		ClientToken: claims.ClientToken,
	}, nil
}

func (s *AuthService) mintSession(ctx context.Context, player domain.Player, clientToken string) (*AuthResult, error) {
	now := s.now()
	claims := jwtx.NewSessionClaims(player.UUID, player.Username, clientToken, s.Issuer, s.ttl(), now)

	accessToken, err := s.Signer.Sign(claims)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	err = s.Store.Sessions().Insert(ctx, domain.Session{
		AccessToken: accessToken,
		ClientToken: clientToken,
		PlayerID:    player.UUID,
		CreatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	profile := domain.Profile{ID: uuidx.Undashed(player.UUID), Name: player.Username}
	return &AuthResult{
		AccessToken:       accessToken,
		ClientToken:       clientToken,
		AvailableProfiles: []domain.Profile{profile},
		SelectedProfile:   &profile,
	}, nil
}

func (s *AuthService) userBlock(ctx context.Context, player domain.Player) (*UserBlock, error) {
	props, err := s.Store.Players().GetPlayerProperties(ctx, player.UUID)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	return &UserBlock{
		ID:         uuidx.Undashed(player.UUID),
		Username:   player.Username,
		Properties: props,
	}, nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		return ErrTokenExpired
	case errors.Is(err, jwtx.ErrMalformed):
		return ErrTokenMalformed
	default:
		return ErrTokenInvalid
	}
}
