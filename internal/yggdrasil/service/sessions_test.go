package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lanternmc/yggdrasil/pkg/uuidx"
)

func TestJoinAndHasJoined(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.createPlayer(t, "steve", "hunter2hunter2")

	res, err := e.auth.Authenticate(ctx, "steve", "hunter2hunter2", "c", false)
	require.NoError(t, err)

	err = e.sessions.JoinServer(ctx, res.AccessToken, uuidx.Undashed(p.UUID), "-70d61a5c", "192.0.2.1")
	require.NoError(t, err)

	profile, err := e.sessions.HasJoined(ctx, "steve", "-70d61a5c", "")
	require.NoError(t, err)
	require.Equal(t, uuidx.Undashed(p.UUID), profile.ID)
	require.NotEmpty(t, profile.Properties)

	// The pending join is consumed by the first hasJoined.
	_, err = e.sessions.HasJoined(ctx, "steve", "-70d61a5c", "")
	require.ErrorIs(t, err, ErrJoinMismatch)
}

func TestJoinRequiresLiveToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.createPlayer(t, "steve", "hunter2hunter2")

	err := e.sessions.JoinServer(ctx, "garbage", "", "-70d61a5c", "")
	require.ErrorIs(t, err, ErrTokenMalformed)

	res, err := e.auth.Authenticate(ctx, "steve", "hunter2hunter2", "c", false)
	require.NoError(t, err)
	require.NoError(t, e.auth.Invalidate(ctx, res.AccessToken, res.ClientToken))

	err = e.sessions.JoinServer(ctx, res.AccessToken, "", "-70d61a5c", "")
	require.ErrorIs(t, err, ErrSessionRevoked)
}

func TestJoinRejectsForeignProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.createPlayer(t, "steve", "hunter2hunter2")
	other := e.createPlayer(t, "alex", "hunter2hunter2")

	res, err := e.auth.Authenticate(ctx, "steve", "hunter2hunter2", "c", false)
	require.NoError(t, err)

	err = e.sessions.JoinServer(ctx, res.AccessToken, uuidx.Undashed(other.UUID), "-70d61a5c", "")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestHasJoinedUsernameMismatch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.createPlayer(t, "steve", "hunter2hunter2")
	e.createPlayer(t, "alex", "hunter2hunter2")

	res, err := e.auth.Authenticate(ctx, "steve", "hunter2hunter2", "c", false)
	require.NoError(t, err)
	require.NoError(t, e.sessions.JoinServer(ctx, res.AccessToken, uuidx.Undashed(p.UUID), "srv", ""))

	_, err = e.sessions.HasJoined(ctx, "alex", "srv", "")
	require.ErrorIs(t, err, ErrJoinMismatch)
}

func TestHasJoinedIPCheck(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.createPlayer(t, "steve", "hunter2hunter2")

	res, err := e.auth.Authenticate(ctx, "steve", "hunter2hunter2", "c", false)
	require.NoError(t, err)
	require.NoError(t, e.sessions.JoinServer(ctx, res.AccessToken, uuidx.Undashed(p.UUID), "srv", "192.0.2.1"))

	_, err = e.sessions.HasJoined(ctx, "steve", "srv", "198.51.100.7")
	require.ErrorIs(t, err, ErrJoinMismatch)

	// The mismatch did not consume the join; the right address succeeds.
	profile, err := e.sessions.HasJoined(ctx, "steve", "srv", "192.0.2.1")
	require.NoError(t, err)
	require.Equal(t, "steve", profile.Name)
}

func TestLegacySessionLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.createPlayer(t, "steve", "hunter2hunter2")

	require.ErrorIs(t, e.sessions.RegisterLegacySession(ctx, "", p.UUID), ErrMissingToken)
	require.ErrorIs(t, e.sessions.RegisterLegacySession(ctx, "sess-1", uuidx.New()), ErrPlayerNotFound)

	require.NoError(t, e.sessions.RegisterLegacySession(ctx, "sess-1", p.UUID))
	require.NoError(t, e.sessions.ValidateLegacySession(ctx, "sess-1", p.UUID))

	// Dash-free ids resolve to the same player.
	require.NoError(t, e.sessions.ValidateLegacySession(ctx, "sess-1", uuidx.Undashed(p.UUID)))

	// A newer legacy session supersedes the old one.
	require.NoError(t, e.sessions.RegisterLegacySession(ctx, "sess-2", p.UUID))
	require.ErrorIs(t, e.sessions.ValidateLegacySession(ctx, "sess-1", p.UUID), ErrSessionRevoked)
	require.NoError(t, e.sessions.ValidateLegacySession(ctx, "sess-2", p.UUID))
}
