package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lanternmc/yggdrasil/pkg/uuidx"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p, err := e.players.Register(ctx, "steve", "Steve@Example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.True(t, uuidx.IsValid(p.UUID))
	require.Equal(t, "steve@example.com", p.Email)

	_, err = e.auth.Authenticate(ctx, "steve", "hunter2hunter2", "c", false)
	require.NoError(t, err)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.players.Register(ctx, "steve", "a@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = e.players.Register(ctx, "steve", "b@example.com", "hunter2hunter2")
	require.ErrorIs(t, err, ErrUsernameTaken)

	// Usernames collide case-insensitively.
	_, err = e.players.Register(ctx, "STEVE", "c@example.com", "hunter2hunter2")
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.players.Register(ctx, "", "a@example.com", "hunter2hunter2")
	require.ErrorIs(t, err, ErrInvalidUsername)

	_, err = e.players.Register(ctx, "way_too_long_username", "a@example.com", "hunter2hunter2")
	require.ErrorIs(t, err, ErrInvalidUsername)

	_, err = e.players.Register(ctx, "bad name", "a@example.com", "hunter2hunter2")
	require.ErrorIs(t, err, ErrInvalidUsername)

	_, err = e.players.Register(ctx, "steve", "a@example.com", "short")
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestLookupAcceptsBothUUIDForms(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.createPlayer(t, "steve", "hunter2hunter2")

	got, err := e.players.Lookup(ctx, p.UUID)
	require.NoError(t, err)
	require.Equal(t, "steve", got.Username)

	got, err = e.players.Lookup(ctx, uuidx.Undashed(p.UUID))
	require.NoError(t, err)
	require.Equal(t, "steve", got.Username)

	_, err = e.players.Lookup(ctx, uuidx.New())
	require.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestLookupByUsername(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.createPlayer(t, "steve", "hunter2hunter2")

	got, err := e.players.LookupByUsername(ctx, "steve")
	require.NoError(t, err)
	require.Equal(t, "steve", got.Username)

	_, err = e.players.LookupByUsername(ctx, "nobody")
	require.ErrorIs(t, err, ErrPlayerNotFound)
}
