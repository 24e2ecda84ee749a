package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/domain"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store"
)

func TestHousekeepingSweep(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.createPlayer(t, "steve", "hunter2hunter2")

	old := time.Now().UTC().Add(-72 * time.Hour)
	require.NoError(t, e.store.Sessions().Insert(ctx, domain.Session{
		AccessToken: "stale", ClientToken: "c", PlayerID: p.UUID, CreatedAt: old,
	}))
	require.NoError(t, e.store.Certificates().Put(ctx, domain.Certificate{
		PlayerID: p.UUID, PrivateKeyPEM: "k", PublicKeyPEM: "p", PublicKeySignature: "s",
		ExpiresAt: old, RefreshedAfter: old, CreatedAt: old,
	}))
	require.NoError(t, e.joins.Put(ctx, domain.ServerJoin{
		ServerID: "abandoned", PlayerID: p.UUID, CreatedAt: old,
	}))

	fresh, err := e.auth.Authenticate(ctx, "steve", "hunter2hunter2", "c", false)
	require.NoError(t, err)

	h := &Housekeeping{Store: e.store, Joins: e.joins}
	h.sweep()

	ok, err := e.store.Sessions().Validate(ctx, "stale", "c")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = e.store.Certificates().Get(ctx, p.UUID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = e.joins.Get(ctx, "abandoned")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Live state survives the sweep.
	require.NoError(t, e.auth.Validate(ctx, fresh.AccessToken, fresh.ClientToken))
}

func TestHousekeepingStartStop(t *testing.T) {
	e := newEnv(t)

	h := &Housekeeping{Store: e.store, Joins: e.joins, Interval: 10 * time.Millisecond}
	h.Start()
	time.Sleep(30 * time.Millisecond)
	h.Stop()

	// Stop after Stop must not panic or hang.
	require.NotPanics(t, func() { (&Housekeeping{}).Stop() })
}
