package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store"
)

const (
	// DefaultHousekeepingInterval is how often the sweep runs.
	DefaultHousekeepingInterval = time.Hour

	// sessionRetention keeps session rows around for a day past the token
	// lifetime, mostly so recent revocations stay observable in the data.
	sessionRetention = 48 * time.Hour

	// joinRetention bounds how long an unconsumed join may linger in the
	// sqlite broker. Redis joins expire on their own.
	joinRetention = 5 * time.Minute
)

// Housekeeping periodically removes rows that can no longer affect any
// request: expired certificates, stale session records and abandoned joins.
type Housekeeping struct {
	Store    store.Store
	Joins    store.ServerJoins
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// Start launches the background sweep loop. Call Stop to shut it down.
func (h *Housekeeping) Start() {
	if h.Interval <= 0 {
		h.Interval = DefaultHousekeepingInterval
	}
	h.stopCh = make(chan struct{})
	h.doneCh = make(chan struct{})

	go func() {
		defer close(h.doneCh)
		ticker := time.NewTicker(h.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				h.sweep()
			case <-h.stopCh:
				return
			}
		}
	}()
}

// Stop signals the loop to exit and waits for the in-flight sweep to finish.
func (h *Housekeeping) Stop() {
	if h.stopCh == nil {
		return
	}
	close(h.stopCh)
	<-h.doneCh
}

func (h *Housekeeping) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := time.Now()

	certs, err := h.Store.Certificates().DeleteExpiredBefore(ctx, now)
	if err != nil {
		slog.Error("housekeeping: certificate sweep failed", "error", err)
	}

	sessions, err := h.Store.Sessions().PurgeCreatedBefore(ctx, now.Add(-sessionRetention))
	if err != nil {
		slog.Error("housekeeping: session sweep failed", "error", err)
	}

	var joins int64
	if h.Joins != nil {
		joins, err = h.Joins.PurgeCreatedBefore(ctx, now.Add(-joinRetention))
		if err != nil {
			slog.Error("housekeeping: join sweep failed", "error", err)
		}
	}

	if certs+sessions+joins > 0 {
		slog.Info("housekeeping sweep",
			"certificates", certs, "sessions", sessions, "joins", joins)
	}
}
