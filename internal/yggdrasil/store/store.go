package store

import (
	"context"
	"errors"
	"time"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose sub-repositories to keep concerns separate and mockable. Server-join
// records are intentionally NOT part of this interface: they are ephemeral
// and may live in Redis instead (see ServerJoins).
type Store interface {
	Players() Players
	Sessions() Sessions
	Certificates() Certificates
	Profiles() Profiles

	ApplyMigrations() error

	// Tx starts a read/write transaction scoped Store. The caller MUST call
	// Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, committing on nil and rolling
	// back on error. Preferred over Tx for multi-step operations.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the backing database is reachable.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Players interface {
	// GetPlayerByIdentifier resolves a player by username, email or UUID.
	// Login accepts any of the three.
	GetPlayerByIdentifier(ctx context.Context, identifier string) (domain.Player, error)

	// GetPlayer fetches a player by UUID.
	GetPlayer(ctx context.Context, playerID string) (domain.Player, error)

	// GetPlayerByUsername is the hasJoined lookup path.
	GetPlayerByUsername(ctx context.Context, username string) (domain.Player, error)

	// CreatePlayer inserts a new player (UUID assigned by the caller).
	CreatePlayer(ctx context.Context, p domain.Player) error

	// GetPlayerProperties returns the non-secret properties attached to a
	// player (registration country, preferred language, ...).
	GetPlayerProperties(ctx context.Context, playerID string) ([]domain.Property, error)

	// PutPlayerProperty upserts one named property.
	PutPlayerProperty(ctx context.Context, playerID, name, value string) error
}

type Sessions interface {
	// Insert persists a freshly minted session record.
	Insert(ctx context.Context, s domain.Session) error

	// Validate reports whether the exact (access, client) pair is live.
	Validate(ctx context.Context, accessToken, clientToken string) (bool, error)

	// Invalidate deletes exactly the matching record, returning how many
	// rows were removed (0 or 1).
	Invalidate(ctx context.Context, accessToken, clientToken string) (int64, error)

	// InvalidateAll deletes every session record for the player.
	InvalidateAll(ctx context.Context, playerID string) (int64, error)

	// InsertLegacy stores a single-token session, superseding any previous
	// legacy session for the same player.
	InsertLegacy(ctx context.Context, s domain.LegacySession) error

	// ValidateLegacy reports whether the (sessionID, playerID) pair is live.
	ValidateLegacy(ctx context.Context, sessionID, playerID string) (bool, error)

	// PurgeCreatedBefore removes session rows older than cutoff. Rows whose
	// embedded token already expired can never validate again, so this is
	// pure housekeeping.
	PurgeCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Certificates interface {
	// Get returns the single live certificate for a player.
	Get(ctx context.Context, playerID string) (domain.Certificate, error)

	// Put overwrites the player's certificate row.
	Put(ctx context.Context, cert domain.Certificate) error

	// DeleteExpiredBefore removes certificates with expiresAt < t.
	DeleteExpiredBefore(ctx context.Context, t time.Time) (int64, error)
}

// Profiles is the read side of skin/cape/restriction state. Writes happen in
// the out-of-scope wardrobe subsystem; the setters below exist for seeding.
type Profiles interface {
	// GetActiveSkin returns the selected skin, or nil when the player has
	// none.
	GetActiveSkin(ctx context.Context, playerID string) (*domain.Skin, error)

	// GetActiveCape returns the shown cape, or nil when hidden or unowned.
	GetActiveCape(ctx context.Context, playerID string) (*domain.Cape, error)

	// GetProfileActions lists active restriction codes for a player.
	GetProfileActions(ctx context.Context, playerID string) ([]string, error)

	SetActiveSkin(ctx context.Context, playerID string, skin domain.Skin) error
	SetActiveCape(ctx context.Context, playerID string, cape domain.Cape) error
	AddProfileAction(ctx context.Context, playerID, action string) error
	RemoveProfileAction(ctx context.Context, playerID, action string) error
}

// ServerJoins brokers the join/hasJoined handshake. Implementations: Redis
// (preferred, TTL-based expiry) and sqlite (fallback, swept by housekeeping).
type ServerJoins interface {
	// Put records a pending join, replacing any previous record for the
	// same server id.
	Put(ctx context.Context, j domain.ServerJoin) error

	// Get returns the pending join for a server id.
	Get(ctx context.Context, serverID string) (domain.ServerJoin, error)

	// Delete removes the pending join, if any.
	Delete(ctx context.Context, serverID string) error

	// PurgeCreatedBefore removes stale joins older than cutoff. The Redis
	// implementation is a no-op since keys carry a TTL.
	PurgeCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
