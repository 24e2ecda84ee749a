package domain

import "time"

// Session is a live (access token, client token) pair for a player. The JWT
// inside AccessToken is self-describing, but only a row in the session store
// makes it authoritative.
type Session struct {
	AccessToken string
	ClientToken string
	PlayerID    string
	CreatedAt   time.Time
}

// LegacySession is the single-token compatibility record for older protocol
// clients. At most one live per player; inserting a new one supersedes it.
type LegacySession struct {
	SessionID string
	PlayerID  string
	CreatedAt time.Time
}

// ServerJoin is a pending multiplayer handshake: the client announced it is
// joining serverID, and the target server will confirm via hasJoined shortly
// after. Records are short-lived.
type ServerJoin struct {
	ServerID  string
	PlayerID  string
	IP        string
	CreatedAt time.Time
}

// Identity is the authenticated result of verifying an access token against
// both the signature and the session store.
type Identity struct {
	PlayerID    string
	Username    string
	ClientToken string
}
