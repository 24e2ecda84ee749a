package service

import "errors"

// Sentinel errors returned by the services. The HTTP layer maps them onto
// the protocol error envelopes; everything else surfaces as a 500.
var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrPlayerNotFound     = errors.New("player_not_found")
	ErrUsernameTaken      = errors.New("username_taken")
	ErrInvalidUsername    = errors.New("invalid_username")
	ErrWeakPassword       = errors.New("weak_password")

	// ErrTokenRejected covers refresh and invalidate attempts against a
	// token the service will not act on. Callers intentionally cannot tell
	// a revoked session from one that never existed.
	ErrTokenRejected = errors.New("token_rejected")

	ErrMissingToken   = errors.New("missing_token")
	ErrTokenExpired   = errors.New("token_expired")
	ErrTokenInvalid   = errors.New("token_invalid")
	ErrTokenMalformed = errors.New("token_malformed")
	ErrSessionRevoked = errors.New("session_revoked")

	ErrNotFound = errors.New("not_found")

	// ErrJoinMismatch is returned when hasJoined finds no pending join
	// matching the server id and username.
	ErrJoinMismatch = errors.New("join_mismatch")
)
