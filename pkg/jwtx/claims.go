// Package jwtx signs and verifies session access tokens. Tokens are RS256
// JWTs carrying the player subject plus the correlating client token; they are
// self-describing but never authoritative on their own; the session store
// decides liveness.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the lifetime of a session access token. A day is
// long for a bearer token, but refresh unconditionally destroys the previous
// session record, which bounds exposure.
const DefaultAccessTokenTTL = 24 * time.Hour

var (
	ErrExpired   = errors.New("jwtx: token expired")
	ErrInvalid   = errors.New("jwtx: token invalid")
	ErrMalformed = errors.New("jwtx: token malformed")
)

// SessionClaims are the claims embedded in an access token. The client token
// rides inside the JWT so the protected-resource path can recover the full
// (access, client) pair from the bearer header alone.
type SessionClaims struct {
	jwt.RegisteredClaims

	Username    string `json:"username,omitempty"`
	ClientToken string `json:"clientToken,omitempty"`
}

// NewSessionClaims builds claims for a freshly authenticated player.
func NewSessionClaims(playerID, username, clientToken, issuer string, ttl time.Duration, now time.Time) SessionClaims {
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   playerID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username:    username,
		ClientToken: clientToken,
	}
}
