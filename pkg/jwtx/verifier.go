package jwtx

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates session JWTs against the service's RSA session public
// key and expected issuer.
type Verifier struct {
	pub    *rsa.PublicKey
	issuer string
}

func NewVerifier(pub *rsa.PublicKey, issuer string) *Verifier {
	return &Verifier{pub: pub, issuer: issuer}
}

// Verify checks signature, algorithm, issuer and expiry, and returns the
// parsed claims. Failures map onto the package sentinels so callers can
// distinguish "expired" from "forged" without string matching.
func (v *Verifier) Verify(tokenStr string) (*SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		return v.pub, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %w", ErrExpired, err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}

// Decode parses claims WITHOUT verifying the signature or expiry. Refresh
// uses it to route an old (possibly expired) token back to its subject; the
// result must never be treated as authenticated.
func Decode(tokenStr string) (*SessionClaims, error) {
	parser := jwt.NewParser()
	claims := &SessionClaims{}
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return claims, nil
}
