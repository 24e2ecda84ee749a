package jwtx

import (
	"crypto/rsa"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Signer signs session claims with the service's RSA session key.
type Signer struct {
	key *rsa.PrivateKey
}

// NewSigner wraps an already-loaded RSA private key.
func NewSigner(key *rsa.PrivateKey) (*Signer, error) {
	if key == nil {
		return nil, errors.New("jwtx: nil RSA key")
	}
	return &Signer{key: key}, nil
}

// Sign turns claims into a signed RS256 JWT string.
func (s *Signer) Sign(claims SessionClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
}
