package domain

import "time"

// Certificate is a player-held RSA key pair plus the service's attestation
// that it issued the public half. One live row per player, overwritten on
// regeneration, never extended.
type Certificate struct {
	PlayerID           string
	PrivateKeyPEM      string
	PublicKeyPEM       string
	PublicKeySignature string // base64, signs playerID || publicKeyPEM || expiresAt
	ExpiresAt          time.Time
	RefreshedAfter     time.Time
	CreatedAt          time.Time
}
