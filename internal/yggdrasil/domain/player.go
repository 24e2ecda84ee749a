package domain

import "time"

// Player is the identity record owned by the player store. The core never
// mutates it directly; session issuance only reads it.
type Player struct {
	UUID         string // dashed canonical form
	Username     string
	Email        string
	PasswordHash string // argon2id encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the minimal projection returned to game clients at login.
type Profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Property is a named, optionally signed value attached to a player or a
// profile (registration country, textures, ...).
type Property struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Signature string `json:"signature,omitempty"`
}
