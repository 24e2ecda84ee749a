// Package uuidx handles the two UUID spellings the Minecraft protocol uses:
// dashed (storage, most auth endpoints) and dash-free (session server profile
// payloads). Helpers here accept either form and normalize.
package uuidx

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a fresh random UUID in dashed canonical form.
func New() string {
	return uuid.NewString()
}

// IsValid reports whether s parses as a UUID in either spelling.
func IsValid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// Dashed normalizes s to the canonical dashed form. Returns the empty string
// if s is not a UUID.
func Dashed(s string) string {
	u, err := uuid.Parse(s)
	if err != nil {
		return ""
	}
	return u.String()
}

// Undashed normalizes s to the 32-char dash-free form used in texture
// payloads. Returns the empty string if s is not a UUID.
func Undashed(s string) string {
	u, err := uuid.Parse(s)
	if err != nil {
		return ""
	}
	return strings.ReplaceAll(u.String(), "-", "")
}
