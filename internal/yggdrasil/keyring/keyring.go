// Package keyring owns the service key material: the session key that signs
// access tokens and the attestation key that signs texture payloads and
// player certificates. Keys are loaded from disk and generated on first run,
// so a fresh deployment works without any provisioning step.
package keyring

import (
	"crypto/rsa"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lanternmc/yggdrasil/pkg/cryptox"
)

const (
	sessionKeyFile     = "session-private.pem"
	attestationKeyFile = "attestation-private.pem"

	serviceKeyBits = 2048
)

// Keyring holds the loaded service keys. Fields are private; accessors hand
// out what each consumer needs and nothing more. The session private key in
// particular never leaves this package except as a *rsa.PrivateKey for the
// token signer.
type Keyring struct {
	session     *rsa.PrivateKey
	attestation *rsa.PrivateKey

	attestationPubSPKI []byte
}

// Load reads the service keys from dir, generating any that are missing.
// The directory is created with owner-only permissions if absent.
func Load(dir string) (*Keyring, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("keyring: create dir %q: %w", dir, err)
	}

	session, err := loadOrGenerate(filepath.Join(dir, sessionKeyFile))
	if err != nil {
		return nil, err
	}
	attestation, err := loadOrGenerate(filepath.Join(dir, attestationKeyFile))
	if err != nil {
		return nil, err
	}

	pubSPKI, err := cryptox.MarshalPublicKeySPKI(&attestation.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("keyring: encode attestation public key: %w", err)
	}

	return &Keyring{
		session:            session,
		attestation:        attestation,
		attestationPubSPKI: pubSPKI,
	}, nil
}

// SessionKey signs and verifies access tokens. Its public half is never
// published.
func (k *Keyring) SessionKey() *rsa.PrivateKey { return k.session }

// AttestationKey signs texture payloads and player certificate attestations.
func (k *Keyring) AttestationKey() *rsa.PrivateKey { return k.attestation }

// AttestationPublicSPKI returns the published attestation public key as
// SPKI PEM.
func (k *Keyring) AttestationPublicSPKI() []byte { return k.attestationPubSPKI }

// SignAttestation signs the concatenated parts with the attestation key and
// returns the signature in base64.
func (k *Keyring) SignAttestation(parts ...[]byte) (string, error) {
	return cryptox.SignSHA256(k.attestation, parts...)
}

func loadOrGenerate(path string) (*rsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		raw, err = cryptox.GenerateRSAKeyPKCS8(serviceKeyBits)
		if err != nil {
			return nil, fmt.Errorf("keyring: generate %q: %w", path, err)
		}
		if err := os.WriteFile(path, raw, 0o600); err != nil {
			return nil, fmt.Errorf("keyring: write %q: %w", path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("keyring: read %q: %w", path, err)
	}

	key, err := cryptox.ParseRSAPrivateKeyPEM(raw)
	if err != nil {
		return nil, fmt.Errorf("keyring: parse %q: %w", path, err)
	}
	return key, nil
}
