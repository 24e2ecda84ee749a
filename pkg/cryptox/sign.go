package cryptox

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// SignSHA256 signs the concatenation of parts with RSASSA-PKCS1-v1_5 over
// SHA-256 and returns the signature in standard base64. Third-party servers
// verify these signatures offline against the published attestation key.
func SignSHA256(key *rsa.PrivateKey, parts ...[]byte) (string, error) {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}

	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, h.Sum(nil))
	if err != nil {
		return "", fmt.Errorf("cryptox: sign: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifySHA256 checks a base64 signature produced by SignSHA256.
func VerifySHA256(pub *rsa.PublicKey, signature string, parts ...[]byte) error {
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("cryptox: decode signature: %w", err)
	}

	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}

	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, h.Sum(nil), sig); err != nil {
		return fmt.Errorf("cryptox: verify: %w", err)
	}
	return nil
}
