package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/domain"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store"
	"github.com/lanternmc/yggdrasil/pkg/cryptox"
)

const (
	// CertificateTTL is how long an issued player certificate stays valid.
	CertificateTTL = 48 * time.Hour

	// CertificateRefreshAfter is the age at which clients should fetch a
	// replacement, half the validity window.
	CertificateRefreshAfter = 24 * time.Hour

	// certificateReuseMargin keeps a cached certificate out of circulation
	// when it is about to expire: a certificate handed out with less than
	// this margin left could be dead before the client first uses it.
	certificateReuseMargin = time.Minute

	playerKeyBits = 4096
)

// CertificateService issues and caches per-player RSA key pairs with a
// service attestation over the public half.
type CertificateService struct {
	Store store.Store
	Keys  AttestationSigner
	Now   func() time.Time
}

// AttestationSigner is the slice of the keyring the certificate service
// needs: signing with the attestation key.
type AttestationSigner interface {
	SignAttestation(parts ...[]byte) (string, error)
}

func (s *CertificateService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// FetchOrIssue returns the player's live certificate, reusing the cached one
// while it has comfortably more than the reuse margin left, and generating a
// fresh key pair otherwise. Expired rows are swept opportunistically in the
// background.
func (s *CertificateService) FetchOrIssue(ctx context.Context, playerID string) (domain.Certificate, error) {
	now := s.now()

	cert, err := s.Store.Certificates().Get(ctx, playerID)
	switch {
	case err == nil:
		if cert.ExpiresAt.After(now.Add(certificateReuseMargin)) {
			return cert, nil
		}
	case !errors.Is(err, store.ErrNotFound):
		return domain.Certificate{}, fmt.Errorf("load certificate: %w", err)
	}

	cert, err = s.issue(ctx, playerID, now)
	if err != nil {
		return domain.Certificate{}, err
	}

	// Sweep independently of the request so a slow delete cannot delay the
	// response. Uses a fresh context because the request's may be done.
	go func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := s.Store.Certificates().DeleteExpiredBefore(sweepCtx, now); err != nil {
			slog.Warn("certificate sweep failed", "error", err)
		}
	}()

	return cert, nil
}

func (s *CertificateService) issue(ctx context.Context, playerID string, now time.Time) (domain.Certificate, error) {
	privPEM, pubPEM, err := cryptox.GenerateRSAKeyPair(playerKeyBits)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("generate player key: %w", err)
	}

	expiresAt := now.Add(CertificateTTL)

	signature, err := s.Keys.SignAttestation(
		[]byte(playerID),
		pubPEM,
		[]byte(expiresAt.UTC().Format(time.RFC3339)),
	)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("sign attestation: %w", err)
	}

	cert := domain.Certificate{
		PlayerID:           playerID,
		PrivateKeyPEM:      string(privPEM),
		PublicKeyPEM:       string(pubPEM),
		PublicKeySignature: signature,
		ExpiresAt:          expiresAt,
		RefreshedAfter:     now.Add(CertificateRefreshAfter),
		CreatedAt:          now,
	}

	// A certificate that was never persisted must never reach a client:
	// the next fetch would mint a different key and split the identity.
	if err := s.Store.Certificates().Put(ctx, cert); err != nil {
		return domain.Certificate{}, fmt.Errorf("persist certificate: %w", err)
	}

	slog.InfoContext(ctx, "certificate issued", "player", playerID, "expires_at", expiresAt)
	return cert, nil
}
