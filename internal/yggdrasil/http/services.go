package http

import (
	"encoding/base64"
	"encoding/pem"
	"net/http"
	"time"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/service"
	"github.com/lanternmc/yggdrasil/pkg/httpx"
)

// CertificatesHandler serves POST /minecraftservices/player/certificates.
type CertificatesHandler struct {
	Auth  *service.AuthService
	Certs *service.CertificateService
}

type keyPairResponse struct {
	PrivateKey string `json:"privateKey"`
	PublicKey  string `json:"publicKey"`
}

type certificatesResponse struct {
	KeyPair              keyPairResponse `json:"keyPair"`
	PublicKeySignatureV2 string          `json:"publicKeySignatureV2"`
	ExpiresAt            string          `json:"expiresAt"`
	RefreshedAfter       string          `json:"refreshedAfter"`
}

// ServeHTTP godoc
//
//	@Summary		Fetch the caller's chat signing certificate
//	@Description	Returns the cached certificate while it is comfortably fresh and issues a new RSA-4096 pair otherwise.
//	@Tags			minecraftservices
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	certificatesResponse
//	@Failure		401	{object}	ErrorResponse	"Missing bearer token"
//	@Failure		403	{object}	ErrorResponse	"Invalid token"
//	@Router			/minecraftservices/player/certificates [post].
func (h *CertificatesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, err := h.Auth.VerifyAccessToken(r.Context(), bearerToken(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	cert, err := h.Certs.FetchOrIssue(r.Context(), identity.PlayerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, certificatesResponse{
		KeyPair: keyPairResponse{
			PrivateKey: cert.PrivateKeyPEM,
			PublicKey:  cert.PublicKeyPEM,
		},
		PublicKeySignatureV2: cert.PublicKeySignature,
		ExpiresAt:            cert.ExpiresAt.UTC().Format(time.RFC3339Nano),
		RefreshedAfter:       cert.RefreshedAfter.UTC().Format(time.RFC3339Nano),
	})
}

// PublicKeysHandler serves GET /minecraftservices/publickeys, the key set
// third parties use to verify profile and certificate signatures offline.
type PublicKeysHandler struct {
	AttestationSPKI []byte
}

type publicKeyEntry struct {
	PublicKey string `json:"publicKey"` // base64 DER, no PEM armor
}

type publicKeysResponse struct {
	ProfilePropertyKeys   []publicKeyEntry `json:"profilePropertyKeys"`
	PlayerCertificateKeys []publicKeyEntry `json:"playerCertificateKeys"`
}

// ServeHTTP godoc
//
//	@Summary	Published service public keys
//	@Tags		minecraftservices
//	@Produce	json
//	@Success	200	{object}	publicKeysResponse
//	@Router		/minecraftservices/publickeys [get].
func (h *PublicKeysHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	block, _ := pem.Decode(h.AttestationSPKI)
	if block == nil {
		errInternal.write(w, r)
		return
	}
	entry := publicKeyEntry{PublicKey: base64.StdEncoding.EncodeToString(block.Bytes)}

	httpx.WriteJSON(w, http.StatusOK, publicKeysResponse{
		ProfilePropertyKeys:   []publicKeyEntry{entry},
		PlayerCertificateKeys: []publicKeyEntry{entry},
	})
}
