package http

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/domain"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/service"
	sqlitestore "github.com/lanternmc/yggdrasil/internal/yggdrasil/store/drivers/sqlite"
	"github.com/lanternmc/yggdrasil/pkg/cryptox"
	"github.com/lanternmc/yggdrasil/pkg/jwtx"
	"github.com/lanternmc/yggdrasil/pkg/slogx"
	"github.com/lanternmc/yggdrasil/pkg/uuidx"
)

var testKey *rsa.PrivateKey

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "http-test")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	testKey, err = rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

type signerShim struct{ key *rsa.PrivateKey }

func (s signerShim) SignAttestation(parts ...[]byte) (string, error) {
	return cryptox.SignSHA256(s.key, parts...)
}

type testServer struct {
	srv   *httptest.Server
	store *sqlitestore.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlitestore.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	signer, err := jwtx.NewSigner(testKey)
	require.NoError(t, err)
	verifier := jwtx.NewVerifier(&testKey.PublicKey, "yggdrasil-test")

	auth := &service.AuthService{
		Store: st, Signer: signer, Verifier: verifier, Issuer: "yggdrasil-test",
	}
	profiles := &service.ProfileService{Store: st, Keys: signerShim{testKey}}
	joins := sqlitestore.NewServerJoins(st)

	spki, err := cryptox.MarshalPublicKeySPKI(&testKey.PublicKey)
	require.NoError(t, err)

	logger := slogx.New(slogx.Config{Service: "yggdrasil", Level: "error", Format: "text"})
	router := NewRouter("test", st, spki, logger)
	router.AuthService = auth
	router.PlayerService = &service.PlayerService{Store: st}
	router.CertificateService = &service.CertificateService{Store: st, Keys: signerShim{testKey}}
	router.ProfileService = profiles
	router.SessionService = &service.SessionService{
		Store: st, Joins: joins, Auth: auth, Profiles: profiles,
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, store: st}
}

func (ts *testServer) createPlayer(t *testing.T, username, password string) domain.Player {
	t.Helper()
	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)
	now := time.Now().UTC()
	p := domain.Player{
		UUID: uuidx.New(), Username: username, Email: username + "@example.com",
		PasswordHash: hash, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, ts.store.Players().CreatePlayer(context.Background(), p))
	return p
}

func (ts *testServer) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.srv.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// testClientToken spells a UUID so authenticate echoes it back unchanged.
const testClientToken = "0f7c1a6e34d84b0f9a2f6d2b9c6f4e11"

func (ts *testServer) login(t *testing.T, username, password string) service.AuthResult {
	t.Helper()
	resp := ts.postJSON(t, "/authserver/authenticate", map[string]any{
		"username": username, "password": password, "clientToken": testClientToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody[service.AuthResult](t, resp)
}

func TestAuthenticateEndpoint(t *testing.T) {
	ts := newTestServer(t)
	p := ts.createPlayer(t, "steve", "hunter2hunter2")

	res := ts.login(t, "steve", "hunter2hunter2")
	require.NotEmpty(t, res.AccessToken)
	require.Equal(t, testClientToken, res.ClientToken)
	require.Equal(t, uuidx.Undashed(p.UUID), res.SelectedProfile.ID)
}

func TestAuthenticateRejectsWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.createPlayer(t, "steve", "hunter2hunter2")

	resp := ts.postJSON(t, "/authserver/authenticate", map[string]any{
		"username": "steve", "password": "wrong",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	body := decodeBody[ErrorResponse](t, resp)
	require.Equal(t, "ForbiddenOperationException", body.Error)
	require.Equal(t, "/authserver/authenticate", body.Path)
}

func TestValidateAndInvalidateEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ts.createPlayer(t, "steve", "hunter2hunter2")
	res := ts.login(t, "steve", "hunter2hunter2")

	pair := map[string]any{"accessToken": res.AccessToken, "clientToken": res.ClientToken}

	resp := ts.postJSON(t, "/authserver/validate", pair)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = ts.postJSON(t, "/authserver/invalidate", pair)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = ts.postJSON(t, "/authserver/validate", pair)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Invalidating again matches nothing and says so.
	resp = ts.postJSON(t, "/authserver/invalidate", pair)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestRevokedAndForgedTokensAreIndistinguishable(t *testing.T) {
	ts := newTestServer(t)
	ts.createPlayer(t, "steve", "hunter2hunter2")
	res := ts.login(t, "steve", "hunter2hunter2")

	pair := map[string]any{"accessToken": res.AccessToken, "clientToken": res.ClientToken}
	resp := ts.postJSON(t, "/authserver/invalidate", pair)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	readBody := func(body any) (int, string) {
		resp := ts.postJSON(t, "/authserver/validate", body)
		defer resp.Body.Close()
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(raw)
	}

	revokedCode, revokedBody := readBody(pair)
	neverCode, neverBody := readBody(map[string]any{
		"accessToken": "never.issued.token", "clientToken": "whatever",
	})
	require.Equal(t, revokedCode, neverCode)
	require.Equal(t, revokedBody, neverBody)
}

func TestRefreshEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.createPlayer(t, "steve", "hunter2hunter2")
	old := ts.login(t, "steve", "hunter2hunter2")

	resp := ts.postJSON(t, "/authserver/refresh", map[string]any{
		"accessToken": old.AccessToken, "clientToken": old.ClientToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fresh := decodeBody[service.AuthResult](t, resp)
	require.NotEqual(t, old.AccessToken, fresh.AccessToken)

	// The old pair is dead.
	resp = ts.postJSON(t, "/authserver/validate", map[string]any{
		"accessToken": old.AccessToken, "clientToken": old.ClientToken,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestSignOutEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.createPlayer(t, "steve", "hunter2hunter2")
	res := ts.login(t, "steve", "hunter2hunter2")

	resp := ts.postJSON(t, "/authserver/signout", map[string]any{
		"username": "steve", "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = ts.postJSON(t, "/authserver/validate", map[string]any{
		"accessToken": res.AccessToken, "clientToken": res.ClientToken,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Signing out with nothing live is still a success to the caller.
	resp = ts.postJSON(t, "/authserver/signout", map[string]any{
		"username": "steve", "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestRegisterEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.postJSON(t, "/authserver/register", map[string]any{
		"username": "steve", "email": "steve@example.com", "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody[registerResponse](t, resp)
	require.True(t, uuidx.IsValid(body.ID))

	// Second registration with the same name fails.
	resp = ts.postJSON(t, "/authserver/register", map[string]any{
		"username": "steve", "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestProfileEndpoint(t *testing.T) {
	ts := newTestServer(t)
	p := ts.createPlayer(t, "steve", "hunter2hunter2")
	require.NoError(t, ts.store.Profiles().SetActiveSkin(context.Background(), p.UUID,
		domain.Skin{URL: "http://textures.test/skin/1", Variant: domain.SkinVariantSlim}))

	// Dash-free UUID; absent unsigned parameter means signed.
	resp, err := http.Get(ts.srv.URL + "/sessionserver/session/minecraft/profile/" +
		uuidx.Undashed(p.UUID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decodeBody[domain.SignedProfile](t, resp)
	require.Equal(t, uuidx.Undashed(p.UUID), profile.ID)
	require.Len(t, profile.Properties, 1)
	require.NotEmpty(t, profile.Properties[0].Signature)

	// Explicit opt-out drops the signature.
	resp, err = http.Get(ts.srv.URL + "/sessionserver/session/minecraft/profile/" + p.UUID + "?unsigned=true")
	require.NoError(t, err)
	profile = decodeBody[domain.SignedProfile](t, resp)
	require.Empty(t, profile.Properties[0].Signature)

	// Unknown profile.
	resp, err = http.Get(ts.srv.URL + "/sessionserver/session/minecraft/profile/" + uuidx.New())
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestJoinHasJoinedFlow(t *testing.T) {
	ts := newTestServer(t)
	p := ts.createPlayer(t, "steve", "hunter2hunter2")
	res := ts.login(t, "steve", "hunter2hunter2")

	resp := ts.postJSON(t, "/sessionserver/session/minecraft/join", map[string]any{
		"accessToken":     res.AccessToken,
		"selectedProfile": uuidx.Undashed(p.UUID),
		"serverId":        "-70d61a5c",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(ts.srv.URL +
		"/sessionserver/session/minecraft/hasJoined?username=steve&serverId=-70d61a5c")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decodeBody[domain.SignedProfile](t, resp)
	require.Equal(t, "steve", profile.Name)

	// Mismatches answer 204, not an error envelope.
	resp, err = http.Get(ts.srv.URL +
		"/sessionserver/session/minecraft/hasJoined?username=steve&serverId=-70d61a5c")
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestCertificatesEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.createPlayer(t, "steve", "hunter2hunter2")
	res := ts.login(t, "steve", "hunter2hunter2")

	req, err := http.NewRequest(http.MethodPost,
		ts.srv.URL+"/minecraftservices/player/certificates", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+res.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[certificatesResponse](t, resp)
	require.Contains(t, body.KeyPair.PrivateKey, "RSA PRIVATE KEY")
	require.NotEmpty(t, body.PublicKeySignatureV2)

	// No bearer token at all.
	resp, err = http.Post(ts.srv.URL+"/minecraftservices/player/certificates",
		"application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestPublicKeysEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.srv.URL + "/minecraftservices/publickeys")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[publicKeysResponse](t, resp)
	require.Len(t, body.ProfilePropertyKeys, 1)
	require.NotEmpty(t, body.ProfilePropertyKeys[0].PublicKey)
}

func TestLegacyJoinAndCheck(t *testing.T) {
	ts := newTestServer(t)
	p := ts.createPlayer(t, "steve", "hunter2hunter2")
	res := ts.login(t, "steve", "hunter2hunter2")

	sessionID := "token:" + res.AccessToken + ":" + uuidx.Undashed(p.UUID)
	resp, err := http.Get(ts.srv.URL + "/game/joinserver.jsp?user=steve&sessionId=" +
		sessionID + "&serverId=abc123")
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "OK", string(raw))

	resp, err = http.Get(ts.srv.URL + "/game/checkserver.jsp?user=steve&serverId=abc123")
	require.NoError(t, err)
	raw, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "YES", string(raw))

	// Consumed by the check.
	resp, err = http.Get(ts.srv.URL + "/game/checkserver.jsp?user=steve&serverId=abc123")
	require.NoError(t, err)
	raw, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "NO", string(raw))
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.srv.URL + "/livez")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	live := decodeBody[HealthResponse](t, resp)
	require.Equal(t, "ok", live.Status)

	resp, err = http.Get(ts.srv.URL + "/readyz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ready := decodeBody[HealthResponse](t, resp)
	require.Equal(t, "ok", ready.Checks.Database)
}
