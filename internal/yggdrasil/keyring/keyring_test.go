package keyring

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lanternmc/yggdrasil/pkg/cryptox"
)

func TestLoadGeneratesOnFirstRun(t *testing.T) {
	dir := t.TempDir()

	k, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, k.SessionKey())
	require.NotNil(t, k.AttestationKey())

	// Keys land on disk for the next start.
	for _, name := range []string{sessionKeyFile, attestationKeyFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestLoadReusesExistingKeys(t *testing.T) {
	dir := t.TempDir()

	first, err := Load(dir)
	require.NoError(t, err)

	second, err := Load(dir)
	require.NoError(t, err)

	require.Equal(t, first.SessionKey().D, second.SessionKey().D)
	require.Equal(t, first.AttestationKey().D, second.AttestationKey().D)
}

func TestSessionAndAttestationKeysDiffer(t *testing.T) {
	k, err := Load(t.TempDir())
	require.NoError(t, err)
	require.NotEqual(t, k.SessionKey().D, k.AttestationKey().D)
}

func TestAttestationPublicSPKI(t *testing.T) {
	k, err := Load(t.TempDir())
	require.NoError(t, err)

	pub := string(k.AttestationPublicSPKI())
	require.True(t, strings.HasPrefix(pub, "-----BEGIN PUBLIC KEY-----"))
	require.Contains(t, pub, "-----END PUBLIC KEY-----")
}

func TestSignAttestationVerifies(t *testing.T) {
	k, err := Load(t.TempDir())
	require.NoError(t, err)

	sig, err := k.SignAttestation([]byte("player"), []byte("key"))
	require.NoError(t, err)
	require.NoError(t, cryptox.VerifySHA256(&k.AttestationKey().PublicKey, sig, []byte("player"), []byte("key")))
}

func TestLoadRejectsCorruptKey(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, sessionKeyFile), []byte("not a key"), 0o600))

	_, err := Load(dir)
	require.Error(t, err)
}
