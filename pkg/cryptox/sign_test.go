package cryptox_test

import (
	"testing"

	"github.com/lanternmc/yggdrasil/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerifySHA256(t *testing.T) {
	pemKey, err := cryptox.GenerateRSAKeyPKCS8(2048)
	require.NoError(t, err)
	key, err := cryptox.ParseRSAPrivateKeyPEM(pemKey)
	require.NoError(t, err)

	sig, err := cryptox.SignSHA256(key, []byte("part-one"), []byte("part-two"))
	require.NoError(t, err)

	require.NoError(t, cryptox.VerifySHA256(&key.PublicKey, sig, []byte("part-one"), []byte("part-two")))

	// Same bytes split differently still verify; the signature covers the
	// concatenation.
	require.NoError(t, cryptox.VerifySHA256(&key.PublicKey, sig, []byte("part-onepart-two")))

	require.Error(t, cryptox.VerifySHA256(&key.PublicKey, sig, []byte("tampered")))
	require.Error(t, cryptox.VerifySHA256(&key.PublicKey, "!!not-base64!!", []byte("part-one")))
}

func TestGenerateRSAKeyPair(t *testing.T) {
	priv, pub, err := cryptox.GenerateRSAKeyPair(2048)
	require.NoError(t, err)
	require.Contains(t, string(priv), "RSA PRIVATE KEY")
	require.Contains(t, string(pub), "RSA PUBLIC KEY")

	key, err := cryptox.ParseRSAPrivateKeyPEM(priv)
	require.NoError(t, err)

	spki, err := cryptox.MarshalPublicKeySPKI(&key.PublicKey)
	require.NoError(t, err)
	require.Contains(t, string(spki), "BEGIN PUBLIC KEY")

	_, _, err = cryptox.GenerateRSAKeyPair(1024)
	require.Error(t, err)
}
