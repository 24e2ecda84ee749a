package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/domain"
	"github.com/lanternmc/yggdrasil/pkg/cryptox"
	"github.com/lanternmc/yggdrasil/pkg/uuidx"
)

func decodeTextures(t *testing.T, profile domain.SignedProfile) domain.TexturePayload {
	t.Helper()
	require.Len(t, profile.Properties, 1)
	require.Equal(t, "textures", profile.Properties[0].Name)

	raw, err := base64.StdEncoding.DecodeString(profile.Properties[0].Value)
	require.NoError(t, err)

	var payload domain.TexturePayload
	require.NoError(t, json.Unmarshal(raw, &payload))
	return payload
}

func TestBuildProfileSigned(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.createPlayer(t, "steve", "hunter2hunter2")
	require.NoError(t, e.store.Profiles().SetActiveSkin(ctx, p.UUID, domain.Skin{
		URL: "http://textures.test/skin/1", Variant: domain.SkinVariantClassic,
	}))

	profile, err := e.profiles.BuildProfile(ctx, p.UUID, false)
	require.NoError(t, err)
	require.Equal(t, uuidx.Undashed(p.UUID), profile.ID)
	require.Equal(t, "steve", profile.Name)
	require.Empty(t, profile.ProfileActions)

	payload := decodeTextures(t, profile)
	require.Equal(t, uuidx.Undashed(p.UUID), payload.ProfileID)
	require.Equal(t, "steve", payload.ProfileName)
	require.True(t, payload.SignatureRequired)
	require.NotNil(t, payload.Textures.Skin)
	require.Equal(t, "http://textures.test/skin/1", payload.Textures.Skin.URL)
	require.Nil(t, payload.Textures.Skin.Metadata)
	require.Nil(t, payload.Textures.Cape)

	// Signature covers the transmitted base64 text.
	require.NotEmpty(t, profile.Properties[0].Signature)
	require.NoError(t, cryptox.VerifySHA256(&testAttestKey.PublicKey,
		profile.Properties[0].Signature, []byte(profile.Properties[0].Value)))
}

func TestBuildProfileUnsigned(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.createPlayer(t, "steve", "hunter2hunter2")

	profile, err := e.profiles.BuildProfile(ctx, p.UUID, true)
	require.NoError(t, err)
	require.Empty(t, profile.Properties[0].Signature)

	payload := decodeTextures(t, profile)
	require.False(t, payload.SignatureRequired)
}

func TestBuildProfileSlimMetadata(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.createPlayer(t, "alex", "hunter2hunter2")
	require.NoError(t, e.store.Profiles().SetActiveSkin(ctx, p.UUID, domain.Skin{
		URL: "http://textures.test/skin/2", Variant: domain.SkinVariantSlim,
	}))

	profile, err := e.profiles.BuildProfile(ctx, p.UUID, false)
	require.NoError(t, err)

	payload := decodeTextures(t, profile)
	require.NotNil(t, payload.Textures.Skin.Metadata)
	require.Equal(t, "slim", payload.Textures.Skin.Metadata.Model)
}

func TestBuildProfileWithCape(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.createPlayer(t, "steve", "hunter2hunter2")
	require.NoError(t, e.store.Profiles().SetActiveCape(ctx, p.UUID, domain.Cape{
		URL: "http://textures.test/cape/1", Alias: "migrator",
	}))

	profile, err := e.profiles.BuildProfile(ctx, p.UUID, false)
	require.NoError(t, err)

	payload := decodeTextures(t, profile)
	require.Nil(t, payload.Textures.Skin)
	require.NotNil(t, payload.Textures.Cape)
	require.Equal(t, "http://textures.test/cape/1", payload.Textures.Cape.URL)
}

func TestBuildProfileBannedSkinSuppressed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.createPlayer(t, "steve", "hunter2hunter2")
	require.NoError(t, e.store.Profiles().SetActiveSkin(ctx, p.UUID, domain.Skin{
		URL: "http://textures.test/skin/banned", Variant: domain.SkinVariantClassic,
	}))
	require.NoError(t, e.store.Profiles().SetActiveCape(ctx, p.UUID, domain.Cape{
		URL: "http://textures.test/cape/1",
	}))
	require.NoError(t, e.store.Profiles().AddProfileAction(ctx, p.UUID, domain.ProfileActionBannedSkin))

	profile, err := e.profiles.BuildProfile(ctx, p.UUID, false)
	require.NoError(t, err)
	require.Equal(t, []string{domain.ProfileActionBannedSkin}, profile.ProfileActions)

	// The skin disappears from the payload but the cape survives, and the
	// stored selection itself is untouched.
	payload := decodeTextures(t, profile)
	require.Nil(t, payload.Textures.Skin)
	require.NotNil(t, payload.Textures.Cape)

	skin, err := e.store.Profiles().GetActiveSkin(ctx, p.UUID)
	require.NoError(t, err)
	require.NotNil(t, skin)
}

func TestBuildProfileUnknownPlayer(t *testing.T) {
	e := newEnv(t)
	_, err := e.profiles.BuildProfile(context.Background(), uuidx.New(), false)
	require.ErrorIs(t, err, ErrPlayerNotFound)
}
