package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/domain"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store"
	"github.com/lanternmc/yggdrasil/pkg/uuidx"
)

// ProfileService assembles signed profile payloads for the sessionserver:
// the textures property, its attestation signature and any active profile
// restrictions.
type ProfileService struct {
	Store store.Store
	Keys  AttestationSigner
	Now   func() time.Time
}

func (s *ProfileService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// BuildProfile returns the player's profile with its textures property. When
// unsigned is false, the base64 payload bytes are signed with the
// attestation key. A USING_BANNED_SKIN restriction removes the skin from the
// payload while leaving it selected in storage.
func (s *ProfileService) BuildProfile(ctx context.Context, playerID string, unsigned bool) (domain.SignedProfile, error) {
	player, err := s.Store.Players().GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.SignedProfile{}, ErrPlayerNotFound
		}
		return domain.SignedProfile{}, fmt.Errorf("lookup player: %w", err)
	}

	var (
		skin    *domain.Skin
		cape    *domain.Cape
		actions []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		skin, err = s.Store.Profiles().GetActiveSkin(gctx, playerID)
		return err
	})
	g.Go(func() error {
		var err error
		cape, err = s.Store.Profiles().GetActiveCape(gctx, playerID)
		return err
	})
	g.Go(func() error {
		var err error
		actions, err = s.Store.Profiles().GetProfileActions(gctx, playerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.SignedProfile{}, fmt.Errorf("load profile state: %w", err)
	}

	if slices.Contains(actions, domain.ProfileActionBannedSkin) {
		skin = nil
	}

	profileID := uuidx.Undashed(player.UUID)
	payload := domain.TexturePayload{
		Timestamp:         s.now().UnixMilli(),
		ProfileID:         profileID,
		ProfileName:       player.Username,
		SignatureRequired: !unsigned,
	}
	if skin != nil {
		tex := &domain.Texture{URL: skin.URL}
		if skin.Variant == domain.SkinVariantSlim {
			tex.Metadata = &domain.TextureMetadata{Model: "slim"}
		}
		payload.Textures.Skin = tex
	}
	if cape != nil {
		payload.Textures.Cape = &domain.Texture{URL: cape.URL}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return domain.SignedProfile{}, fmt.Errorf("encode textures: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	prop := domain.Property{Name: "textures", Value: encoded}
	if !unsigned {
		// The signature covers the base64 text itself, not the decoded
		// JSON: verifiers check the property value as transmitted.
		prop.Signature, err = s.Keys.SignAttestation([]byte(encoded))
		if err != nil {
			return domain.SignedProfile{}, fmt.Errorf("sign textures: %w", err)
		}
	}

	if actions == nil {
		actions = []string{}
	}
	return domain.SignedProfile{
		ID:             profileID,
		Name:           player.Username,
		Properties:     []domain.Property{prop},
		ProfileActions: actions,
	}, nil
}
