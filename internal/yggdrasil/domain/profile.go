package domain

// ProfileActionBannedSkin marks a player whose active skin is suppressed from
// profile payloads. The skin stays selected in storage; only its exposure is
// blocked.
const ProfileActionBannedSkin = "USING_BANNED_SKIN"

// Skin variants as stored and as serialized into texture metadata.
const (
	SkinVariantClassic = "CLASSIC"
	SkinVariantSlim    = "SLIM"
)

// Skin is a player's active skin texture.
type Skin struct {
	URL     string
	Variant string // CLASSIC or SLIM
}

// Cape is a player's active cape texture.
type Cape struct {
	URL   string
	Alias string
}

// TexturePayload is the canonical texture assertion third-party servers
// verify offline. Field order is part of the wire contract: the payload is
// serialized, base64-encoded and signed byte-for-byte, so the struct layout
// below must not be reordered.
type TexturePayload struct {
	Timestamp         int64    `json:"timestamp"` // issuance time, ms since epoch
	ProfileID         string   `json:"profileId"` // dash-free UUID
	ProfileName       string   `json:"profileName"`
	SignatureRequired bool     `json:"signatureRequired"`
	Textures          Textures `json:"textures"`
}

// Textures holds at most a SKIN and a CAPE entry; absent textures are
// omitted from the JSON entirely.
type Textures struct {
	Skin *Texture `json:"SKIN,omitempty"`
	Cape *Texture `json:"CAPE,omitempty"`
}

// Texture is a single texture reference. Metadata is present only for
// slim-model skins.
type Texture struct {
	URL      string           `json:"url"`
	Metadata *TextureMetadata `json:"metadata,omitempty"`
}

type TextureMetadata struct {
	Model string `json:"model"`
}

// SignedProfile is the sessionserver profile response: identity, the signed
// textures property, and any active profile restrictions.
type SignedProfile struct {
	ID             string     `json:"id"` // dash-free UUID
	Name           string     `json:"name"`
	Properties     []Property `json:"properties"`
	ProfileActions []string   `json:"profileActions"`
}
