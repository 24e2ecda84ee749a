package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/service"
	"github.com/lanternmc/yggdrasil/pkg/httpx"
	"github.com/lanternmc/yggdrasil/pkg/uuidx"
)

// ProfileHandler serves GET /sessionserver/session/minecraft/profile/{uuid}.
type ProfileHandler struct {
	Profiles *service.ProfileService
}

// ServeHTTP godoc
//
//	@Summary		Fetch a profile with its signed textures property
//	@Description	Pass unsigned=true to omit the attestation signature over the textures value.
//	@Tags			sessionserver
//	@Produce		json
//	@Param			uuid		path		string	true	"Profile UUID, dashed or dash-free"
//	@Param			unsigned	query		bool	false	"Omit the textures signature (default false)"
//	@Success		200			{object}	domain.SignedProfile
//	@Failure		404			{object}	ErrorResponse	"Unknown profile"
//	@Router			/sessionserver/session/minecraft/profile/{uuid} [get].
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Signed unless explicitly opted out.
	unsigned := r.URL.Query().Get("unsigned") == "true"

	profile, err := h.Profiles.BuildProfile(r.Context(), dashedPathUUID(r), unsigned)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, profile)
}

// JoinHandler serves POST /sessionserver/session/minecraft/join.
type JoinHandler struct {
	Sessions *service.SessionService
}

type joinRequest struct {
	AccessToken     string `json:"accessToken"`
	SelectedProfile string `json:"selectedProfile"`
	ServerID        string `json:"serverId"`
}

// ServeHTTP godoc
//
//	@Summary		Announce a multiplayer join
//	@Description	Called by the game client right before connecting to a server. The matching hasJoined must arrive before the record expires.
//	@Tags			sessionserver
//	@Accept			json
//	@Success		204	"Join recorded"
//	@Failure		403	{object}	ErrorResponse	"Invalid token"
//	@Router			/sessionserver/session/minecraft/join [post].
func (h *JoinHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errIllegalArgument.write(w, r)
		return
	}

	err := h.Sessions.JoinServer(r.Context(),
		req.AccessToken, req.SelectedProfile, req.ServerID, clientIP(r))
	if err != nil {
		if errors.Is(err, service.ErrJoinMismatch) {
			errIllegalArgument.write(w, r)
			return
		}
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HasJoinedHandler serves GET /sessionserver/session/minecraft/hasJoined.
type HasJoinedHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Confirm a pending join from the server side
//	@Description	Returns the joining player's signed profile on a match. A mismatch answers 204 with no body, never an error envelope.
//	@Tags			sessionserver
//	@Produce		json
//	@Param			username	query		string	true	"Player name the server saw"
//	@Param			serverId	query		string	true	"Server hash from the protocol handshake"
//	@Param			ip			query		string	false	"Client address the server saw"
//	@Success		200			{object}	domain.SignedProfile
//	@Success		204			"No matching join"
//	@Router			/sessionserver/session/minecraft/hasJoined [get].
func (h *HasJoinedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	profile, err := h.Sessions.HasJoined(r.Context(),
		q.Get("username"), q.Get("serverId"), q.Get("ip"))
	if err != nil {
		if errors.Is(err, service.ErrJoinMismatch) || errors.Is(err, service.ErrPlayerNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, profile)
}

// dashedPathUUID normalizes the {uuid} path segment; clients send both
// dashed and dash-free forms.
func dashedPathUUID(r *http.Request) string {
	return uuidx.Dashed(r.PathValue("uuid"))
}

// clientIP resolves the peer address the same way the rate limiter does.
func clientIP(r *http.Request) string {
	return httpx.IPKeyExtractor(r)
}
