package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/service"
	"github.com/lanternmc/yggdrasil/pkg/httpx"
)

// AuthenticateHandler serves POST /authserver/authenticate.
type AuthenticateHandler struct {
	Auth *service.AuthService
}

type authenticateRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	ClientToken string `json:"clientToken,omitempty"`
	RequestUser bool   `json:"requestUser,omitempty"`
	Agent       *struct {
		Name    string `json:"name"`
		Version int    `json:"version"`
	} `json:"agent,omitempty"`
}

// ServeHTTP godoc
//
//	@Summary		Authenticate a player
//	@Description	Verifies credentials and mints a session token pair. The username field also accepts the account email or UUID.
//	@Tags			authserver
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authenticateRequest	true	"Credentials"
//	@Success		200		{object}	service.AuthResult
//	@Failure		403		{object}	ErrorResponse	"Invalid credentials"
//	@Router			/authserver/authenticate [post].
func (h *AuthenticateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errIllegalArgument.write(w, r)
		return
	}
	if req.Username == "" || req.Password == "" {
		errInvalidCredentials.write(w, r)
		return
	}

	res, err := h.Auth.Authenticate(r.Context(),
		strings.TrimSpace(req.Username), req.Password, req.ClientToken, req.RequestUser)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

// RefreshHandler serves POST /authserver/refresh.
type RefreshHandler struct {
	Auth *service.AuthService
}

type refreshRequest struct {
	AccessToken string `json:"accessToken"`
	ClientToken string `json:"clientToken"`
	RequestUser bool   `json:"requestUser,omitempty"`
}

// ServeHTTP godoc
//
//	@Summary		Refresh a session
//	@Description	Exchanges a token pair for a fresh one. The old session is consumed whether or not its token has expired.
//	@Tags			authserver
//	@Accept			json
//	@Produce		json
//	@Param			body	body		refreshRequest	true	"Token pair"
//	@Success		200		{object}	service.AuthResult
//	@Failure		403		{object}	ErrorResponse	"Invalid token"
//	@Router			/authserver/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errIllegalArgument.write(w, r)
		return
	}

	res, err := h.Auth.Refresh(r.Context(), req.AccessToken, req.ClientToken, req.RequestUser)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

// ValidateHandler serves POST /authserver/validate.
type ValidateHandler struct {
	Auth *service.AuthService
}

type tokenPairRequest struct {
	AccessToken string `json:"accessToken"`
	ClientToken string `json:"clientToken,omitempty"`
}

// ServeHTTP godoc
//
//	@Summary	Check whether a token pair is currently valid
//	@Tags		authserver
//	@Accept		json
//	@Success	204	"Token is valid"
//	@Failure	403	{object}	ErrorResponse	"Invalid token"
//	@Router		/authserver/validate [post].
func (h *ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req tokenPairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errIllegalArgument.write(w, r)
		return
	}

	if err := h.Auth.Validate(r.Context(), req.AccessToken, req.ClientToken); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// InvalidateHandler serves POST /authserver/invalidate.
type InvalidateHandler struct {
	Auth *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary	Revoke one session
//	@Tags		authserver
//	@Accept		json
//	@Success	204	"Session revoked"
//	@Failure	404	{object}	ErrorResponse	"No matching live session"
//	@Router		/authserver/invalidate [post].
func (h *InvalidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req tokenPairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errIllegalArgument.write(w, r)
		return
	}

	if err := h.Auth.Invalidate(r.Context(), req.AccessToken, req.ClientToken); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SignOutHandler serves POST /authserver/signout.
type SignOutHandler struct {
	Auth *service.AuthService
}

type signOutRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ServeHTTP godoc
//
//	@Summary		Revoke every session for an account
//	@Description	Credential-gated so a player who lost all devices can still cut access.
//	@Tags			authserver
//	@Accept			json
//	@Success		204	"All sessions revoked"
//	@Failure		403	{object}	ErrorResponse	"Invalid credentials"
//	@Router			/authserver/signout [post].
func (h *SignOutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req signOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errIllegalArgument.write(w, r)
		return
	}

	err := h.Auth.SignOut(r.Context(), strings.TrimSpace(req.Username), req.Password)
	// No live sessions is still a successful sign-out from the caller's view.
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterHandler serves POST /authserver/register.
type RegisterHandler struct {
	Players *service.PlayerService
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ServeHTTP godoc
//
//	@Summary	Register a new player account
//	@Tags		authserver
//	@Accept		json
//	@Produce	json
//	@Param		body	body		registerRequest	true	"Account details"
//	@Success	201		{object}	registerResponse
//	@Failure	400		{object}	ErrorResponse	"Invalid or taken username"
//	@Router		/authserver/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errIllegalArgument.write(w, r)
		return
	}

	player, err := h.Players.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, registerResponse{
		ID:       player.UUID,
		Username: player.Username,
	})
}
