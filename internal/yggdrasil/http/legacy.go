package http

import (
	"net/http"
	"strings"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/service"
	"github.com/lanternmc/yggdrasil/pkg/uuidx"
)

// Legacy .jsp endpoints for pre-1.7 protocol clients. They speak plain text:
// "OK" / "YES" / "NO" / an error string, never JSON.

// LegacyJoinHandler serves GET /game/joinserver.jsp. The sessionId query
// parameter carries "token:<accessToken>:<profileId>"; bare session ids fall
// back to the legacy single-token store.
type LegacyJoinHandler struct {
	Sessions *service.SessionService
}

func (h *LegacyJoinHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	user := q.Get("user")
	sessionID := q.Get("sessionId")
	serverID := q.Get("serverId")

	if user == "" || sessionID == "" || serverID == "" {
		writeLegacy(w, "Bad request")
		return
	}

	if access, profileID, ok := splitLegacyToken(sessionID); ok {
		err := h.Sessions.JoinServer(r.Context(), access, profileID, serverID, clientIP(r))
		if err != nil {
			writeLegacy(w, "Bad login")
			return
		}
		// Keep the single-token record current for checkserver-era peers.
		_ = h.Sessions.RegisterLegacySession(r.Context(), sessionID, profileID)
		writeLegacy(w, "OK")
		return
	}

	writeLegacy(w, "Bad login")
}

// LegacyCheckHandler serves GET /game/checkserver.jsp, answering YES when a
// pending join matches the (user, serverId) pair.
type LegacyCheckHandler struct {
	Sessions *service.SessionService
}

func (h *LegacyCheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if _, err := h.Sessions.HasJoined(r.Context(), q.Get("user"), q.Get("serverId"), ""); err != nil {
		writeLegacy(w, "NO")
		return
	}
	writeLegacy(w, "YES")
}

// splitLegacyToken parses "token:<accessToken>:<profileId>".
func splitLegacyToken(sessionID string) (accessToken, profileID string, ok bool) {
	rest, found := strings.CutPrefix(sessionID, "token:")
	if !found {
		return "", "", false
	}
	// The profile id follows the LAST colon; JWTs never contain colons but
	// splitting from the end keeps this robust.
	i := strings.LastIndex(rest, ":")
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], uuidx.Dashed(rest[i+1:]), true
}

func writeLegacy(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(body))
}
