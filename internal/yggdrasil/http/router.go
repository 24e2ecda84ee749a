package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/service"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store"
	"github.com/lanternmc/yggdrasil/pkg/httpx"
	"github.com/lanternmc/yggdrasil/pkg/slogx"

	_ "github.com/lanternmc/yggdrasil/api/yggdrasil" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store           store.Store
	attestationSPKI []byte

	AuthService        *service.AuthService
	PlayerService      *service.PlayerService
	CertificateService *service.CertificateService
	ProfileService     *service.ProfileService
	SessionService     *service.SessionService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	attestationSPKI []byte,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:             http.NewServeMux(),
		buildVersion:    buildVersion,
		startTime:       time.Now(),
		store:           st,
		attestationSPKI: attestationSPKI,
		logger:          logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuthServer()
	r.registerSessionServer()
	r.registerServices()
	r.registerLegacy()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Yggdrasil Identity Service API
//	@version		0.1.0
//	@description	Mojang-compatible identity backend: session token lifecycle, player
//	@description	certificates, signed profile assertions and the multiplayer join handshake.
//	@description
//	@description	All signatures use RS256 (RSA-SHA256); verification keys are published
//	@description	at the publickeys endpoint.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuthServer() {
	// Credential endpoints carry the strict limit: they are the brute
	// force surface.
	r.Mux.Handle("POST /authserver/authenticate",
		httpx.Chain(&AuthenticateHandler{Auth: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /authserver/signout",
		httpx.Chain(&SignOutHandler{Auth: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /authserver/register",
		httpx.Chain(&RegisterHandler{Players: r.PlayerService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /authserver/refresh",
		httpx.Chain(&RefreshHandler{Auth: r.AuthService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /authserver/validate",
		httpx.Chain(&ValidateHandler{Auth: r.AuthService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /authserver/invalidate",
		httpx.Chain(&InvalidateHandler{Auth: r.AuthService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSessionServer() {
	// Game servers hammer profile and hasJoined; they get the public limit.
	r.Mux.Handle("GET /sessionserver/session/minecraft/profile/{uuid}",
		httpx.Chain(&ProfileHandler{Profiles: r.ProfileService},
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /sessionserver/session/minecraft/hasJoined",
		httpx.Chain(&HasJoinedHandler{Sessions: r.SessionService},
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("POST /sessionserver/session/minecraft/join",
		httpx.Chain(&JoinHandler{Sessions: r.SessionService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerServices() {
	r.Mux.Handle("POST /minecraftservices/player/certificates",
		httpx.Chain(&CertificatesHandler{Auth: r.AuthService, Certs: r.CertificateService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /minecraftservices/publickeys",
		httpx.Chain(&PublicKeysHandler{AttestationSPKI: r.attestationSPKI},
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerLegacy() {
	r.Mux.Handle("GET /game/joinserver.jsp",
		httpx.Chain(&LegacyJoinHandler{Sessions: r.SessionService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /game/checkserver.jsp",
		httpx.Chain(&LegacyCheckHandler{Sessions: r.SessionService},
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
