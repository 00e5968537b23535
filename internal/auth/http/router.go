package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/wardenauth/warden/internal/auth/service"
	"github.com/wardenauth/warden/internal/auth/store"
	"github.com/wardenauth/warden/internal/auth/userdir"
	"github.com/wardenauth/warden/pkg/httpx"
	"github.com/wardenauth/warden/pkg/jwtx"
	"github.com/wardenauth/warden/pkg/slogx"
)

// Session cookie names shared by the handlers and the request guard.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys          *jwtx.KeyManager
	buildVersion  string
	startTime     time.Time
	secureCookies bool
	logger        *slog.Logger

	tokenStore store.Store
	users      userdir.Store

	AuthService     *service.AuthService
	TokenService    *service.TokenService
	InternalService *service.InternalAuthService
}

func NewRouter(
	keys *jwtx.KeyManager,
	buildVersion string,
	secureCookies bool,
	tokenStore store.Store,
	users userdir.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		keys:          keys,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		secureCookies: secureCookies,
		tokenStore:    tokenStore,
		users:         users,
		logger:        logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerDiscovery()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /signup and /login - strict rate limit by IP (credential guessing)
	signupHandler := &SignUpHandler{AuthService: r.AuthService, SecureCookies: r.secureCookies}
	r.Mux.Handle("POST /v1/auth/signup",
		httpx.Chain(signupHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	loginHandler := &LoginHandler{AuthService: r.AuthService, SecureCookies: r.secureCookies}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /logout and /refresh - moderate rate limit (authenticated churn)
	logoutHandler := &LogoutHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	refreshHandler := &RefreshHandler{TokenService: r.TokenService, SecureCookies: r.secureCookies}
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /internal - strict rate limit (machine credential exchange)
	internalHandler := &InternalTokenHandler{InternalService: r.InternalService}
	r.Mux.Handle("POST /v1/auth/internal",
		httpx.Chain(internalHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	// Cookie sessions go through the guard, which recovers revoked access
	// tokens via the refresh token. Bearer-only clients use the
	// Authorization header, which the guard also accepts.
	secure := func(h http.Handler) http.Handler {
		return httpx.Chain(h,
			TokenGuard(r.TokenService, r.secureCookies),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		)
	}

	me := &MeHandler{AuthService: r.AuthService}
	user := &UserHandler{AuthService: r.AuthService}
	del := &DeleteUserHandler{AuthService: r.AuthService}

	r.Mux.Handle("GET /v1/users/me", secure(me))
	r.Mux.Handle("GET /v1/users/{id}", secure(user))
	r.Mux.Handle("DELETE /v1/users/{id}", secure(del))

	// GET /users?email= - backend lookup surface. Pure bearer with the
	// internal_api scope; no cookies and no refresh recovery here.
	r.Mux.Handle("GET /v1/users",
		httpx.Chain(user,
			httpx.RateLimitByIP(httpx.ModerateLimit),
			httpx.AuthnMiddleware(r.keys.Verifier()),
			httpx.RequireScope(jwtx.ScopeInternalAPI),
		),
	)
}

func (r *Router) registerDiscovery() {
	// GET /jwks.json - public endpoint with high limit
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(PublicKeyHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.tokenStore, r.users, r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
