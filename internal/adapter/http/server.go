// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"log/slog"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"inventory/internal/app"
	"inventory/internal/domain"
	"inventory/internal/metrics"
)

// OIDCConfig enables single sign-on through an external provider.
type OIDCConfig struct {
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth      *app.AuthService
	users     *app.UserService
	resources []*app.ResourceService
	log       *slog.Logger
	publicDir string
	oidc      *OIDCConfig
}

// New creates a Server wired to the given application services. One
// ResourceService is expected per resource kind.
func New(auth *app.AuthService, users *app.UserService, resources []*app.ResourceService, log *slog.Logger, publicDir string) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		auth:      auth,
		users:     users,
		resources: resources,
		log:       log,
		publicDir: publicDir,
	}
}

// WithSSO enables the /sso routes.
func (s *Server) WithSSO(cfg OIDCConfig) *Server {
	s.oidc = &cfg
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /public/", http.StripPrefix("/public/", staticFiles(s.publicDir)))

	mux.Handle("GET /sign-up", s.anonymousOnly(http.HandlerFunc(s.handleSignUpPage)))
	mux.Handle("POST /sign-up", s.anonymousOnly(http.HandlerFunc(s.handleSignUp)))
	mux.Handle("GET /sign-in", s.anonymousOnly(http.HandlerFunc(s.handleSignInPage)))
	mux.Handle("POST /sign-in", s.anonymousOnly(http.HandlerFunc(s.handleSignIn)))
	mux.HandleFunc("GET /logout", s.handleLogout)
	mux.HandleFunc("GET /sso/login", s.handleSSOLogin)
	mux.HandleFunc("GET /sso/callback", s.handleSSOCallback)

	mux.Handle("GET /{$}", s.requireAuth(http.HandlerFunc(s.handleDashboard)))

	for _, rs := range s.resources {
		s.routeResource(mux, rs)
	}

	mux.Handle("GET /users", s.requireAuth(s.requireRole(domain.ActionListUsers, http.HandlerFunc(s.handleUserList))))
	mux.Handle("PUT /users/{id}", s.requireAuth(s.requireRole(domain.ActionPromoteUser, http.HandlerFunc(s.handleUserPromote))))
	mux.Handle("DELETE /users/{id}", s.requireAuth(s.requireRole(domain.ActionDeleteUser, http.HandlerFunc(s.handleUserDelete))))

	return withNoCache(s.identityMiddleware(s.loggingMiddleware(mux)))
}

// routeResource registers the CRUD routes of one resource kind.
func (s *Server) routeResource(mux *http.ServeMux, rs *app.ResourceService) {
	base := "/" + rs.Kind().Slug
	h := resourceHandlers{s: s, svc: rs}

	mux.Handle("GET "+base, s.requireAuth(http.HandlerFunc(h.list)))
	mux.Handle("GET "+base+"/{id}", s.requireAuth(http.HandlerFunc(h.get)))
	mux.Handle("POST "+base, s.requireAuth(s.requireRole(domain.ActionCreateResource, http.HandlerFunc(h.create))))
	mux.Handle("POST "+base+"/edit", s.requireAuth(s.requireRole(domain.ActionEditResource, http.HandlerFunc(h.editForm))))
	mux.Handle("PUT "+base+"/{id}", s.requireAuth(s.requireRole(domain.ActionEditResource, http.HandlerFunc(h.update))))
	mux.Handle("DELETE "+base+"/{id}", s.requireAuth(s.requireRole(domain.ActionDeleteResource, http.HandlerFunc(h.remove))))
}
