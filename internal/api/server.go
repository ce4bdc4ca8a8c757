package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/notes-saas/notes-server/internal/auth"
	"github.com/notes-saas/notes-server/internal/config"
	"github.com/notes-saas/notes-server/internal/events"
	"github.com/notes-saas/notes-server/internal/models"
	"github.com/notes-saas/notes-server/internal/notes"
	"github.com/notes-saas/notes-server/internal/plans"
	"github.com/notes-saas/notes-server/internal/storage"
	"github.com/notes-saas/notes-server/internal/validation"
)

// contextKey is the type for request context keys
type contextKey string

const (
	claimsKey contextKey = "claims"
	tenantKey contextKey = "tenant"
)

// RESTServer represents the REST API server
type RESTServer struct {
	config    *config.Config
	store     storage.Store
	auth      *auth.JWTManager
	validator *validation.Validator
	notes     *notes.Repository
	plans     *plans.Manager
	recorder  *events.Recorder
	router    chi.Router
	server    *http.Server
}

// NewRESTServer creates a new REST API server
func NewRESTServer(cfg *config.Config, store storage.Store, recorder *events.Recorder) *RESTServer {
	s := &RESTServer{
		config:    cfg,
		store:     store,
		auth:      auth.NewJWTManager(&cfg.JWT),
		validator: validation.NewValidator(),
		notes:     notes.NewRepository(store, cfg.Quota.FreeNoteLimit),
		plans:     plans.NewManager(store),
		recorder:  recorder,
		router:    chi.NewRouter(),
	}

	s.setupRoutes()

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the underlying HTTP handler, used by tests
func (s *RESTServer) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all routes
func (s *RESTServer) setupRoutes() {
	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		s.setupAPIRoutes(r)
	})
}

// ListenAndServe starts the server
func (s *RESTServer) ListenAndServe(addr string) error {
	s.server.Addr = addr
	log.Info().Str("addr", addr).Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *RESTServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ========== Authorization middleware chain ==========
//
// Every protected route passes authenticate -> resolve tenant, and the
// admin-restricted ones additionally role and slug checks. The chain is
// terminal on the first failure; downstream handlers trust the
// (claims, tenant) pair in the context and never re-resolve.

// authMiddleware authenticates the bearer token
func (s *RESTServer) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			s.respondError(w, http.StatusUnauthorized, "missing token")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			s.respondError(w, http.StatusUnauthorized, "missing token")
			return
		}

		// Every verification failure collapses to the same response;
		// clients never learn whether the token was expired or tampered.
		claims, err := s.auth.ValidateToken(parts[1])
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tenantMiddleware resolves the acting user's tenant from the claims
func (s *RESTServer) tenantMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil {
			s.respondError(w, http.StatusUnauthorized, "missing token")
			return
		}

		tenant, err := s.store.GetTenant(r.Context(), claims.TenantID)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "tenant not found")
			return
		}

		ctx := context.WithValue(r.Context(), tenantKey, tenant)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole gates admin-restricted operations
func (s *RESTServer) requireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFromContext(r.Context())
			if claims == nil {
				s.respondError(w, http.StatusUnauthorized, "missing token")
				return
			}
			if claims.Role != role {
				s.respondError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireTenantSlug rejects requests whose path slug does not match the
// resolved tenant. A token for tenant A can otherwise be replayed
// against tenant B's plan routes with a guessed slug.
func (s *RESTServer) requireTenantSlug(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenant := tenantFromContext(r.Context())
		if tenant == nil {
			s.respondError(w, http.StatusUnauthorized, "tenant not found")
			return
		}
		if chi.URLParam(r, "slug") != tenant.Slug {
			s.respondError(w, http.StatusForbidden, "cannot modify another tenant")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// claimsFromContext returns the validated claims, or nil
func claimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// tenantFromContext returns the resolved tenant, or nil
func tenantFromContext(ctx context.Context) *models.Tenant {
	tenant, _ := ctx.Value(tenantKey).(*models.Tenant)
	return tenant
}
