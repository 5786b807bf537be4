// Package api provides the HTTP API server and handlers for the CorkBoard application.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/corkboardapp/corkboard-server/internal/config"
	"github.com/corkboardapp/corkboard-server/internal/sse"
	"github.com/corkboardapp/corkboard-server/internal/store"
)

// Server is the HTTP API server. It owns the router, the huma API wrapper,
// and the services the handlers call into.
type Server struct {
	store           store.Store
	services        *Services
	sseManager      *sse.Manager
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, sseManager *sse.Manager, cfg *config.Config, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(authMiddleware(services.Auth))

	authRateLimiter := NewRateLimiter(100, time.Minute, 50)
	router.Use(pathPrefixMiddleware("/api/v1/auth/", RateLimitMiddleware(authRateLimiter, logger)))

	humaConfig := huma.DefaultConfig(cfg.Server.Name, "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		sseManager:      sseManager,
		router:          router,
		api:             api,
		logger:          logger,
		authRateLimiter: authRateLimiter,
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerShelfRoutes()
	s.registerBookRoutes()
	s.registerMoveRoutes()
	s.registerSearchRoutes()

	// SSE stream bypasses huma; it speaks text/event-stream, not JSON.
	sseHandler := sse.NewHandler(sseManager, logger, userIDFromRequest)
	router.Method(http.MethodGet, "/api/v1/events/stream", sseHandler)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// pathPrefixMiddleware applies mw only to requests whose path starts with
// prefix. Chi requires middleware before route registration, so scoping to
// the auth subtree happens here rather than on a sub-router.
func pathPrefixMiddleware(prefix string, mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, prefix) {
				wrapped.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
