// Package api provides the HTTP API server and handlers for the StoRe catalog.
package api

import (
	"net/http"
	"os"
	"runtime"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/storeapp/store-server/internal/http/response"
	"github.com/storeapp/store-server/internal/logger"
	"github.com/storeapp/store-server/internal/ratelimit"
	"github.com/storeapp/store-server/internal/service"
	"github.com/storeapp/store-server/internal/validation"
)

const (
	apiVersion    = 1
	serverVersion = "1.0.0"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	catalog   *service.Catalog
	validator *validation.Validator
	limiter   *ratelimit.KeyedRateLimiter
	router    *chi.Mux
	logger    *logger.Logger
	bootID    string
}

// NewServer creates a new HTTP server with all routes configured.
// The rate limiter guards session issuing only.
func NewServer(catalog *service.Catalog, limiter *ratelimit.KeyedRateLimiter, log *logger.Logger) *Server {
	s := &Server{
		catalog:   catalog,
		validator: validation.New(),
		limiter:   limiter,
		router:    chi.NewRouter(),
		logger:    log,
		bootID:    uuid.NewString(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", sessionHeader},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Session issuing is public but rate limited per client IP.
	// GET is a legacy alias kept for old clients.
	s.router.Group(func(r chi.Router) {
		r.Use(rateLimitMiddleware(s.limiter, s.logger))
		r.Post("/auth", s.handleLogin)
		r.Get("/auth", s.handleLogin)
	})

	s.router.Get("/info", s.handleInfo)

	s.router.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Delete("/auth", s.handleLogout)

		mountResource(r, "database", s.catalog.Databases, s)
		mountResource(r, "location", s.catalog.Locations, s)
		mountResource(r, "tag", s.catalog.Tags, s)
		mountResource(r, "item", s.catalog.Items, s)
	})
}

// serverInfo is the /info payload.
type serverInfo struct {
	APIVersion    int    `json:"api_version"`
	ServerVersion string `json:"server_version"`
	OS            string `json:"os,omitempty"`
	OSVersion     string `json:"os_version,omitempty"`
	BootID        string `json:"boot_id"`
}

// handleInfo reports server metadata. Unauthenticated so clients can probe
// compatibility before logging in.
func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, serverInfo{
		APIVersion:    apiVersion,
		ServerVersion: serverVersion,
		OS:            runtime.GOOS,
		OSVersion:     osVersion(),
		BootID:        s.bootID,
	}, s.logger.Logger)
}

// osVersion reports the kernel release where the platform exposes it.
func osVersion() string {
	b, err := os.ReadFile("/proc/sys/kernel/osrelease")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
