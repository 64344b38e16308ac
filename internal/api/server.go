// Package api provides the HTTP server and route handlers for the Atlas API.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bookatlas/atlas-server/internal/catalog"
	"github.com/bookatlas/atlas-server/internal/config"
	"github.com/bookatlas/atlas-server/internal/domain"
	"github.com/bookatlas/atlas-server/internal/errors"
	"github.com/bookatlas/atlas-server/internal/http/response"
	"github.com/bookatlas/atlas-server/internal/ratelimit"
	"github.com/bookatlas/atlas-server/internal/recommend"
	"github.com/bookatlas/atlas-server/internal/search"
)

// Recommender issues the blocking recommendation call. Satisfied by
// *recommend.Requester; handler tests substitute a fake.
type Recommender interface {
	Request(
		ctx context.Context,
		history []recommend.Message,
		userText string,
		selectedISO2 string,
		availableCountries []domain.Place,
		candidates []*domain.Book,
	) (map[string]any, error)
}

// Server handles HTTP requests for the Atlas API.
type Server struct {
	router      *chi.Mux
	logger      *slog.Logger
	catalog     *catalog.Cache
	search      *search.SearchIndex
	recommender Recommender
	limiter     *ratelimit.KeyedRateLimiter
	chat        config.ChatConfig
}

// NewServer creates a new API server with all routes configured.
func NewServer(
	cache *catalog.Cache,
	searchIndex *search.SearchIndex,
	recommender Recommender,
	limiter *ratelimit.KeyedRateLimiter,
	chat config.ChatConfig,
	logger *slog.Logger,
) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		logger:      logger,
		catalog:     cache,
		search:      searchIndex,
		recommender: recommender,
		limiter:     limiter,
		chat:        chat,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Router returns the configured HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	// The chat widget is embedded on arbitrary origins, so CORS is wide
	// open. The response package mirrors these headers on every body it
	// writes, for clients that skip preflight.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, s.logger)
	})
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, string(errors.CodeNotFound), "", nil, s.logger)
	})

	s.router.Get("/health", s.handleHealthCheck)

	// The chat endpoint is mounted both at the versioned path and at the
	// bare path the original widget calls.
	for _, pattern := range []string{"/chat", "/api/v1/chat"} {
		s.router.With(s.rateLimitMiddleware).Post(pattern, s.handleChat)
		s.router.Options(pattern, s.handleOptions)
	}

	s.router.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/countries", s.handleListCountries)
		r.Get("/search", s.handleSearchCatalog)
	})
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
		"build":  s.chat.Build,
	}, s.logger)
}

// handleOptions answers bare OPTIONS probes that carry no preflight
// headers and therefore pass through the CORS middleware.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	response.NoContent(w)
}
