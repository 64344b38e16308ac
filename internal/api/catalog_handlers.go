package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bookatlas/atlas-server/internal/domain"
	"github.com/bookatlas/atlas-server/internal/errors"
	"github.com/bookatlas/atlas-server/internal/http/response"
)

// handleListCountries returns the ISO2 codes (with display names) that
// appear anywhere in the current catalog. The chat UI renders these as
// the country picker.
func (s *Server) handleListCountries(w http.ResponseWriter, r *http.Request) {
	snap := s.catalog.Get(r.Context())

	countries := snap.AvailableCountries
	if countries == nil {
		countries = []domain.Place{}
	}

	response.Success(w, map[string]any{
		"countries": countries,
		"total":     len(countries),
	}, s.logger)
}

// handleSearchCatalog runs a free-text query against the catalog index.
// Query parameters: q (query text, empty matches all), limit.
func (s *Server) handleSearchCatalog(w http.ResponseWriter, r *http.Request) {
	snap := s.catalog.Get(r.Context())
	if err := s.search.Sync(snap); err != nil {
		s.logger.Error("search index sync failed", slog.String("error", err.Error()))
		response.DomainError(w, errors.Internal("search index unavailable"), "", nil, s.logger)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	result, err := s.search.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		s.logger.Error("catalog search failed", slog.String("error", err.Error()))
		response.DomainError(w, errors.Internal("search failed"), "", nil, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}
