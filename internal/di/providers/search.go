package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/bookatlas/atlas-server/internal/catalog"
	"github.com/bookatlas/atlas-server/internal/logger"
	"github.com/bookatlas/atlas-server/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory catalog search index,
// warmed from the current snapshot so the first query doesn't pay the
// build cost.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)
	cache := do.MustInvoke[*catalog.Cache](i)

	idx, err := search.NewSearchIndex(log.Logger)
	if err != nil {
		return nil, err
	}

	snap := cache.Get(context.Background())
	if err := idx.Sync(snap); err != nil {
		log.Warn("Initial search index build failed", "error", err)
	}

	return &SearchIndexHandle{SearchIndex: idx}, nil
}
