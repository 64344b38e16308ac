package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/bookatlas/atlas-server/internal/catalog"
)

// SearchIndex wraps an in-memory Bleve index over the current catalog
// snapshot.
//
// Thread safety: all public methods are safe for concurrent use. The
// mutex protects the index swap during a snapshot sync.
type SearchIndex struct {
	logger *slog.Logger

	mu     sync.RWMutex
	index  bleve.Index
	synced *catalog.Snapshot // snapshot the current index was built from
}

// NewSearchIndex creates an empty in-memory index. The index holds a
// derived view of the catalog cache, so there is nothing worth
// persisting across restarts.
func NewSearchIndex(logger *slog.Logger) (*SearchIndex, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SearchIndex{index: index, logger: logger}, nil
}

// Close closes the index and releases resources.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// Sync rebuilds the index when the snapshot differs from the one last
// indexed. Snapshots are immutable and replaced wholesale, so pointer
// identity is a sufficient change check.
func (s *SearchIndex) Sync(snap *catalog.Snapshot) error {
	s.mu.RLock()
	current := s.synced
	s.mu.RUnlock()
	if snap == nil || snap == current {
		return nil
	}

	fresh, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	const batchSize = 500
	books := snap.Books
	for i := 0; i < len(books); i += batchSize {
		end := min(i+batchSize, len(books))

		batch := fresh.NewBatch()
		for _, book := range books[i:end] {
			doc := FromBook(book)
			// Convert to map to ensure field names match the mapping (lowercase)
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				_ = fresh.Close()
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}
		if err := fresh.Batch(batch); err != nil {
			_ = fresh.Close()
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	s.mu.Lock()
	old := s.index
	s.index = fresh
	s.synced = snap
	s.mu.Unlock()
	_ = old.Close()

	s.logger.Info("search index synced", slog.Int("books", len(books)))
	return nil
}

// DocumentCount returns the total number of indexed documents.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// SearchHit is a single search result.
type SearchHit struct {
	ID     string  `json:"id"`
	Score  float64 `json:"score"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Year   string  `json:"year,omitempty"`
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// Search runs a free-text query against the catalog index.
func (s *SearchIndex) Search(ctx context.Context, queryText string, limit int) (*SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	queryText = strings.TrimSpace(queryText)

	s.mu.RLock()
	defer s.mu.RUnlock()

	searchRequest := bleve.NewSearchRequestOptions(buildQuery(queryText), limit, 0, false)
	searchRequest.Fields = []string{"title", "author", "year"}

	result, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", queryText, err)
	}

	out := &SearchResult{
		Query:  queryText,
		Total:  result.Total,
		TookMs: result.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(result.Hits)),
	}
	for _, hit := range result.Hits {
		out.Hits = append(out.Hits, SearchHit{
			ID:     hit.ID,
			Score:  hit.Score,
			Title:  stringFieldValue(hit.Fields, "title"),
			Author: stringFieldValue(hit.Fields, "author"),
			Year:   stringFieldValue(hit.Fields, "year"),
		})
	}
	return out, nil
}

// buildQuery combines boosted title/author matching with a catch-all
// over the remaining fields. An empty query matches everything, for
// browse-style listings.
func buildQuery(queryText string) query.Query {
	if queryText == "" {
		return bleve.NewMatchAllQuery()
	}

	titleMatch := bleve.NewMatchQuery(queryText)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)

	titlePrefix := bleve.NewPrefixQuery(strings.ToLower(queryText))
	titlePrefix.SetField("title")
	titlePrefix.SetBoost(2.0)

	authorMatch := bleve.NewMatchQuery(queryText)
	authorMatch.SetField("author")
	authorMatch.SetBoost(2.0)

	summaryMatch := bleve.NewMatchQuery(queryText)
	summaryMatch.SetField("summary")

	countryMatch := bleve.NewMatchQuery(queryText)
	countryMatch.SetField("country_names")
	countryMatch.SetBoost(1.5)

	blobMatch := bleve.NewMatchQuery(strings.ToLower(queryText))
	blobMatch.SetField("blob")
	blobMatch.SetBoost(0.5)

	return bleve.NewDisjunctionQuery(
		titleMatch, titlePrefix, authorMatch, summaryMatch, countryMatch, blobMatch,
	)
}

func stringFieldValue(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}
