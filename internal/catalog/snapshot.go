package catalog

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/bookatlas/atlas-server/internal/domain"
	"github.com/bookatlas/atlas-server/internal/geo"
	"github.com/bookatlas/atlas-server/internal/store"
)

// Source streams raw book documents out of the backing store.
type Source interface {
	ListBookDocuments(ctx context.Context) ([]store.Document, error)
}

// Snapshot is an immutable view of the indexed catalog. It is replaced
// wholesale on refresh, never patched.
type Snapshot struct {
	Books              []*domain.Book
	ByID               map[string]*domain.Book
	AvailableCountries []domain.Place
}

func emptySnapshot() *Snapshot {
	return &Snapshot{ByID: map[string]*domain.Book{}}
}

// Cache serves catalog snapshots with a time-based expiry.
//
// A refresh is not serialized: concurrent callers hitting an expired
// cache each re-stream the store independently, and the last writer
// wins. That is safe because every writer computes the same snapshot
// from the same source, and cheaper than blocking readers behind one
// slow store read.
type Cache struct {
	source Source
	ttl    time.Duration
	now    func() time.Time
	log    *slog.Logger

	mu        sync.RWMutex
	snap      *Snapshot
	fetchedAt time.Time
}

// NewCache creates a catalog cache over the given source.
func NewCache(source Source, ttl time.Duration, log *slog.Logger) *Cache {
	return &Cache{
		source: source,
		ttl:    ttl,
		now:    time.Now,
		log:    log,
		snap:   emptySnapshot(),
	}
}

// Get returns the current snapshot, refreshing it first when the cache
// is empty or older than the TTL. It never fails: when the store read
// errors the previous snapshot is returned unchanged, even if empty.
func (c *Cache) Get(ctx context.Context) *Snapshot {
	c.mu.RLock()
	snap, fetchedAt := c.snap, c.fetchedAt
	c.mu.RUnlock()

	if len(snap.Books) > 0 && c.now().Sub(fetchedAt) < c.ttl {
		return snap
	}

	fresh, err := c.refresh(ctx)
	if err != nil {
		c.log.Error("catalog refresh failed, serving stale snapshot",
			slog.Int("stale_books", len(snap.Books)),
			slog.String("error", err.Error()))
		return snap
	}

	c.mu.Lock()
	c.snap = fresh
	c.fetchedAt = c.now()
	c.mu.Unlock()

	c.log.Info("catalog cache refreshed",
		slog.Int("books", len(fresh.Books)),
		slog.Int("countries", len(fresh.AvailableCountries)))
	return fresh
}

func (c *Cache) refresh(ctx context.Context) (*Snapshot, error) {
	docs, err := c.source.ListBookDocuments(ctx)
	if err != nil {
		return nil, err
	}

	snap := emptySnapshot()
	for _, doc := range docs {
		book := ParseRecord(doc.ID, doc.Fields)
		snap.Books = append(snap.Books, book)
		snap.ByID[book.ID] = book
	}

	isoSet := map[string]bool{}
	for _, book := range snap.Books {
		for iso2 := range book.Sets.Any {
			if len(iso2) == 2 {
				isoSet[iso2] = true
			}
		}
	}
	codes := make([]string, 0, len(isoSet))
	for iso2 := range isoSet {
		codes = append(codes, iso2)
	}
	sort.Strings(codes)
	for _, iso2 := range codes {
		name := geo.CountryName(iso2)
		if name == "" {
			name = iso2
		}
		snap.AvailableCountries = append(snap.AvailableCountries, domain.Place{ISO2: iso2, Name: name})
	}
	return snap, nil
}
