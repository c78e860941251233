package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"quizquest-service/internal/domain"
)

// CatalogLoader fetches the seed catalog from a backing store (static list, Postgres, ...).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]domain.Quiz, error)
}

// CatalogCache keeps the seed catalog for a TTL to avoid a load per workspace.
type CatalogCache struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	quizzes   []domain.Quiz
	expiresAt time.Time
}

func NewCatalogCache(loader CatalogLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Catalog returns a copy of the cached catalog, loading it on expiry.
func (c *CatalogCache) Catalog(ctx context.Context) ([]domain.Quiz, error) {
	if quizzes, ok := c.cached(c.clock()); ok {
		return quizzes, nil
	}

	result, err, _ := c.sf.Do("catalog", func() (interface{}, error) {
		now := c.clock()
		if quizzes, ok := c.cached(now); ok {
			return quizzes, nil
		}

		quizzes, err := c.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.quizzes = quizzes
		c.expiresAt = now.Add(c.ttlWithJitter())
		c.mu.Unlock()
		return cloneCatalog(quizzes), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneCatalog(result.([]domain.Quiz)), nil
}

// Invalidate drops the cached catalog so the next call reloads it.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quizzes = nil
	c.expiresAt = time.Time{}
}

func (c *CatalogCache) cached(now time.Time) ([]domain.Quiz, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.quizzes == nil || !c.expiresAt.After(now) {
		return nil, false
	}
	return cloneCatalog(c.quizzes), true
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func cloneCatalog(quizzes []domain.Quiz) []domain.Quiz {
	out := make([]domain.Quiz, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, q.Clone())
	}
	return out
}
