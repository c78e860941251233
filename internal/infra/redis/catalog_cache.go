package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"quizquest-service/internal/domain"
	"quizquest-service/internal/infra/memory"
)

const catalogKey = "quiz:catalog"

// CatalogCache keeps the seed catalog in Redis as one JSON blob and falls back to a loader on miss.
//
//	SET quiz:catalog <json []Quiz> EX <ttl>
type CatalogCache struct {
	client *redis.Client
	loader memory.CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogCache(client *redis.Client, loader memory.CatalogLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CatalogCache) Catalog(ctx context.Context) ([]domain.Quiz, error) {
	if quizzes, ok := c.cached(ctx); ok {
		return quizzes, nil
	}

	result, err, _ := c.sf.Do(catalogKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quizzes, ok := c.cached(ctx); ok {
			return quizzes, nil
		}

		quizzes, err := c.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}

		raw, err := json.Marshal(quizzes)
		if err != nil {
			return nil, fmt.Errorf("marshal catalog: %w", err)
		}
		if err := c.client.Set(ctx, catalogKey, raw, c.ttlWithJitter()).Err(); err != nil {
			log.Warn().Err(err).Msg("catalog cache write failed")
		}
		return quizzes, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Quiz), nil
}

// Invalidate removes the cached catalog.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, catalogKey).Err()
}

func (c *CatalogCache) cached(ctx context.Context) ([]domain.Quiz, bool) {
	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("catalog cache read failed")
		}
		return nil, false
	}
	var quizzes []domain.Quiz
	if err := json.Unmarshal(raw, &quizzes); err != nil {
		log.Warn().Err(err).Msg("catalog cache entry corrupt")
		return nil, false
	}
	return quizzes, true
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
