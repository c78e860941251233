package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"quizquest-service/internal/domain"
	"quizquest-service/internal/infra/memory"
)

func TestCatalogCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{CatalogLoader: memory.NewStaticCatalogLoader(memory.DefaultCatalog())}
	cache := NewCatalogCache(newClient(mr), loader, time.Minute)

	quizzes, err := cache.Catalog(context.Background())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(quizzes) != 3 {
		t.Fatalf("expected 3 quizzes, got %d", len(quizzes))
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists(catalogKey) {
		t.Fatalf("expected %s to be cached", catalogKey)
	}

	// Second call should hit cache, loader not incremented.
	cached, err := cache.Catalog(context.Background())
	if err != nil {
		t.Fatalf("catalog 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached[0].Badge == nil || cached[0].Badge.ID != "dsa-master" {
		t.Fatalf("expected badge to survive the cache round trip, got %+v", cached[0].Badge)
	}
	if len(cached[0].Questions) != 2 || cached[0].Questions[0].CorrectAnswer != 1 {
		t.Fatalf("expected questions to survive the cache round trip, got %+v", cached[0].Questions)
	}
}

func TestCatalogCacheReloadsAfterExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{CatalogLoader: memory.NewStaticCatalogLoader(memory.DefaultCatalog())}
	cache := NewCatalogCache(newClient(mr), loader, time.Minute)

	_, _ = cache.Catalog(context.Background())
	mr.FastForward(2 * time.Minute)
	_, _ = cache.Catalog(context.Background())
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.calls)
	}

	if err := cache.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists(catalogKey) {
		t.Fatalf("expected cached catalog removed")
	}
}

type countingLoader struct {
	memory.CatalogLoader
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context) ([]domain.Quiz, error) {
	l.calls++
	return l.CatalogLoader.LoadCatalog(ctx)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
