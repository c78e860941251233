package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizquest-service/internal/domain"
)

func TestCatalogCacheCaches(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(DefaultCatalog())}
	cache := NewCatalogCache(loader, time.Minute)

	quizzes, err := cache.Catalog(context.Background())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(quizzes) != 3 {
		t.Fatalf("expected 3 seed quizzes, got %d", len(quizzes))
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := cache.Catalog(context.Background()); err != nil {
		t.Fatalf("catalog 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestCatalogCacheReloadsAfterExpiry(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(DefaultCatalog())}
	cache := NewCatalogCache(loader, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	_, _ = cache.Catalog(context.Background())
	now = now.Add(2 * time.Minute)
	_, _ = cache.Catalog(context.Background())
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls)
	}

	cache.Invalidate()
	_, _ = cache.Catalog(context.Background())
	if loader.calls != 3 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.calls)
	}
}

func TestCatalogCacheReturnsCopies(t *testing.T) {
	cache := NewCatalogCache(NewStaticCatalogLoader(DefaultCatalog()), time.Minute)

	first, _ := cache.Catalog(context.Background())
	first[0].Title = "mutated"
	first[0].Questions[0].Options[0] = "mutated"

	second, _ := cache.Catalog(context.Background())
	if second[0].Title == "mutated" || second[0].Questions[0].Options[0] == "mutated" {
		t.Fatalf("expected cached catalog to be isolated from callers")
	}
}

func TestCatalogCachePropagatesLoaderError(t *testing.T) {
	boom := errors.New("boom")
	cache := NewCatalogCache(failingLoader{err: boom}, time.Minute)
	if _, err := cache.Catalog(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
}

type countingLoader struct {
	CatalogLoader
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context) ([]domain.Quiz, error) {
	l.calls++
	return l.CatalogLoader.LoadCatalog(ctx)
}

type failingLoader struct {
	err error
}

func (l failingLoader) LoadCatalog(context.Context) ([]domain.Quiz, error) {
	return nil, l.err
}
