package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quizquest-service/internal/app"
	"quizquest-service/internal/domain"
	"quizquest-service/internal/infra/memory"
)

func TestRouterServesHealthAndCatalog(t *testing.T) {
	service := app.NewWorkspaceService(
		memory.NewWorkspaceStore(),
		memory.NewCatalogCache(memory.NewStaticCatalogLoader(memory.DefaultCatalog()), time.Minute),
	)
	router := NewRouter(service, NewWSHandler(service, time.Second), []string{"http://localhost:5173"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected catalog status %d", rec.Code)
	}
	var quizzes []domain.Quiz
	if err := json.NewDecoder(rec.Body).Decode(&quizzes); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if len(quizzes) != 3 || quizzes[0].ID != "dsa-fundamentals" {
		t.Fatalf("unexpected catalog %+v", quizzes)
	}
}

func TestServeWSRequiresClientID(t *testing.T) {
	service := app.NewWorkspaceService(
		memory.NewWorkspaceStore(),
		memory.NewCatalogCache(memory.NewStaticCatalogLoader(memory.DefaultCatalog()), time.Minute),
	)
	router := NewRouter(service, NewWSHandler(service, time.Second), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
