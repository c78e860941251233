package memory

import (
	"testing"

	"quizquest-service/internal/app"
)

func TestWorkspaceStoreLifecycle(t *testing.T) {
	store := NewWorkspaceStore()

	created := 0
	create := func() *app.Workspace {
		created++
		return app.NewWorkspace("client-1", DefaultCatalog())
	}

	ws := store.Acquire("client-1", create)
	if ws == nil || ws.IsIdle() {
		t.Fatalf("expected attached workspace")
	}
	if again := store.Acquire("client-1", create); again != ws || created != 1 {
		t.Fatalf("expected existing workspace to be reused, created=%d", created)
	}

	store.Release("client-1", ws)
	if _, ok := store.Get("client-1"); !ok {
		t.Fatalf("expected workspace kept while attached")
	}

	store.Release("client-1", ws)
	if _, ok := store.Get("client-1"); ok {
		t.Fatalf("expected workspace removed when idle")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}

func TestWorkspaceStoreIgnoresStaleRelease(t *testing.T) {
	store := NewWorkspaceStore()
	create := func() *app.Workspace { return app.NewWorkspace("client-1", nil) }

	old := store.Acquire("client-1", create)
	store.Release("client-1", old)

	current := store.Acquire("client-1", create)
	if current == old {
		t.Fatalf("expected a fresh workspace after the old one was dropped")
	}

	store.Release("client-1", old)
	if got, ok := store.Get("client-1"); !ok || got != current || current.IsIdle() {
		t.Fatalf("expected stale release to leave the current workspace attached")
	}
}
