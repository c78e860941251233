package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"quizquest-service/internal/app"
)

// WorkspaceStore is a Redis-aware implementation of app.WorkspaceRepository.
// Workspaces themselves live in process memory; Redis only carries a liveness
// key per workspace so operators can see which clients are connected.
type WorkspaceStore struct {
	client     *redis.Client
	ttl        time.Duration
	mu         sync.RWMutex
	workspaces map[string]*app.Workspace
}

func NewWorkspaceStore(client *redis.Client, ttl time.Duration) *WorkspaceStore {
	return &WorkspaceStore{
		client:     client,
		ttl:        ttl,
		workspaces: make(map[string]*app.Workspace),
	}
}

func (s *WorkspaceStore) Acquire(clientID string, create func() *app.Workspace) *app.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workspaces[clientID]
	if ok {
		// refresh the marker on reconnect
		_ = s.client.Expire(context.Background(), s.key(clientID), s.ttl).Err()
	} else {
		ws = create()
		s.workspaces[clientID] = ws
		// best-effort liveness marker
		_ = s.client.Set(context.Background(), s.key(clientID), "1", s.ttl).Err()
	}
	ws.Attach()
	return ws
}

func (s *WorkspaceStore) Get(clientID string) (*app.Workspace, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.workspaces[clientID]
	return ws, ok
}

func (s *WorkspaceStore) Release(clientID string, ws *app.Workspace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ws.Detach() > 0 {
		return
	}
	if current, ok := s.workspaces[clientID]; !ok || current != ws {
		return
	}
	delete(s.workspaces, clientID)
	_ = s.client.Del(context.Background(), s.key(clientID)).Err()
}

func (s *WorkspaceStore) key(clientID string) string {
	return "quiz:workspace:" + clientID
}
