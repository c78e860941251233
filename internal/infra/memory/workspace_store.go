package memory

import (
	"sync"

	"quizquest-service/internal/app"
)

// WorkspaceStore is an in-memory implementation of app.WorkspaceRepository.
type WorkspaceStore struct {
	mu         sync.RWMutex
	workspaces map[string]*app.Workspace
}

func NewWorkspaceStore() *WorkspaceStore {
	return &WorkspaceStore{
		workspaces: make(map[string]*app.Workspace),
	}
}

func (s *WorkspaceStore) Acquire(clientID string, create func() *app.Workspace) *app.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workspaces[clientID]
	if !ok {
		ws = create()
		s.workspaces[clientID] = ws
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
	if current, ok := s.workspaces[clientID]; ok && current == ws {
		delete(s.workspaces, clientID)
	}
}

// Len reports how many workspaces are live.
func (s *WorkspaceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces)
}
