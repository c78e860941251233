package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"quizquest-service/internal/domain"
)

// WorkspaceRepository abstracts where live workspaces are kept (in-memory, Redis-marked, etc).
// Acquire and Release attach and detach under the repository lock.
type WorkspaceRepository interface {
	// Acquire returns the client's workspace, creating it when absent, and attaches to it.
	Acquire(clientID string, create func() *Workspace) *Workspace
	Get(clientID string) (*Workspace, bool)
	// Release detaches from ws and forgets it once idle, unless clientID already maps to another workspace.
	Release(clientID string, ws *Workspace)
}

// CatalogRepository provides the seed catalog a new workspace starts from.
type CatalogRepository interface {
	Catalog(ctx context.Context) ([]domain.Quiz, error)
}

// WorkspaceService opens and closes client workspaces.
type WorkspaceService struct {
	workspaces WorkspaceRepository
	catalog    CatalogRepository
	listeners  []RewardListener
}

// NewWorkspaceService wires repositories; listeners are appended to every new workspace.
func NewWorkspaceService(workspaces WorkspaceRepository, catalog CatalogRepository, listeners ...RewardListener) *WorkspaceService {
	return &WorkspaceService{workspaces: workspaces, catalog: catalog, listeners: listeners}
}

// Open attaches to the client's workspace, creating it from the seed catalog if needed.
func (s *WorkspaceService) Open(ctx context.Context, clientID string) (*Workspace, error) {
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	ws := s.workspaces.Acquire(clientID, func() *Workspace {
		log.Info().Str("clientId", clientID).Int("quizzes", len(catalog)).Msg("workspace created")
		return NewWorkspace(clientID, catalog, s.listeners...)
	})
	return ws, nil
}

// Get returns the client's workspace without attaching.
func (s *WorkspaceService) Get(clientID string) (*Workspace, error) {
	ws, ok := s.workspaces.Get(clientID)
	if !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	return ws, nil
}

// Close detaches the connection that opened ws and drops the workspace once no connection remains.
func (s *WorkspaceService) Close(ws *Workspace) {
	s.workspaces.Release(ws.ID(), ws)
}

// Catalog exposes the seed catalog.
func (s *WorkspaceService) Catalog(ctx context.Context) ([]domain.Quiz, error) {
	return s.catalog.Catalog(ctx)
}
