package service

import (
	"context"

	"app/internal/access"
	"app/internal/apperr"
	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// WorkspaceService defines the interface for workspace operations
type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, w *model.Workspace) (*model.Workspace, error)
	// GetWorkspaceDetails retrieves a workspace the principal may read.
	GetWorkspaceDetails(ctx context.Context, principal, workspaceID string) (*model.Workspace, error)
	UpdateWorkspace(ctx context.Context, principal, workspaceID string, patch model.WorkspacePatch) (*model.Workspace, error)
	// DeleteWorkspace removes the workspace and every descendant folder and
	// file. Owner only.
	DeleteWorkspace(ctx context.Context, principal, workspaceID string) error
	ListPrivateWorkspaces(ctx context.Context, ownerID string) ([]model.Workspace, error)
	ListSharedWorkspaces(ctx context.Context, ownerID string) ([]model.Workspace, error)
	ListCollaboratingWorkspaces(ctx context.Context, userID string) ([]model.Workspace, error)
}

type workspaceService struct {
	repo    repository.WorkspaceRepository
	collabs repository.CollaboratorRepository
	logger  zerolog.Logger
}

// NewWorkspaceService creates a new WorkspaceService
func NewWorkspaceService(repo repository.WorkspaceRepository, collabs repository.CollaboratorRepository, logger zerolog.Logger) WorkspaceService {
	return &workspaceService{
		repo:    repo,
		collabs: collabs,
		logger:  logger.With().Str("service", "WorkspaceService").Logger(),
	}
}

// authorize loads the workspace and verifies read access for the
// principal. Missing workspaces read as not found; existing ones the
// principal cannot read are denied outright.
func (s *workspaceService) authorize(ctx context.Context, principal, workspaceID string) (*model.Workspace, error) {
	w, err := s.repo.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, apperr.New(apperr.KindNotFound, "workspace not found")
	}
	collaborators, err := s.collabs.ListCollaborators(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if !access.CanRead(principal, w, collaborators) {
		return nil, apperr.New(apperr.KindPermissionDenied, "access denied")
	}
	return w, nil
}

// CreateWorkspace persists a new workspace owned by the caller
func (s *workspaceService) CreateWorkspace(ctx context.Context, w *model.Workspace) (*model.Workspace, error) {
	if w.OwnerID == "" || w.Title == "" {
		return nil, apperr.New(apperr.KindValidationFailed, "owner and title are required")
	}
	if err := s.repo.CreateWorkspace(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// GetWorkspaceDetails retrieves a workspace with access enforcement
func (s *workspaceService) GetWorkspaceDetails(ctx context.Context, principal, workspaceID string) (*model.Workspace, error) {
	return s.authorize(ctx, principal, workspaceID)
}

// UpdateWorkspace applies a partial update with access enforcement
func (s *workspaceService) UpdateWorkspace(ctx context.Context, principal, workspaceID string, patch model.WorkspacePatch) (*model.Workspace, error) {
	if _, err := s.authorize(ctx, principal, workspaceID); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateWorkspace(ctx, workspaceID, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.New(apperr.KindNotFound, "workspace not found")
	}
	return updated, nil
}

// DeleteWorkspace cascades deletion, owner only
func (s *workspaceService) DeleteWorkspace(ctx context.Context, principal, workspaceID string) error {
	w, err := s.repo.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if w == nil {
		return apperr.New(apperr.KindNotFound, "workspace not found")
	}
	if !access.CanDelete(principal, w) {
		return apperr.New(apperr.KindPermissionDenied, "access denied")
	}
	if err := s.repo.DeleteWorkspace(ctx, workspaceID); err != nil {
		s.logger.Error().Err(err).Str("workspace_id", workspaceID).Msg("cascade delete failed")
		return err
	}
	return nil
}

func (s *workspaceService) ListPrivateWorkspaces(ctx context.Context, ownerID string) ([]model.Workspace, error) {
	return s.repo.ListPrivateWorkspaces(ctx, ownerID)
}

func (s *workspaceService) ListSharedWorkspaces(ctx context.Context, ownerID string) ([]model.Workspace, error) {
	return s.repo.ListSharedWorkspaces(ctx, ownerID)
}

func (s *workspaceService) ListCollaboratingWorkspaces(ctx context.Context, userID string) ([]model.Workspace, error) {
	return s.repo.ListCollaboratingWorkspaces(ctx, userID)
}
