package service

import (
	"context"

	"app/internal/apperr"
	"app/internal/model"
	"app/internal/quota"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// FolderService defines the interface for folder operations
type FolderService interface {
	// CreateFolder enforces the free-plan folder quota before writing.
	CreateFolder(ctx context.Context, principal string, f *model.Folder) (*model.Folder, error)
	GetFolderDetails(ctx context.Context, principal, folderID string) (*model.Folder, error)
	UpdateFolder(ctx context.Context, principal, folderID string, patch model.FolderPatch) (*model.Folder, error)
	DeleteFolder(ctx context.Context, principal, folderID string) error
	ListFolders(ctx context.Context, principal, workspaceID string) ([]model.Folder, error)
	// Usage reports the workspace's folder quota consumption for the plan
	// usage gauge.
	Usage(ctx context.Context, principal, workspaceID string) (float64, error)
}

type folderService struct {
	repo      repository.FolderRepository
	workspace WorkspaceService
	subs      repository.SubscriptionRepository
	quota     quota.Evaluator
	logger    zerolog.Logger
}

// NewFolderService creates a new FolderService
func NewFolderService(
	repo repository.FolderRepository,
	workspace WorkspaceService,
	subs repository.SubscriptionRepository,
	evaluator quota.Evaluator,
	logger zerolog.Logger,
) FolderService {
	return &folderService{
		repo:      repo,
		workspace: workspace,
		subs:      subs,
		quota:     evaluator,
		logger:    logger.With().Str("service", "FolderService").Logger(),
	}
}

func (s *folderService) subscriptionStatus(ctx context.Context, userID string) (model.SubscriptionStatus, error) {
	sub, err := s.subs.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if sub == nil {
		return "", nil
	}
	return sub.Status, nil
}

// CreateFolder checks access and quota, then persists. The quota check
// runs first so a blocked request costs no write.
func (s *folderService) CreateFolder(ctx context.Context, principal string, f *model.Folder) (*model.Folder, error) {
	ws, err := s.workspace.GetWorkspaceDetails(ctx, principal, f.WorkspaceID)
	if err != nil {
		return nil, err
	}

	// Quota is keyed on the workspace owner's plan, not the acting
	// collaborator's.
	status, err := s.subscriptionStatus(ctx, ws.OwnerID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountFoldersByWorkspace(ctx, f.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !s.quota.CanCreateFolder(count, status) {
		return nil, apperr.New(apperr.KindQuotaExceeded, "free plan folder limit reached")
	}

	if err := s.repo.CreateFolder(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// GetFolderDetails retrieves a folder, inheriting workspace access policy
func (s *folderService) GetFolderDetails(ctx context.Context, principal, folderID string) (*model.Folder, error) {
	f, err := s.repo.GetFolderByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, apperr.New(apperr.KindNotFound, "folder not found")
	}
	if _, err := s.workspace.GetWorkspaceDetails(ctx, principal, f.WorkspaceID); err != nil {
		return nil, err
	}
	return f, nil
}

// UpdateFolder applies a partial update
func (s *folderService) UpdateFolder(ctx context.Context, principal, folderID string, patch model.FolderPatch) (*model.Folder, error) {
	if _, err := s.GetFolderDetails(ctx, principal, folderID); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateFolder(ctx, folderID, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.New(apperr.KindNotFound, "folder not found")
	}
	return updated, nil
}

// DeleteFolder cascades the folder's files with it
func (s *folderService) DeleteFolder(ctx context.Context, principal, folderID string) error {
	if _, err := s.GetFolderDetails(ctx, principal, folderID); err != nil {
		return err
	}
	return s.repo.DeleteFolder(ctx, folderID)
}

// ListFolders returns the workspace's folders in creation order
func (s *folderService) ListFolders(ctx context.Context, principal, workspaceID string) ([]model.Folder, error) {
	if _, err := s.workspace.GetWorkspaceDetails(ctx, principal, workspaceID); err != nil {
		return nil, err
	}
	return s.repo.ListFoldersByWorkspace(ctx, workspaceID)
}

// Usage computes the folder quota consumption percentage
func (s *folderService) Usage(ctx context.Context, principal, workspaceID string) (float64, error) {
	if _, err := s.workspace.GetWorkspaceDetails(ctx, principal, workspaceID); err != nil {
		return 0, err
	}
	count, err := s.repo.CountFoldersByWorkspace(ctx, workspaceID)
	if err != nil {
		return 0, err
	}
	return s.quota.UsagePercentage(count), nil
}
