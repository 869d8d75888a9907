package service

import (
	"context"
	"strings"

	"app/internal/apperr"
	"app/internal/model"
	"app/internal/quota"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// CollaboratorService manages workspace sharing.
type CollaboratorService interface {
	// AddCollaborators shares the workspace with the given users. Free plan
	// caps the collaborator count; the check runs before any write.
	// Already-present users are skipped, so retried calls are safe.
	AddCollaborators(ctx context.Context, principal, workspaceID string, userIDs []string) error
	// RemoveCollaborator unshares. Removing a non-collaborator is a no-op.
	RemoveCollaborator(ctx context.Context, principal, workspaceID, userID string) error
	ListCollaborators(ctx context.Context, principal, workspaceID string) ([]model.User, error)
	// SearchUsersByEmail finds collaborator candidates by email substring,
	// excluding the caller.
	SearchUsersByEmail(ctx context.Context, principal, query string) ([]model.User, error)
}

type collaboratorService struct {
	repo      repository.CollaboratorRepository
	users     repository.UserRepository
	workspace WorkspaceService
	subs      repository.SubscriptionRepository
	quota     quota.Evaluator
	logger    zerolog.Logger
}

// NewCollaboratorService creates a new CollaboratorService
func NewCollaboratorService(
	repo repository.CollaboratorRepository,
	users repository.UserRepository,
	workspace WorkspaceService,
	subs repository.SubscriptionRepository,
	evaluator quota.Evaluator,
	logger zerolog.Logger,
) CollaboratorService {
	return &collaboratorService{
		repo:      repo,
		users:     users,
		workspace: workspace,
		subs:      subs,
		quota:     evaluator,
		logger:    logger.With().Str("service", "CollaboratorService").Logger(),
	}
}

// AddCollaborators enforces owner access and the free-plan cap, then adds
func (s *collaboratorService) AddCollaborators(ctx context.Context, principal, workspaceID string, userIDs []string) error {
	ws, err := s.workspace.GetWorkspaceDetails(ctx, principal, workspaceID)
	if err != nil {
		return err
	}
	if ws.OwnerID != principal {
		return apperr.New(apperr.KindPermissionDenied, "only the owner can share a workspace")
	}

	// Count only genuinely new users toward the cap; re-adding existing
	// collaborators must stay permitted for idempotent retries.
	newUsers := make([]string, 0, len(userIDs))
	for _, userID := range userIDs {
		if userID == ws.OwnerID {
			continue
		}
		exists, err := s.repo.IsCollaborator(ctx, workspaceID, userID)
		if err != nil {
			return err
		}
		if !exists {
			newUsers = append(newUsers, userID)
		}
	}
	if len(newUsers) == 0 {
		return nil
	}

	var status model.SubscriptionStatus
	sub, err := s.subs.GetSubscriptionByUserID(ctx, ws.OwnerID)
	if err != nil {
		return err
	}
	if sub != nil {
		status = sub.Status
	}
	current, err := s.repo.CountCollaborators(ctx, workspaceID)
	if err != nil {
		return err
	}
	if !s.quota.CanAddCollaborators(current, len(newUsers), status) {
		return apperr.New(apperr.KindQuotaExceeded, "free plan collaborator limit reached")
	}

	return s.repo.AddCollaborators(ctx, workspaceID, newUsers)
}

// RemoveCollaborator unshares the workspace from a user
func (s *collaboratorService) RemoveCollaborator(ctx context.Context, principal, workspaceID, userID string) error {
	ws, err := s.workspace.GetWorkspaceDetails(ctx, principal, workspaceID)
	if err != nil {
		return err
	}
	if ws.OwnerID != principal && userID != principal {
		return apperr.New(apperr.KindPermissionDenied, "only the owner can remove other collaborators")
	}
	return s.repo.RemoveCollaborator(ctx, workspaceID, userID)
}

// ListCollaborators resolves collaborator rows to user profiles
func (s *collaboratorService) ListCollaborators(ctx context.Context, principal, workspaceID string) ([]model.User, error) {
	if _, err := s.workspace.GetWorkspaceDetails(ctx, principal, workspaceID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListCollaborators(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	users := []model.User{}
	for _, row := range rows {
		u, err := s.users.GetUserByID(ctx, row.UserID)
		if err != nil {
			return nil, err
		}
		if u != nil {
			users = append(users, *u)
		}
	}
	return users, nil
}

// SearchUsersByEmail finds sharing candidates
func (s *collaboratorService) SearchUsersByEmail(ctx context.Context, principal, query string) ([]model.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.User{}, nil
	}
	found, err := s.users.SearchUsersByEmail(ctx, query)
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(found))
	for _, u := range found {
		if u.UserID == principal {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}
