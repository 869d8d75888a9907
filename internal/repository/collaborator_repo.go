package repository

import (
	"context"
	"database/sql"

	"app/internal/model"
)

// CollaboratorRepository manages the user<->workspace join records.
type CollaboratorRepository interface {
	// AddCollaborators inserts the given user ids for a workspace. Existing
	// (workspace, user) pairs are skipped, so repeated calls are safe.
	AddCollaborators(ctx context.Context, workspaceID string, userIDs []string) error
	// RemoveCollaborator deletes the pair. Removing a user who is not a
	// collaborator is a no-op.
	RemoveCollaborator(ctx context.Context, workspaceID, userID string) error
	ListCollaborators(ctx context.Context, workspaceID string) ([]model.Collaborator, error)
	CountCollaborators(ctx context.Context, workspaceID string) (int, error)
	IsCollaborator(ctx context.Context, workspaceID, userID string) (bool, error)
}

type collaboratorRepo struct {
	db *sql.DB
}

// NewCollaboratorRepo creates a new CollaboratorRepository
func NewCollaboratorRepo(db *sql.DB) CollaboratorRepository {
	return &collaboratorRepo{db: db}
}

// AddCollaborators inserts collaborator rows, skipping duplicates
func (r *collaboratorRepo) AddCollaborators(ctx context.Context, workspaceID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO collaborators (workspace_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (workspace_id, user_id) DO NOTHING
	`
	for _, userID := range userIDs {
		if _, err := r.db.ExecContext(ctx, query, workspaceID, userID); err != nil {
			return mapError("add collaborator", err)
		}
	}
	return nil
}

// RemoveCollaborator deletes a collaborator row
func (r *collaboratorRepo) RemoveCollaborator(ctx context.Context, workspaceID, userID string) error {
	query := `DELETE FROM collaborators WHERE workspace_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, workspaceID, userID); err != nil {
		return mapError("remove collaborator", err)
	}
	return nil
}

// ListCollaborators retrieves all collaborator rows for a workspace
func (r *collaboratorRepo) ListCollaborators(ctx context.Context, workspaceID string) ([]model.Collaborator, error) {
	query := `SELECT workspace_id, user_id, created_at FROM collaborators WHERE workspace_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, mapError("list collaborators", err)
	}
	defer rows.Close()

	collaborators := []model.Collaborator{}
	for rows.Next() {
		var c model.Collaborator
		if err := rows.Scan(&c.WorkspaceID, &c.UserID, &c.CreatedAt); err != nil {
			return nil, mapError("list collaborators", err)
		}
		collaborators = append(collaborators, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list collaborators", err)
	}
	return collaborators, nil
}

// CountCollaborators returns the number of collaborators on a workspace
func (r *collaboratorRepo) CountCollaborators(ctx context.Context, workspaceID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM collaborators WHERE workspace_id = $1`
	if err := r.db.QueryRowContext(ctx, query, workspaceID).Scan(&count); err != nil {
		return 0, mapError("count collaborators", err)
	}
	return count, nil
}

// IsCollaborator reports whether the user has a collaborator row
func (r *collaboratorRepo) IsCollaborator(ctx context.Context, workspaceID, userID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM collaborators WHERE workspace_id = $1 AND user_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, workspaceID, userID).Scan(&exists); err != nil {
		return false, mapError("collaborator exists", err)
	}
	return exists, nil
}
