package repository

import (
	"context"
	"database/sql"
	"errors"

	"app/internal/model"

	"github.com/rs/zerolog"
)

// WorkspaceRepository defines the interface for interacting with workspace data
type WorkspaceRepository interface {
	CreateWorkspace(ctx context.Context, w *model.Workspace) error
	// GetWorkspaceByID retrieves a workspace by its ID, nil if absent
	GetWorkspaceByID(ctx context.Context, workspaceID string) (*model.Workspace, error)
	UpdateWorkspace(ctx context.Context, workspaceID string, patch model.WorkspacePatch) (*model.Workspace, error)
	// DeleteWorkspace removes the workspace and all descendant folders and
	// files as a single transaction.
	DeleteWorkspace(ctx context.Context, workspaceID string) error
	// ListPrivateWorkspaces returns workspaces owned by ownerID that have no
	// collaborator rows. Privacy is computed from collaborator existence at
	// query time, never from a stored flag.
	ListPrivateWorkspaces(ctx context.Context, ownerID string) ([]model.Workspace, error)
	// ListSharedWorkspaces returns workspaces owned by ownerID that have at
	// least one collaborator row.
	ListSharedWorkspaces(ctx context.Context, ownerID string) ([]model.Workspace, error)
	// ListCollaboratingWorkspaces returns workspaces the user collaborates
	// on but does not own.
	ListCollaboratingWorkspaces(ctx context.Context, userID string) ([]model.Workspace, error)
}

type workspaceRepo struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewWorkspaceRepo creates a new WorkspaceRepository
func NewWorkspaceRepo(db *sql.DB, logger zerolog.Logger) WorkspaceRepository {
	return &workspaceRepo{db: db, logger: logger.With().Str("repo", "workspace").Logger()}
}

const workspaceColumns = `id, owner_id, title, icon_id, data, in_trash, logo_url, banner_url, created_at, updated_at`

func scanWorkspace(row interface{ Scan(...any) error }, w *model.Workspace) error {
	return row.Scan(
		&w.ID,
		&w.OwnerID,
		&w.Title,
		&w.IconID,
		&w.Data,
		&w.InTrash,
		&w.LogoURL,
		&w.BannerURL,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
}

// CreateWorkspace inserts a new workspace and fills in the generated fields
func (r *workspaceRepo) CreateWorkspace(ctx context.Context, w *model.Workspace) error {
	query := `
		INSERT INTO workspaces (owner_id, title, icon_id, data, in_trash, logo_url, banner_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + workspaceColumns
	row := r.db.QueryRowContext(ctx, query, w.OwnerID, w.Title, w.IconID, w.Data, w.InTrash, w.LogoURL, w.BannerURL)
	if err := scanWorkspace(row, w); err != nil {
		return mapError("create workspace", err)
	}
	return nil
}

// GetWorkspaceByID retrieves a workspace by its ID
func (r *workspaceRepo) GetWorkspaceByID(ctx context.Context, workspaceID string) (*model.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE id = $1`
	var w model.Workspace
	if err := scanWorkspace(r.db.QueryRowContext(ctx, query, workspaceID), &w); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get workspace", err)
	}
	return &w, nil
}

// UpdateWorkspace applies a partial update and returns the updated record.
func (r *workspaceRepo) UpdateWorkspace(ctx context.Context, workspaceID string, patch model.WorkspacePatch) (*model.Workspace, error) {
	query := `
		UPDATE workspaces
		SET title      = COALESCE($1, title),
		    icon_id    = COALESCE($2, icon_id),
		    data       = COALESCE($3, data),
		    in_trash   = COALESCE($4, in_trash),
		    logo_url   = COALESCE($5, logo_url),
		    banner_url = COALESCE($6, banner_url),
		    updated_at = NOW()
		WHERE id = $7
		RETURNING ` + workspaceColumns
	var w model.Workspace
	row := r.db.QueryRowContext(ctx, query,
		patch.Title, patch.IconID, patch.Data, patch.InTrash, patch.LogoURL, patch.BannerURL, workspaceID)
	if err := scanWorkspace(row, &w); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("update workspace", err)
	}
	return &w, nil
}

// DeleteWorkspace cascades files, then folders, then the workspace itself
// inside one transaction. A failure at any step rolls the whole cascade
// back so the caller never observes a half-deleted tree.
func (r *workspaceRepo) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("delete workspace: begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE workspace_id = $1`, workspaceID); err != nil {
		return mapError("delete workspace: files", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE workspace_id = $1`, workspaceID); err != nil {
		return mapError("delete workspace: folders", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collaborators WHERE workspace_id = $1`, workspaceID); err != nil {
		return mapError("delete workspace: collaborators", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM workspaces WHERE id = $1`, workspaceID); err != nil {
		return mapError("delete workspace", err)
	}

	if err := tx.Commit(); err != nil {
		return mapError("delete workspace: commit", err)
	}
	return nil
}

// ListPrivateWorkspaces retrieves owned workspaces without collaborators
func (r *workspaceRepo) ListPrivateWorkspaces(ctx context.Context, ownerID string) ([]model.Workspace, error) {
	query := `
		SELECT ` + workspaceColumns + `
		FROM workspaces w
		WHERE w.owner_id = $1
		  AND NOT EXISTS (
		      SELECT 1 FROM collaborators c WHERE c.workspace_id = w.id
		  )
		ORDER BY w.created_at ASC
	`
	return r.queryWorkspaces(ctx, "list private workspaces", query, ownerID)
}

// ListSharedWorkspaces retrieves owned workspaces with at least one collaborator
func (r *workspaceRepo) ListSharedWorkspaces(ctx context.Context, ownerID string) ([]model.Workspace, error) {
	query := `
		SELECT ` + workspaceColumns + `
		FROM workspaces w
		WHERE w.owner_id = $1
		  AND EXISTS (
		      SELECT 1 FROM collaborators c WHERE c.workspace_id = w.id
		  )
		ORDER BY w.created_at ASC
	`
	return r.queryWorkspaces(ctx, "list shared workspaces", query, ownerID)
}

// ListCollaboratingWorkspaces retrieves workspaces shared with the user
func (r *workspaceRepo) ListCollaboratingWorkspaces(ctx context.Context, userID string) ([]model.Workspace, error) {
	query := `
		SELECT w.id, w.owner_id, w.title, w.icon_id, w.data, w.in_trash, w.logo_url, w.banner_url, w.created_at, w.updated_at
		FROM workspaces w
		JOIN collaborators c ON c.workspace_id = w.id
		WHERE c.user_id = $1
		ORDER BY w.created_at ASC
	`
	return r.queryWorkspaces(ctx, "list collaborating workspaces", query, userID)
}

func (r *workspaceRepo) queryWorkspaces(ctx context.Context, op, query string, arg any) ([]model.Workspace, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	workspaces := []model.Workspace{}
	for rows.Next() {
		var w model.Workspace
		if err := scanWorkspace(rows, &w); err != nil {
			return nil, mapError(op, err)
		}
		workspaces = append(workspaces, w)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return workspaces, nil
}
