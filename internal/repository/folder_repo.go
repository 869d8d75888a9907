package repository

import (
	"context"
	"database/sql"
	"errors"

	"app/internal/model"

	"github.com/rs/zerolog"
)

// FolderRepository defines the interface for interacting with folder data
type FolderRepository interface {
	CreateFolder(ctx context.Context, f *model.Folder) error
	// GetFolderByID retrieves a folder by its ID, nil if absent
	GetFolderByID(ctx context.Context, folderID string) (*model.Folder, error)
	UpdateFolder(ctx context.Context, folderID string, patch model.FolderPatch) (*model.Folder, error)
	// DeleteFolder removes the folder and its files in one transaction.
	DeleteFolder(ctx context.Context, folderID string) error
	// ListFoldersByWorkspace returns the workspace's folders in creation
	// order (stable sibling ordering for the tree projection).
	ListFoldersByWorkspace(ctx context.Context, workspaceID string) ([]model.Folder, error)
	// CountFoldersByWorkspace is the quota evaluator's input.
	CountFoldersByWorkspace(ctx context.Context, workspaceID string) (int, error)
}

type folderRepo struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewFolderRepo creates a new FolderRepository
func NewFolderRepo(db *sql.DB, logger zerolog.Logger) FolderRepository {
	return &folderRepo{db: db, logger: logger.With().Str("repo", "folder").Logger()}
}

const folderColumns = `id, workspace_id, title, icon_id, data, in_trash, banner_url, created_at, updated_at`

func scanFolder(row interface{ Scan(...any) error }, f *model.Folder) error {
	return row.Scan(
		&f.ID,
		&f.WorkspaceID,
		&f.Title,
		&f.IconID,
		&f.Data,
		&f.InTrash,
		&f.BannerURL,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
}

// CreateFolder inserts a new folder and fills in the generated fields
func (r *folderRepo) CreateFolder(ctx context.Context, f *model.Folder) error {
	query := `
		INSERT INTO folders (workspace_id, title, icon_id, data, in_trash, banner_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + folderColumns
	row := r.db.QueryRowContext(ctx, query, f.WorkspaceID, f.Title, f.IconID, f.Data, f.InTrash, f.BannerURL)
	if err := scanFolder(row, f); err != nil {
		return mapError("create folder", err)
	}
	return nil
}

// GetFolderByID retrieves a folder by its ID
func (r *folderRepo) GetFolderByID(ctx context.Context, folderID string) (*model.Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM folders WHERE id = $1`
	var f model.Folder
	if err := scanFolder(r.db.QueryRowContext(ctx, query, folderID), &f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get folder", err)
	}
	return &f, nil
}

// UpdateFolder applies a partial update and returns the updated record.
func (r *folderRepo) UpdateFolder(ctx context.Context, folderID string, patch model.FolderPatch) (*model.Folder, error) {
	query := `
		UPDATE folders
		SET title      = COALESCE($1, title),
		    icon_id    = COALESCE($2, icon_id),
		    data       = COALESCE($3, data),
		    in_trash   = COALESCE($4, in_trash),
		    banner_url = COALESCE($5, banner_url),
		    updated_at = NOW()
		WHERE id = $6
		RETURNING ` + folderColumns
	var f model.Folder
	row := r.db.QueryRowContext(ctx, query,
		patch.Title, patch.IconID, patch.Data, patch.InTrash, patch.BannerURL, folderID)
	if err := scanFolder(row, &f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("update folder", err)
	}
	return &f, nil
}

// DeleteFolder cascades the folder's files before the folder itself so the
// tree never holds files whose parent is gone.
func (r *folderRepo) DeleteFolder(ctx context.Context, folderID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("delete folder: begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE folder_id = $1`, folderID); err != nil {
		return mapError("delete folder: files", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE id = $1`, folderID); err != nil {
		return mapError("delete folder", err)
	}

	if err := tx.Commit(); err != nil {
		return mapError("delete folder: commit", err)
	}
	return nil
}

// ListFoldersByWorkspace retrieves all folders for a workspace
func (r *folderRepo) ListFoldersByWorkspace(ctx context.Context, workspaceID string) ([]model.Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM folders WHERE workspace_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, mapError("list folders", err)
	}
	defer rows.Close()

	folders := []model.Folder{}
	for rows.Next() {
		var f model.Folder
		if err := scanFolder(rows, &f); err != nil {
			return nil, mapError("list folders", err)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list folders", err)
	}
	return folders, nil
}

// CountFoldersByWorkspace returns the number of folders in a workspace
func (r *folderRepo) CountFoldersByWorkspace(ctx context.Context, workspaceID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM folders WHERE workspace_id = $1`
	if err := r.db.QueryRowContext(ctx, query, workspaceID).Scan(&count); err != nil {
		return 0, mapError("count folders", err)
	}
	return count, nil
}
