package repository

import (
	"context"
	"database/sql"
	"errors"

	"app/internal/model"

	"github.com/rs/zerolog"
)

// FileRepository defines the interface for interacting with file data
type FileRepository interface {
	CreateFile(ctx context.Context, f *model.File) error
	// GetFileByID retrieves a file by its ID, nil if absent
	GetFileByID(ctx context.Context, fileID string) (*model.File, error)
	UpdateFile(ctx context.Context, fileID string, patch model.FilePatch) (*model.File, error)
	DeleteFile(ctx context.Context, fileID string) error
	// ListFilesByFolder returns the folder's files in creation order.
	ListFilesByFolder(ctx context.Context, folderID string) ([]model.File, error)
}

type fileRepo struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewFileRepo creates a new FileRepository
func NewFileRepo(db *sql.DB, logger zerolog.Logger) FileRepository {
	return &fileRepo{db: db, logger: logger.With().Str("repo", "file").Logger()}
}

const fileColumns = `id, workspace_id, folder_id, title, icon_id, data, in_trash, banner_url, created_at, updated_at`

func scanFile(row interface{ Scan(...any) error }, f *model.File) error {
	return row.Scan(
		&f.ID,
		&f.WorkspaceID,
		&f.FolderID,
		&f.Title,
		&f.IconID,
		&f.Data,
		&f.InTrash,
		&f.BannerURL,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
}

// CreateFile inserts a new file and fills in the generated fields
func (r *fileRepo) CreateFile(ctx context.Context, f *model.File) error {
	query := `
		INSERT INTO files (workspace_id, folder_id, title, icon_id, data, in_trash, banner_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + fileColumns
	row := r.db.QueryRowContext(ctx, query, f.WorkspaceID, f.FolderID, f.Title, f.IconID, f.Data, f.InTrash, f.BannerURL)
	if err := scanFile(row, f); err != nil {
		return mapError("create file", err)
	}
	return nil
}

// GetFileByID retrieves a file by its ID
func (r *fileRepo) GetFileByID(ctx context.Context, fileID string) (*model.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`
	var f model.File
	if err := scanFile(r.db.QueryRowContext(ctx, query, fileID), &f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get file", err)
	}
	return &f, nil
}

// UpdateFile applies a partial update and returns the updated record.
func (r *fileRepo) UpdateFile(ctx context.Context, fileID string, patch model.FilePatch) (*model.File, error) {
	query := `
		UPDATE files
		SET title      = COALESCE($1, title),
		    icon_id    = COALESCE($2, icon_id),
		    data       = COALESCE($3, data),
		    in_trash   = COALESCE($4, in_trash),
		    banner_url = COALESCE($5, banner_url),
		    updated_at = NOW()
		WHERE id = $6
		RETURNING ` + fileColumns
	var f model.File
	row := r.db.QueryRowContext(ctx, query,
		patch.Title, patch.IconID, patch.Data, patch.InTrash, patch.BannerURL, fileID)
	if err := scanFile(row, &f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("update file", err)
	}
	return &f, nil
}

// DeleteFile removes a file record
func (r *fileRepo) DeleteFile(ctx context.Context, fileID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, fileID); err != nil {
		return mapError("delete file", err)
	}
	return nil
}

// ListFilesByFolder retrieves all files for a folder
func (r *fileRepo) ListFilesByFolder(ctx context.Context, folderID string) ([]model.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE folder_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, folderID)
	if err != nil {
		return nil, mapError("list files", err)
	}
	defer rows.Close()

	files := []model.File{}
	for rows.Next() {
		var f model.File
		if err := scanFile(rows, &f); err != nil {
			return nil, mapError("list files", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list files", err)
	}
	return files, nil
}
