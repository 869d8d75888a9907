package service

import (
	"context"

	"app/internal/apperr"
	"app/internal/model"
	"app/internal/realtime"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// FileService defines the interface for file operations. Every successful
// mutation fans out exactly one realtime event to the other clients in the
// workspace; the mutating client (identified by clientID) is excluded.
type FileService interface {
	CreateFile(ctx context.Context, principal, clientID string, f *model.File) (*model.File, error)
	GetFile(ctx context.Context, principal, fileID string) (*model.File, error)
	UpdateFile(ctx context.Context, principal, clientID, fileID string, patch model.FilePatch) (*model.File, error)
	DeleteFile(ctx context.Context, principal, clientID, fileID string) error
	ListFiles(ctx context.Context, principal, folderID string) ([]model.File, error)
}

type fileService struct {
	repo    repository.FileRepository
	folders FolderService
	hub     *realtime.Hub
	logger  zerolog.Logger
}

// NewFileService creates a new FileService
func NewFileService(repo repository.FileRepository, folders FolderService, hub *realtime.Hub, logger zerolog.Logger) FileService {
	return &fileService{
		repo:    repo,
		folders: folders,
		hub:     hub,
		logger:  logger.With().Str("service", "FileService").Logger(),
	}
}

// emit broadcasts after a successful persist. Fanout failure does not fail
// the mutation: the store already holds the truth and disconnected clients
// re-bootstrap from it.
func (s *fileService) emit(ctx context.Context, e realtime.Event, clientID string) {
	if s.hub == nil {
		return
	}
	if err := s.hub.Broadcast(ctx, e, clientID); err != nil {
		s.logger.Warn().Err(err).Str("kind", string(e.Kind)).Msg("fanout emit failed")
	}
}

// CreateFile persists a new file and fans out insert-file
func (s *fileService) CreateFile(ctx context.Context, principal, clientID string, f *model.File) (*model.File, error) {
	folder, err := s.folders.GetFolderDetails(ctx, principal, f.FolderID)
	if err != nil {
		return nil, err
	}
	if folder.WorkspaceID != f.WorkspaceID {
		return nil, apperr.New(apperr.KindValidationFailed, "folder does not belong to workspace")
	}

	if err := s.repo.CreateFile(ctx, f); err != nil {
		return nil, err
	}
	s.emit(ctx, realtime.Event{
		Kind:        realtime.EventInsertFile,
		WorkspaceID: f.WorkspaceID,
		FolderID:    f.FolderID,
		FileID:      f.ID,
		File:        f,
	}, clientID)
	return f, nil
}

// GetFile retrieves a file, inheriting workspace access policy
func (s *fileService) GetFile(ctx context.Context, principal, fileID string) (*model.File, error) {
	f, err := s.repo.GetFileByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, apperr.New(apperr.KindNotFound, "file not found")
	}
	if _, err := s.folders.GetFolderDetails(ctx, principal, f.FolderID); err != nil {
		return nil, err
	}
	return f, nil
}

// UpdateFile applies a partial update and fans out update-file
func (s *fileService) UpdateFile(ctx context.Context, principal, clientID, fileID string, patch model.FilePatch) (*model.File, error) {
	if _, err := s.GetFile(ctx, principal, fileID); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateFile(ctx, fileID, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.New(apperr.KindNotFound, "file not found")
	}
	s.emit(ctx, realtime.Event{
		Kind:        realtime.EventUpdateFile,
		WorkspaceID: updated.WorkspaceID,
		FolderID:    updated.FolderID,
		FileID:      updated.ID,
		Patch:       &patch,
	}, clientID)
	return updated, nil
}

// DeleteFile removes the file and fans out delete-file
func (s *fileService) DeleteFile(ctx context.Context, principal, clientID, fileID string) error {
	f, err := s.GetFile(ctx, principal, fileID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteFile(ctx, fileID); err != nil {
		return err
	}
	s.emit(ctx, realtime.Event{
		Kind:        realtime.EventDeleteFile,
		WorkspaceID: f.WorkspaceID,
		FolderID:    f.FolderID,
		FileID:      f.ID,
	}, clientID)
	return nil
}

// ListFiles returns the folder's files in creation order
func (s *fileService) ListFiles(ctx context.Context, principal, folderID string) ([]model.File, error) {
	if _, err := s.folders.GetFolderDetails(ctx, principal, folderID); err != nil {
		return nil, err
	}
	return s.repo.ListFilesByFolder(ctx, folderID)
}
