package dto

import "time"

// FileCreateDTO is used for incoming file creation requests
type FileCreateDTO struct {
	WorkspaceID string  `json:"workspace_id" validate:"required"`
	FolderID    string  `json:"folder_id" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	IconID      string  `json:"icon_id" validate:"required"`
	Data        *string `json:"data,omitempty"`
}

// FileUpdateDTO is used for incoming file update requests
type FileUpdateDTO struct {
	Title     *string `json:"title,omitempty"`
	IconID    *string `json:"icon_id,omitempty"`
	Data      *string `json:"data,omitempty"`
	InTrash   *string `json:"in_trash,omitempty"`
	BannerURL *string `json:"banner_url,omitempty"`
}

// FileResponseDTO is returned in API responses for files
type FileResponseDTO struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	FolderID    string    `json:"folder_id"`
	Title       string    `json:"title"`
	IconID      string    `json:"icon_id"`
	Data        string    `json:"data"`
	InTrash     string    `json:"in_trash"`
	BannerURL   string    `json:"banner_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
