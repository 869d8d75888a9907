package dto

import "time"

// FolderCreateDTO is used for incoming folder creation requests
type FolderCreateDTO struct {
	WorkspaceID string  `json:"workspace_id" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	IconID      string  `json:"icon_id" validate:"required"`
	Data        *string `json:"data,omitempty"`
}

// FolderUpdateDTO is used for incoming folder update requests
type FolderUpdateDTO struct {
	Title     *string `json:"title,omitempty"`
	IconID    *string `json:"icon_id,omitempty"`
	Data      *string `json:"data,omitempty"`
	InTrash   *string `json:"in_trash,omitempty"`
	BannerURL *string `json:"banner_url,omitempty"`
}

// FolderResponseDTO is returned in API responses for folders
type FolderResponseDTO struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Title       string    `json:"title"`
	IconID      string    `json:"icon_id"`
	Data        string    `json:"data"`
	InTrash     string    `json:"in_trash"`
	BannerURL   string    `json:"banner_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UsageResponseDTO reports folder quota consumption for a workspace
type UsageResponseDTO struct {
	WorkspaceID     string  `json:"workspace_id"`
	UsagePercentage float64 `json:"usage_percentage"`
}
