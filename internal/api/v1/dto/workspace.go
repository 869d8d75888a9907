package dto

import "time"

// WorkspaceCreateDTO is used for incoming workspace creation requests
type WorkspaceCreateDTO struct {
	Title  string  `json:"title" validate:"required"`
	IconID string  `json:"icon_id" validate:"required"`
	Data   *string `json:"data,omitempty"`
	Logo   *string `json:"logo,omitempty"`
}

// WorkspaceUpdateDTO is used for incoming workspace update requests
type WorkspaceUpdateDTO struct {
	Title     *string `json:"title,omitempty"`
	IconID    *string `json:"icon_id,omitempty"`
	Data      *string `json:"data,omitempty"`
	InTrash   *string `json:"in_trash,omitempty"`
	LogoURL   *string `json:"logo_url,omitempty"`
	BannerURL *string `json:"banner_url,omitempty"`
}

// WorkspaceResponseDTO is returned in API responses for workspaces
type WorkspaceResponseDTO struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	IconID    string    `json:"icon_id"`
	Data      string    `json:"data"`
	InTrash   string    `json:"in_trash"`
	LogoURL   string    `json:"logo_url"`
	BannerURL string    `json:"banner_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
