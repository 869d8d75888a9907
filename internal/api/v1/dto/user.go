package dto

import "time"

// UserCreateDTO is used for incoming signup requests. The password arrives
// pre-hashed from the auth layer.
type UserCreateDTO struct {
	Email        string  `json:"email" validate:"required,email"`
	FullName     string  `json:"full_name" validate:"required"`
	PasswordHash string  `json:"password_hash" validate:"required"`
	AvatarURL    *string `json:"avatar_url,omitempty"`
}

// UserResponseDTO is returned in API responses for users
type UserResponseDTO struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}
