package service

import (
	"context"

	"app/internal/apperr"
	"app/internal/model"
	"app/internal/repository"
)

// UserService handles user profile operations. Credential hashing and
// verification live outside this service; it only persists the hash it is
// handed.
type UserService interface {
	CreateUser(ctx context.Context, u *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	if u.Email == "" {
		return nil, apperr.New(apperr.KindValidationFailed, "email is required")
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		// Duplicate email surfaces as a field-level constraint violation.
		return nil, err
	}
	return u, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	return u, nil
}
