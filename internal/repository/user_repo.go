package repository

import (
	"context"
	"database/sql"
	"errors"

	"app/internal/model"
)

// searchResultLimit caps collaborator email search results.
const searchResultLimit = 10

type UserRepository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// SearchUsersByEmail does a case-insensitive substring match, capped at
	// searchResultLimit results.
	SearchUsersByEmail(ctx context.Context, query string) ([]model.User, error)
}

type userRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `user_id, email, full_name, avatar_url, password_hash, billing_customer_id, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, u *model.User) error {
	return row.Scan(
		&u.UserID,
		&u.Email,
		&u.FullName,
		&u.AvatarURL,
		&u.PasswordHash,
		&u.BillingCustomerID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

func (r *userRepo) CreateUser(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (email, full_name, avatar_url, password_hash, billing_customer_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, query, u.Email, u.FullName, u.AvatarURL, u.PasswordHash, u.BillingCustomerID)
	if err := scanUser(row, u); err != nil {
		return mapError("create user", err)
	}
	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	if err := scanUser(r.db.QueryRowContext(ctx, query, id), &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get user", err)
	}
	return &u, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := scanUser(r.db.QueryRowContext(ctx, query, email), &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get user by email", err)
	}
	return &u, nil
}

func (r *userRepo) SearchUsersByEmail(ctx context.Context, query string) ([]model.User, error) {
	if query == "" {
		return []model.User{}, nil
	}
	q := `SELECT ` + userColumns + ` FROM users WHERE email ILIKE '%' || $1 || '%' ORDER BY email ASC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, query, searchResultLimit)
	if err != nil {
		return nil, mapError("search users", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, mapError("search users", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("search users", err)
	}
	return users, nil
}
