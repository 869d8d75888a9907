package model

import "time"

// User represents a user in the system
type User struct {
	UserID            string    `db:"user_id" json:"user_id"`
	Email             string    `db:"email" json:"email"`
	FullName          string    `db:"full_name" json:"full_name"`
	AvatarURL         string    `db:"avatar_url" json:"avatar_url"`
	PasswordHash      string    `db:"password_hash" json:"-"`
	BillingCustomerID *string   `db:"billing_customer_id" json:"billing_customer_id,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
