package model

import "time"

// SubscriptionStatus mirrors the billing provider's lifecycle states.
type SubscriptionStatus string

const (
	StatusTrialing          SubscriptionStatus = "trialing"
	StatusActive            SubscriptionStatus = "active"
	StatusCanceled          SubscriptionStatus = "canceled"
	StatusIncomplete        SubscriptionStatus = "incomplete"
	StatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	StatusPastDue           SubscriptionStatus = "past_due"
	StatusUnpaid            SubscriptionStatus = "unpaid"
)

// IsActive reports whether the status unlocks paid features.
func (s SubscriptionStatus) IsActive() bool {
	return s == StatusActive
}

// Subscription is the one-per-user billing record. Its lifecycle is driven
// entirely by the billing provider; this service only reads it.
type Subscription struct {
	ID                 string             `db:"id" json:"id"`
	UserID             string             `db:"user_id" json:"user_id"`
	Status             SubscriptionStatus `db:"status" json:"status"`
	PriceID            string             `db:"price_id" json:"price_id"`
	Quantity           int                `db:"quantity" json:"quantity"`
	CancelAtPeriodEnd  bool               `db:"cancel_at_period_end" json:"cancel_at_period_end"`
	CurrentPeriodStart time.Time          `db:"current_period_start" json:"current_period_start"`
	CurrentPeriodEnd   time.Time          `db:"current_period_end" json:"current_period_end"`
	EndedAt            *time.Time         `db:"ended_at" json:"ended_at,omitempty"`
	CancelAt           *time.Time         `db:"cancel_at" json:"cancel_at,omitempty"`
	CanceledAt         *time.Time         `db:"canceled_at" json:"canceled_at,omitempty"`
	CreatedAt          time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updated_at"`
}

// Product is a purchasable plan from the billing catalog. Read-only here.
type Product struct {
	ID          string  `db:"id" json:"id"`
	Active      bool    `db:"active" json:"active"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	ImageURL    string  `db:"image_url" json:"image_url"`
	Prices      []Price `db:"-" json:"prices"`
}

// Price belongs to exactly one product.
type Price struct {
	ID            string `db:"id" json:"id"`
	ProductID     string `db:"product_id" json:"product_id"`
	Active        bool   `db:"active" json:"active"`
	Description   string `db:"description" json:"description"`
	UnitAmount    int64  `db:"unit_amount" json:"unit_amount"`
	Currency      string `db:"currency" json:"currency"`
	Type          string `db:"type" json:"type"`
	Interval      string `db:"interval" json:"interval"`
	IntervalCount int    `db:"interval_count" json:"interval_count"`
}
