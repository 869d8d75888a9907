package dto

import "time"

// SubscriptionResponseDTO is returned for subscription status reads
type SubscriptionResponseDTO struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Status           string    `json:"status"`
	PriceID          string    `json:"price_id"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
}

// PriceResponseDTO is one purchasable price
type PriceResponseDTO struct {
	ID            string `json:"id"`
	ProductID     string `json:"product_id"`
	Description   string `json:"description"`
	UnitAmount    int64  `json:"unit_amount"`
	Currency      string `json:"currency"`
	Type          string `json:"type"`
	Interval      string `json:"interval"`
	IntervalCount int    `json:"interval_count"`
}

// ProductResponseDTO is one catalog product with its active prices
type ProductResponseDTO struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	ImageURL    string             `json:"image_url"`
	Prices      []PriceResponseDTO `json:"prices"`
}
