package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"app/internal/model"
)

// SubscriptionRepository defines methods for accessing subscription data.
// Records are written by the billing provider's webhook pipeline; this
// service mostly reads status to gate features.
type SubscriptionRepository interface {
	// GetSubscriptionByUserID returns the user's subscription, nil if the
	// user has never subscribed.
	GetSubscriptionByUserID(ctx context.Context, userID string) (*model.Subscription, error)
	UpsertSubscription(ctx context.Context, s *model.Subscription) error
	// ListActiveProductsWithPrices returns the purchasable catalog with
	// each product's active prices attached.
	ListActiveProductsWithPrices(ctx context.Context) ([]model.Product, error)
}

type subscriptionRepo struct {
	db *sql.DB
}

// NewSubscriptionRepo creates a new SubscriptionRepository.
func NewSubscriptionRepo(db *sql.DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

const subscriptionColumns = `id, user_id, status, price_id, quantity, cancel_at_period_end,
	current_period_start, current_period_end, ended_at, cancel_at, canceled_at, created_at, updated_at`

// GetSubscriptionByUserID returns the one-per-user subscription record.
func (r *subscriptionRepo) GetSubscriptionByUserID(ctx context.Context, userID string) (*model.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1`
	var s model.Subscription
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.ID,
		&s.UserID,
		&s.Status,
		&s.PriceID,
		&s.Quantity,
		&s.CancelAtPeriodEnd,
		&s.CurrentPeriodStart,
		&s.CurrentPeriodEnd,
		&s.EndedAt,
		&s.CancelAt,
		&s.CanceledAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get subscription", err)
	}
	return &s, nil
}

// UpsertSubscription writes the record keyed on user_id. One active
// subscription per user.
func (r *subscriptionRepo) UpsertSubscription(ctx context.Context, s *model.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, user_id, status, price_id, quantity, cancel_at_period_end,
			current_period_start, current_period_end, ended_at, cancel_at, canceled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET id = EXCLUDED.id,
			status = EXCLUDED.status,
			price_id = EXCLUDED.price_id,
			quantity = EXCLUDED.quantity,
			cancel_at_period_end = EXCLUDED.cancel_at_period_end,
			current_period_start = EXCLUDED.current_period_start,
			current_period_end = EXCLUDED.current_period_end,
			ended_at = EXCLUDED.ended_at,
			cancel_at = EXCLUDED.cancel_at,
			canceled_at = EXCLUDED.canceled_at,
			updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.Status, s.PriceID, s.Quantity, s.CancelAtPeriodEnd,
		s.CurrentPeriodStart, s.CurrentPeriodEnd, s.EndedAt, s.CancelAt, s.CanceledAt)
	if err != nil {
		return mapError(fmt.Sprintf("upsert subscription for user %s", s.UserID), err)
	}
	return nil
}

// ListActiveProductsWithPrices returns active products joined with their
// active prices.
func (r *subscriptionRepo) ListActiveProductsWithPrices(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT p.id, p.active, p.name, p.description, p.image_url,
		       pr.id, pr.product_id, pr.active, pr.description, pr.unit_amount,
		       pr.currency, pr.pricing_type, pr.billing_interval, pr.interval_count
		FROM products p
		LEFT JOIN prices pr ON pr.product_id = p.id AND pr.active = TRUE
		WHERE p.active = TRUE
		ORDER BY p.name ASC, pr.unit_amount ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError("list products", err)
	}
	defer rows.Close()

	byID := map[string]*model.Product{}
	order := []string{}
	for rows.Next() {
		var p model.Product
		var priceID, priceProductID, priceDescription, priceCurrency, priceType, priceInterval sql.NullString
		var priceActive sql.NullBool
		var priceUnitAmount, priceIntervalCount sql.NullInt64
		if err := rows.Scan(
			&p.ID, &p.Active, &p.Name, &p.Description, &p.ImageURL,
			&priceID, &priceProductID, &priceActive, &priceDescription, &priceUnitAmount,
			&priceCurrency, &priceType, &priceInterval, &priceIntervalCount,
		); err != nil {
			return nil, mapError("list products", err)
		}
		existing, ok := byID[p.ID]
		if !ok {
			existing = &p
			existing.Prices = []model.Price{}
			byID[p.ID] = existing
			order = append(order, p.ID)
		}
		if priceID.Valid {
			existing.Prices = append(existing.Prices, model.Price{
				ID:            priceID.String,
				ProductID:     priceProductID.String,
				Active:        priceActive.Bool,
				Description:   priceDescription.String,
				UnitAmount:    priceUnitAmount.Int64,
				Currency:      priceCurrency.String,
				Type:          priceType.String,
				Interval:      priceInterval.String,
				IntervalCount: int(priceIntervalCount.Int64),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list products", err)
	}

	products := make([]model.Product, 0, len(order))
	for _, id := range order {
		products = append(products, *byID[id])
	}
	return products, nil
}
