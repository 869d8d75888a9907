package service

import (
	"context"

	"app/internal/model"
	"app/internal/repository"
)

// SubscriptionService exposes billing state reads. Writes come only from
// the billing provider's webhook pipeline, which is outside this service.
type SubscriptionService interface {
	// GetUserSubscriptionStatus returns the user's subscription, nil when
	// the user has never subscribed (treated as the free plan).
	GetUserSubscriptionStatus(ctx context.Context, userID string) (*model.Subscription, error)
	// GetActiveProducts returns the purchasable catalog for the upgrade
	// flow.
	GetActiveProducts(ctx context.Context) ([]model.Product, error)
}

type subscriptionService struct {
	repo repository.SubscriptionRepository
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(repo repository.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{repo: repo}
}

func (s *subscriptionService) GetUserSubscriptionStatus(ctx context.Context, userID string) (*model.Subscription, error) {
	return s.repo.GetSubscriptionByUserID(ctx, userID)
}

func (s *subscriptionService) GetActiveProducts(ctx context.Context) ([]model.Product, error) {
	return s.repo.ListActiveProductsWithPrices(ctx)
}
