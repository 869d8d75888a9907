package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// SubscriptionHandler handles subscription and catalog endpoints
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	logger              zerolog.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionService service.SubscriptionService, logger zerolog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService, logger: logger}
}

// RegisterRoutes mounts subscription routes
func (h *SubscriptionHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/subscriptions/status", authMw(http.HandlerFunc(h.getStatus)))
	mux.Handle("/products", authMw(http.HandlerFunc(h.listProducts)))
}

// getStatus godoc
// @Summary Get subscription status
// @Description Retrieves the caller's subscription. Returns 204 when the user has never subscribed (free plan).
// @Tags subscriptions
// @Produce json
// @Success 200 {object} dto.SubscriptionResponseDTO
// @Success 204 {string} string "No subscription (free plan)"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to retrieve subscription"
// @Router /subscriptions/status [get]
func (h *SubscriptionHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	sub, err := h.subscriptionService.GetUserSubscriptionStatus(r.Context(), userID)
	if err != nil {
		writeError(w, "Failed to retrieve subscription", err)
		return
	}
	if sub == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	resp := dto.SubscriptionResponseDTO{
		ID:               sub.ID,
		UserID:           sub.UserID,
		Status:           string(sub.Status),
		PriceID:          sub.PriceID,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// listProducts godoc
// @Summary List purchasable products
// @Description Lists active products with their active prices for the upgrade flow.
// @Tags subscriptions
// @Produce json
// @Success 200 {array} dto.ProductResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to list products"
// @Router /products [get]
func (h *SubscriptionHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	_, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	products, err := h.subscriptionService.GetActiveProducts(r.Context())
	if err != nil {
		writeError(w, "Failed to list products", err)
		return
	}
	resp := make([]dto.ProductResponseDTO, 0, len(products))
	for _, p := range products {
		resp = append(resp, productResponse(p))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func productResponse(p model.Product) dto.ProductResponseDTO {
	prices := make([]dto.PriceResponseDTO, 0, len(p.Prices))
	for _, pr := range p.Prices {
		prices = append(prices, dto.PriceResponseDTO{
			ID:            pr.ID,
			ProductID:     pr.ProductID,
			Description:   pr.Description,
			UnitAmount:    pr.UnitAmount,
			Currency:      pr.Currency,
			Type:          pr.Type,
			Interval:      pr.Interval,
			IntervalCount: pr.IntervalCount,
		})
	}
	return dto.ProductResponseDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Prices:      prices,
	}
}
