package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"app/internal/access"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// UploadHandler handles asset uploads. Logo and banner customization is a
// paid feature; avatars are open to everyone.
type UploadHandler struct {
	uploadService       service.UploadService
	subscriptionService service.SubscriptionService
	logger              zerolog.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadService service.UploadService, subscriptionService service.SubscriptionService, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, subscriptionService: subscriptionService, logger: logger}
}

// RegisterRoutes mounts upload routes
func (h *UploadHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/uploads/", authMw(http.HandlerFunc(h.handleUpload)))
}

// handleUpload godoc
// @Summary Upload an asset
// @Description Stores a logo, avatar, or banner image and returns its public URL. Logos and banners require an active subscription.
// @Tags uploads
// @Accept octet-stream
// @Produce json
// @Param kind path string true "One of logos, avatars, banners"
// @Param entityId path string true "Owning entity ID"
// @Success 201 {object} map[string]string
// @Failure 400 {string} string "Invalid asset kind, type, or size"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 403 {string} string "Branding customization requires an active subscription"
// @Failure 500 {string} string "Failed to upload asset"
// @Router /uploads/{kind}/{entityId} [post]
func (h *UploadHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || !strings.HasPrefix(r.URL.Path, "/uploads/") {
		http.NotFound(w, r)
		return
	}
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/uploads/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		http.NotFound(w, r)
		return
	}
	kind, entityID := parts[0], parts[1]

	if kind == service.AssetLogos || kind == service.AssetBanners {
		sub, err := h.subscriptionService.GetUserSubscriptionStatus(r.Context(), userID)
		if err != nil {
			writeError(w, "Failed to retrieve subscription", err)
			return
		}
		status := model.SubscriptionStatus("")
		if sub != nil {
			status = sub.Status
		}
		if !access.CanCustomizeBranding(status) {
			http.Error(w, "Branding customization requires an active subscription", http.StatusForbidden)
			return
		}
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 6<<20))
	if err != nil {
		http.Error(w, "Failed to read upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	url, err := h.uploadService.UploadAsset(r.Context(), kind, entityID, payload)
	if err != nil {
		writeError(w, "Failed to upload asset", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}
