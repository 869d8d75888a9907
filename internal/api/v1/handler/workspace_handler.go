package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// WorkspaceHandler handles workspace-related endpoints
type WorkspaceHandler struct {
	workspaceService service.WorkspaceService
	validate         *validator.Validate
	logger           zerolog.Logger
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(workspaceService service.WorkspaceService, validate *validator.Validate, logger zerolog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService, validate: validate, logger: logger}
}

// RegisterRoutes mounts workspace routes
func (h *WorkspaceHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/workspaces", authMw(http.HandlerFunc(h.createWorkspace)))
	mux.Handle("/workspaces/", authMw(http.HandlerFunc(h.handleWorkspace)))
}

func workspaceResponse(w *model.Workspace) dto.WorkspaceResponseDTO {
	return dto.WorkspaceResponseDTO{
		ID:        w.ID,
		OwnerID:   w.OwnerID,
		Title:     w.Title,
		IconID:    w.IconID,
		Data:      w.Data,
		InTrash:   w.InTrash,
		LogoURL:   w.LogoURL,
		BannerURL: w.BannerURL,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// createWorkspace godoc
// @Summary Create a new workspace
// @Description Creates a new workspace owned by the authenticated user.
// @Tags workspaces
// @Accept json
// @Produce json
// @Param workspace body dto.WorkspaceCreateDTO true "Workspace creation request"
// @Success 201 {object} dto.WorkspaceResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to create workspace"
// @Router /workspaces [post]
func (h *WorkspaceHandler) createWorkspace(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/workspaces" {
		http.NotFound(w, r)
		return
	}
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req dto.WorkspaceCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	data := ""
	if req.Data != nil {
		data = *req.Data
	}
	logo := ""
	if req.Logo != nil {
		logo = *req.Logo
	}
	workspace := &model.Workspace{
		OwnerID: userID,
		Title:   req.Title,
		IconID:  req.IconID,
		Data:    data,
		LogoURL: logo,
	}
	created, err := h.workspaceService.CreateWorkspace(r.Context(), workspace)
	if err != nil {
		writeError(w, "Failed to create workspace", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(workspaceResponse(created))
}

// listWorkspaces godoc
// @Summary List workspaces by category
// @Description Lists the caller's private, shared, or collaborating workspaces.
// @Tags workspaces
// @Produce json
// @Param category path string true "One of private, shared, collaborating"
// @Success 200 {array} dto.WorkspaceResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to list workspaces"
// @Router /workspaces/{category} [get]
func (h *WorkspaceHandler) listWorkspaces(w http.ResponseWriter, r *http.Request, userID, category string) {
	var (
		workspaces []model.Workspace
		err        error
	)
	switch category {
	case "private":
		workspaces, err = h.workspaceService.ListPrivateWorkspaces(r.Context(), userID)
	case "shared":
		workspaces, err = h.workspaceService.ListSharedWorkspaces(r.Context(), userID)
	case "collaborating":
		workspaces, err = h.workspaceService.ListCollaboratingWorkspaces(r.Context(), userID)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeError(w, "Failed to list workspaces", err)
		return
	}
	resp := make([]dto.WorkspaceResponseDTO, 0, len(workspaces))
	for i := range workspaces {
		resp = append(resp, workspaceResponse(&workspaces[i]))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// getWorkspace godoc
// @Summary Get a workspace
// @Description Retrieves a workspace the caller owns or collaborates on.
// @Tags workspaces
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Success 200 {object} dto.WorkspaceResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Workspace not found"
// @Failure 500 {string} string "Failed to retrieve workspace"
// @Router /workspaces/{workspaceId} [get]
func (h *WorkspaceHandler) getWorkspace(w http.ResponseWriter, r *http.Request, userID, workspaceID string) {
	workspace, err := h.workspaceService.GetWorkspaceDetails(r.Context(), userID, workspaceID)
	if err != nil {
		writeError(w, "Failed to retrieve workspace", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(workspaceResponse(workspace))
}

// updateWorkspace godoc
// @Summary Update a workspace
// @Description Applies a partial update to a workspace.
// @Tags workspaces
// @Accept json
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param workspace body dto.WorkspaceUpdateDTO true "Workspace update request"
// @Success 200 {object} dto.WorkspaceResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Workspace not found"
// @Failure 500 {string} string "Failed to update workspace"
// @Router /workspaces/{workspaceId} [put]
func (h *WorkspaceHandler) updateWorkspace(w http.ResponseWriter, r *http.Request, userID, workspaceID string) {
	var req dto.WorkspaceUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	patch := model.WorkspacePatch{
		Title:     req.Title,
		IconID:    req.IconID,
		Data:      req.Data,
		InTrash:   req.InTrash,
		LogoURL:   req.LogoURL,
		BannerURL: req.BannerURL,
	}
	updated, err := h.workspaceService.UpdateWorkspace(r.Context(), userID, workspaceID, patch)
	if err != nil {
		writeError(w, "Failed to update workspace", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(workspaceResponse(updated))
}

// deleteWorkspace godoc
// @Summary Delete a workspace
// @Description Deletes a workspace and all folders and files inside it. Owner only.
// @Tags workspaces
// @Param workspaceId path string true "Workspace ID"
// @Success 204 {string} string "No Content"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 403 {string} string "Only the owner may delete a workspace"
// @Failure 404 {string} string "Workspace not found"
// @Failure 500 {string} string "Failed to delete workspace"
// @Router /workspaces/{workspaceId} [delete]
func (h *WorkspaceHandler) deleteWorkspace(w http.ResponseWriter, r *http.Request, userID, workspaceID string) {
	if err := h.workspaceService.DeleteWorkspace(r.Context(), userID, workspaceID); err != nil {
		writeError(w, "Failed to delete workspace", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WorkspaceHandler) handleWorkspace(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/workspaces/") {
		http.NotFound(w, r)
		return
	}
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/workspaces/")
	if r.Method == http.MethodGet {
		switch rest {
		case "private", "shared", "collaborating":
			h.listWorkspaces(w, r, userID, rest)
			return
		}
	}
	switch r.Method {
	case http.MethodGet:
		h.getWorkspace(w, r, userID, rest)
	case http.MethodPut:
		h.updateWorkspace(w, r, userID, rest)
	case http.MethodDelete:
		h.deleteWorkspace(w, r, userID, rest)
	default:
		http.NotFound(w, r)
	}
}
