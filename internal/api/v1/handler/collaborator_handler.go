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

// CollaboratorHandler handles workspace sharing endpoints
type CollaboratorHandler struct {
	collaboratorService service.CollaboratorService
	validate            *validator.Validate
	logger              zerolog.Logger
}

// NewCollaboratorHandler creates a new CollaboratorHandler
func NewCollaboratorHandler(collaboratorService service.CollaboratorService, validate *validator.Validate, logger zerolog.Logger) *CollaboratorHandler {
	return &CollaboratorHandler{collaboratorService: collaboratorService, validate: validate, logger: logger}
}

// RegisterRoutes mounts collaborator routes
func (h *CollaboratorHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/collaborators/", authMw(http.HandlerFunc(h.handleCollaborators)))
}

func userResponse(u *model.User) dto.UserResponseDTO {
	return dto.UserResponseDTO{
		UserID:    u.UserID,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

// addCollaborators godoc
// @Summary Share a workspace
// @Description Adds users as collaborators on a workspace. Owner only. Users already sharing the workspace are skipped.
// @Tags collaborators
// @Accept json
// @Param workspaceId path string true "Workspace ID"
// @Param collaborators body dto.CollaboratorAddDTO true "Users to add"
// @Success 204 {string} string "No Content"
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 402 {string} string "Collaborator limit reached"
// @Failure 403 {string} string "Only the owner may share a workspace"
// @Failure 404 {string} string "Workspace not found"
// @Failure 500 {string} string "Failed to add collaborators"
// @Router /collaborators/{workspaceId} [post]
func (h *CollaboratorHandler) addCollaborators(w http.ResponseWriter, r *http.Request, userID, workspaceID string) {
	var req dto.CollaboratorAddDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.collaboratorService.AddCollaborators(r.Context(), userID, workspaceID, req.UserIDs); err != nil {
		writeError(w, "Failed to add collaborators", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listCollaborators godoc
// @Summary List workspace collaborators
// @Description Lists the users a workspace is shared with.
// @Tags collaborators
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Success 200 {array} dto.UserResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Workspace not found"
// @Failure 500 {string} string "Failed to list collaborators"
// @Router /collaborators/{workspaceId} [get]
func (h *CollaboratorHandler) listCollaborators(w http.ResponseWriter, r *http.Request, userID, workspaceID string) {
	users, err := h.collaboratorService.ListCollaborators(r.Context(), userID, workspaceID)
	if err != nil {
		writeError(w, "Failed to list collaborators", err)
		return
	}
	resp := make([]dto.UserResponseDTO, 0, len(users))
	for i := range users {
		resp = append(resp, userResponse(&users[i]))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// removeCollaborator godoc
// @Summary Unshare a workspace
// @Description Removes a collaborator from a workspace. The owner may remove anyone; a collaborator may remove themselves. Removing a user who is not a collaborator succeeds with no effect.
// @Tags collaborators
// @Param workspaceId path string true "Workspace ID"
// @Param userId path string true "User ID"
// @Success 204 {string} string "No Content"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 403 {string} string "Not allowed to remove this collaborator"
// @Failure 404 {string} string "Workspace not found"
// @Failure 500 {string} string "Failed to remove collaborator"
// @Router /collaborators/{workspaceId}/{userId} [delete]
func (h *CollaboratorHandler) removeCollaborator(w http.ResponseWriter, r *http.Request, userID, workspaceID, targetID string) {
	if err := h.collaboratorService.RemoveCollaborator(r.Context(), userID, workspaceID, targetID); err != nil {
		writeError(w, "Failed to remove collaborator", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CollaboratorHandler) handleCollaborators(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/collaborators/") {
		http.NotFound(w, r)
		return
	}
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/collaborators/")
	parts := strings.SplitN(rest, "/", 2)
	workspaceID := parts[0]
	if workspaceID == "" {
		http.NotFound(w, r)
		return
	}
	switch {
	case r.Method == http.MethodPost && len(parts) == 1:
		h.addCollaborators(w, r, userID, workspaceID)
	case r.Method == http.MethodGet && len(parts) == 1:
		h.listCollaborators(w, r, userID, workspaceID)
	case r.Method == http.MethodDelete && len(parts) == 2 && parts[1] != "":
		h.removeCollaborator(w, r, userID, workspaceID, parts[1])
	default:
		http.NotFound(w, r)
	}
}
