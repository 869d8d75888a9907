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

// FolderHandler handles folder-related endpoints
type FolderHandler struct {
	folderService service.FolderService
	validate      *validator.Validate
	logger        zerolog.Logger
}

// NewFolderHandler creates a new FolderHandler
func NewFolderHandler(folderService service.FolderService, validate *validator.Validate, logger zerolog.Logger) *FolderHandler {
	return &FolderHandler{folderService: folderService, validate: validate, logger: logger}
}

// RegisterRoutes mounts folder routes
func (h *FolderHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/folders", authMw(http.HandlerFunc(h.handleFolders)))
	mux.Handle("/folders/", authMw(http.HandlerFunc(h.handleFolder)))
}

func folderResponse(f *model.Folder) dto.FolderResponseDTO {
	return dto.FolderResponseDTO{
		ID:          f.ID,
		WorkspaceID: f.WorkspaceID,
		Title:       f.Title,
		IconID:      f.IconID,
		Data:        f.Data,
		InTrash:     f.InTrash,
		BannerURL:   f.BannerURL,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// createFolder godoc
// @Summary Create a new folder
// @Description Creates a folder in a workspace. Blocked once the free plan folder limit is reached unless the workspace owner has an active subscription.
// @Tags folders
// @Accept json
// @Produce json
// @Param folder body dto.FolderCreateDTO true "Folder creation request"
// @Success 201 {object} dto.FolderResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 402 {string} string "Folder limit reached"
// @Failure 404 {string} string "Workspace not found"
// @Failure 500 {string} string "Failed to create folder"
// @Router /folders [post]
func (h *FolderHandler) createFolder(w http.ResponseWriter, r *http.Request, userID string) {
	var req dto.FolderCreateDTO
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
	folder := &model.Folder{
		WorkspaceID: req.WorkspaceID,
		Title:       req.Title,
		IconID:      req.IconID,
		Data:        data,
	}
	created, err := h.folderService.CreateFolder(r.Context(), userID, folder)
	if err != nil {
		writeError(w, "Failed to create folder", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(folderResponse(created))
}

// listFolders godoc
// @Summary List folders in a workspace
// @Description Lists a workspace's folders ordered by creation time.
// @Tags folders
// @Produce json
// @Param workspace_id query string true "Workspace ID"
// @Success 200 {array} dto.FolderResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Workspace not found"
// @Failure 500 {string} string "Failed to list folders"
// @Router /folders [get]
func (h *FolderHandler) listFolders(w http.ResponseWriter, r *http.Request, userID string) {
	workspaceID := r.URL.Query().Get("workspace_id")
	if workspaceID == "" {
		http.Error(w, "Missing workspace_id query parameter", http.StatusBadRequest)
		return
	}
	folders, err := h.folderService.ListFolders(r.Context(), userID, workspaceID)
	if err != nil {
		writeError(w, "Failed to list folders", err)
		return
	}
	resp := make([]dto.FolderResponseDTO, 0, len(folders))
	for i := range folders {
		resp = append(resp, folderResponse(&folders[i]))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// getUsage godoc
// @Summary Get folder quota usage
// @Description Reports the workspace's folder count as a percentage of the free plan limit.
// @Tags folders
// @Produce json
// @Param workspace_id query string true "Workspace ID"
// @Success 200 {object} dto.UsageResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Workspace not found"
// @Failure 500 {string} string "Failed to compute usage"
// @Router /folders/usage [get]
func (h *FolderHandler) getUsage(w http.ResponseWriter, r *http.Request, userID string) {
	workspaceID := r.URL.Query().Get("workspace_id")
	if workspaceID == "" {
		http.Error(w, "Missing workspace_id query parameter", http.StatusBadRequest)
		return
	}
	usage, err := h.folderService.Usage(r.Context(), userID, workspaceID)
	if err != nil {
		writeError(w, "Failed to compute usage", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto.UsageResponseDTO{WorkspaceID: workspaceID, UsagePercentage: usage})
}

// getFolder godoc
// @Summary Get a folder
// @Description Retrieves a folder by its ID.
// @Tags folders
// @Produce json
// @Param folderId path string true "Folder ID"
// @Success 200 {object} dto.FolderResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Folder not found"
// @Failure 500 {string} string "Failed to retrieve folder"
// @Router /folders/{folderId} [get]
func (h *FolderHandler) getFolder(w http.ResponseWriter, r *http.Request, userID, folderID string) {
	folder, err := h.folderService.GetFolderDetails(r.Context(), userID, folderID)
	if err != nil {
		writeError(w, "Failed to retrieve folder", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(folderResponse(folder))
}

// updateFolder godoc
// @Summary Update a folder
// @Description Applies a partial update to a folder.
// @Tags folders
// @Accept json
// @Produce json
// @Param folderId path string true "Folder ID"
// @Param folder body dto.FolderUpdateDTO true "Folder update request"
// @Success 200 {object} dto.FolderResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Folder not found"
// @Failure 500 {string} string "Failed to update folder"
// @Router /folders/{folderId} [put]
func (h *FolderHandler) updateFolder(w http.ResponseWriter, r *http.Request, userID, folderID string) {
	var req dto.FolderUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	patch := model.FolderPatch{
		Title:     req.Title,
		IconID:    req.IconID,
		Data:      req.Data,
		InTrash:   req.InTrash,
		BannerURL: req.BannerURL,
	}
	updated, err := h.folderService.UpdateFolder(r.Context(), userID, folderID, patch)
	if err != nil {
		writeError(w, "Failed to update folder", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(folderResponse(updated))
}

// deleteFolder godoc
// @Summary Delete a folder
// @Description Deletes a folder and all files inside it.
// @Tags folders
// @Param folderId path string true "Folder ID"
// @Success 204 {string} string "No Content"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Folder not found"
// @Failure 500 {string} string "Failed to delete folder"
// @Router /folders/{folderId} [delete]
func (h *FolderHandler) deleteFolder(w http.ResponseWriter, r *http.Request, userID, folderID string) {
	if err := h.folderService.DeleteFolder(r.Context(), userID, folderID); err != nil {
		writeError(w, "Failed to delete folder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FolderHandler) handleFolders(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/folders" {
		http.NotFound(w, r)
		return
	}
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	switch r.Method {
	case http.MethodPost:
		h.createFolder(w, r, userID)
	case http.MethodGet:
		h.listFolders(w, r, userID)
	default:
		http.NotFound(w, r)
	}
}

func (h *FolderHandler) handleFolder(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/folders/") {
		http.NotFound(w, r)
		return
	}
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/folders/")
	if rest == "usage" && r.Method == http.MethodGet {
		h.getUsage(w, r, userID)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getFolder(w, r, userID, rest)
	case http.MethodPut:
		h.updateFolder(w, r, userID, rest)
	case http.MethodDelete:
		h.deleteFolder(w, r, userID, rest)
	default:
		http.NotFound(w, r)
	}
}
