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

// FileHandler handles file-related endpoints. Mutations carry the caller's
// realtime client ID in the X-Client-ID header so the change is not echoed
// back to the connection that made it.
type FileHandler struct {
	fileService service.FileService
	validate    *validator.Validate
	logger      zerolog.Logger
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(fileService service.FileService, validate *validator.Validate, logger zerolog.Logger) *FileHandler {
	return &FileHandler{fileService: fileService, validate: validate, logger: logger}
}

// RegisterRoutes mounts file routes
func (h *FileHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/files", authMw(http.HandlerFunc(h.handleFiles)))
	mux.Handle("/files/", authMw(http.HandlerFunc(h.handleFile)))
}

func fileResponse(f *model.File) dto.FileResponseDTO {
	return dto.FileResponseDTO{
		ID:          f.ID,
		WorkspaceID: f.WorkspaceID,
		FolderID:    f.FolderID,
		Title:       f.Title,
		IconID:      f.IconID,
		Data:        f.Data,
		InTrash:     f.InTrash,
		BannerURL:   f.BannerURL,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// createFile godoc
// @Summary Create a new file
// @Description Creates a file in a folder and broadcasts the insert to other clients in the workspace room.
// @Tags files
// @Accept json
// @Produce json
// @Param X-Client-ID header string false "Realtime client ID of the caller"
// @Param file body dto.FileCreateDTO true "File creation request"
// @Success 201 {object} dto.FileResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Folder not found"
// @Failure 500 {string} string "Failed to create file"
// @Router /files [post]
func (h *FileHandler) createFile(w http.ResponseWriter, r *http.Request, userID string) {
	var req dto.FileCreateDTO
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
	file := &model.File{
		WorkspaceID: req.WorkspaceID,
		FolderID:    req.FolderID,
		Title:       req.Title,
		IconID:      req.IconID,
		Data:        data,
	}
	created, err := h.fileService.CreateFile(r.Context(), userID, r.Header.Get("X-Client-ID"), file)
	if err != nil {
		writeError(w, "Failed to create file", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(fileResponse(created))
}

// listFiles godoc
// @Summary List files in a folder
// @Description Lists a folder's files ordered by creation time.
// @Tags files
// @Produce json
// @Param folder_id query string true "Folder ID"
// @Success 200 {array} dto.FileResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Folder not found"
// @Failure 500 {string} string "Failed to list files"
// @Router /files [get]
func (h *FileHandler) listFiles(w http.ResponseWriter, r *http.Request, userID string) {
	folderID := r.URL.Query().Get("folder_id")
	if folderID == "" {
		http.Error(w, "Missing folder_id query parameter", http.StatusBadRequest)
		return
	}
	files, err := h.fileService.ListFiles(r.Context(), userID, folderID)
	if err != nil {
		writeError(w, "Failed to list files", err)
		return
	}
	resp := make([]dto.FileResponseDTO, 0, len(files))
	for i := range files {
		resp = append(resp, fileResponse(&files[i]))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// getFile godoc
// @Summary Get a file
// @Description Retrieves a file by its ID.
// @Tags files
// @Produce json
// @Param fileId path string true "File ID"
// @Success 200 {object} dto.FileResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "File not found"
// @Failure 500 {string} string "Failed to retrieve file"
// @Router /files/{fileId} [get]
func (h *FileHandler) getFile(w http.ResponseWriter, r *http.Request, userID, fileID string) {
	file, err := h.fileService.GetFile(r.Context(), userID, fileID)
	if err != nil {
		writeError(w, "Failed to retrieve file", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fileResponse(file))
}

// updateFile godoc
// @Summary Update a file
// @Description Applies a partial update to a file and broadcasts it to other clients in the workspace room.
// @Tags files
// @Accept json
// @Produce json
// @Param X-Client-ID header string false "Realtime client ID of the caller"
// @Param fileId path string true "File ID"
// @Param file body dto.FileUpdateDTO true "File update request"
// @Success 200 {object} dto.FileResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "File not found"
// @Failure 500 {string} string "Failed to update file"
// @Router /files/{fileId} [put]
func (h *FileHandler) updateFile(w http.ResponseWriter, r *http.Request, userID, fileID string) {
	var req dto.FileUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	patch := model.FilePatch{
		Title:     req.Title,
		IconID:    req.IconID,
		Data:      req.Data,
		InTrash:   req.InTrash,
		BannerURL: req.BannerURL,
	}
	updated, err := h.fileService.UpdateFile(r.Context(), userID, r.Header.Get("X-Client-ID"), fileID, patch)
	if err != nil {
		writeError(w, "Failed to update file", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fileResponse(updated))
}

// deleteFile godoc
// @Summary Delete a file
// @Description Deletes a file and broadcasts the removal to other clients in the workspace room.
// @Tags files
// @Param X-Client-ID header string false "Realtime client ID of the caller"
// @Param fileId path string true "File ID"
// @Success 204 {string} string "No Content"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "File not found"
// @Failure 500 {string} string "Failed to delete file"
// @Router /files/{fileId} [delete]
func (h *FileHandler) deleteFile(w http.ResponseWriter, r *http.Request, userID, fileID string) {
	if err := h.fileService.DeleteFile(r.Context(), userID, r.Header.Get("X-Client-ID"), fileID); err != nil {
		writeError(w, "Failed to delete file", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FileHandler) handleFiles(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/files" {
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
		h.createFile(w, r, userID)
	case http.MethodGet:
		h.listFiles(w, r, userID)
	default:
		http.NotFound(w, r)
	}
}

func (h *FileHandler) handleFile(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/files/") {
		http.NotFound(w, r)
		return
	}
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/files/")
	switch r.Method {
	case http.MethodGet:
		h.getFile(w, r, userID, rest)
	case http.MethodPut:
		h.updateFile(w, r, userID, rest)
	case http.MethodDelete:
		h.deleteFile(w, r, userID, rest)
	default:
		http.NotFound(w, r)
	}
}
