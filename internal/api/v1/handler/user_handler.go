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

// UserHandler handles user-related endpoints
type UserHandler struct {
	userService         service.UserService
	collaboratorService service.CollaboratorService
	validate            *validator.Validate
	logger              zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, collaboratorService service.CollaboratorService, validate *validator.Validate, logger zerolog.Logger) *UserHandler {
	return &UserHandler{userService: userService, collaboratorService: collaboratorService, validate: validate, logger: logger}
}

// RegisterRoutes mounts user routes. Signup is unauthenticated.
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/users", http.HandlerFunc(h.createUser))
	mux.Handle("/users/", authMw(http.HandlerFunc(h.handleUser)))
}

// createUser godoc
// @Summary Create a new user
// @Description Registers a new user account.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.UserCreateDTO true "User creation request"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 409 {string} string "Email already registered"
// @Failure 500 {string} string "Failed to create user"
// @Router /users [post]
func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/users" {
		http.NotFound(w, r)
		return
	}
	var req dto.UserCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	avatar := ""
	if req.AvatarURL != nil {
		avatar = *req.AvatarURL
	}
	user := &model.User{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: req.PasswordHash,
		AvatarURL:    avatar,
	}
	created, err := h.userService.CreateUser(r.Context(), user)
	if err != nil {
		writeError(w, "Failed to create user", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(userResponse(created))
}

// getMe godoc
// @Summary Get the authenticated user
// @Description Retrieves the caller's own profile.
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "User not found"
// @Failure 500 {string} string "Failed to retrieve user"
// @Router /users/me [get]
func (h *UserHandler) getMe(w http.ResponseWriter, r *http.Request, userID string) {
	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, "Failed to retrieve user", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(userResponse(user))
}

// searchUsers godoc
// @Summary Search users by email
// @Description Finds collaborator candidates whose email contains the query, excluding the caller. At most ten results.
// @Tags users
// @Produce json
// @Param email query string true "Email substring"
// @Success 200 {array} dto.UserResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to search users"
// @Router /users/search [get]
func (h *UserHandler) searchUsers(w http.ResponseWriter, r *http.Request, userID string) {
	query := r.URL.Query().Get("email")
	users, err := h.collaboratorService.SearchUsersByEmail(r.Context(), userID, query)
	if err != nil {
		writeError(w, "Failed to search users", err)
		return
	}
	resp := make([]dto.UserResponseDTO, 0, len(users))
	for i := range users {
		resp = append(resp, userResponse(&users[i]))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *UserHandler) handleUser(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/users/") {
		http.NotFound(w, r)
		return
	}
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/users/")
	switch {
	case r.Method == http.MethodGet && rest == "me":
		h.getMe(w, r, userID)
	case r.Method == http.MethodGet && rest == "search":
		h.searchUsers(w, r, userID)
	default:
		http.NotFound(w, r)
	}
}
