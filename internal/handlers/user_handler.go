package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/slickclip/backend/internal/models"
	"go.uber.org/zap"
)

// UserService defines the interface for user service operations
type UserService interface {
	// Method CreateUser registers a new account and issues its API token.
	CreateUser(ctx context.Context, username string) (*models.User, error)
	// Method GetUser retrieves a user by ID, without the API token.
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	BaseHandler
	userService UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: BaseHandler{Logger: logger},
		userService: userService,
	}
}

// RegisterRoutes registers all user handler routes
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/user", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/{id}", h.GetUser)
	})
}

// createUserRequest is the JSON body of a user creation call
type createUserRequest struct {
	Username string `json:"username"`
}

// CreateUser handles POST /user
// @Summary Create a user
// @Description Register a new account. The response contains the API token; it is shown only once.
// @Tags users
// @Accept json
// @Produce json
// @Param body body createUserRequest true "Username"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]string "Missing or duplicate username"
// @Router /user [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "Username is required")
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req.Username)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, user)
}

// GetUser handles GET /user/{id}
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]string "User not found"
// @Router /user/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}
