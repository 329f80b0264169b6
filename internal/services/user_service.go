package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/slickclip/backend/internal/apperrors"
	"github.com/slickclip/backend/internal/models"
	"github.com/slickclip/backend/internal/repositories"
)

// UserRepository is the interface that wraps methods for user data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	Create(ctx context.Context, user *models.User) error
	// Method GetByID retrieves a user by ID.
	//
	// If a user with such ID does not exist, repositories.ErrNotFound
	// will be returned together with "nil" value.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Method ExistsByUsername checks if a user with such username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// UserService handles account creation and lookup
type UserService struct {
	userRepo UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// CreateUser registers a new account and issues its API token
func (s *UserService) CreateUser(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, apperrors.BadRequest("Username is required")
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, apperrors.BadRequest("Username already exists")
	}

	token, err := generateAPIToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate api token: %w", err)
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Username:  username,
		APIToken:  token,
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID. The API token is not included.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.APIToken = ""
	return user, nil
}

// generateAPIToken generates an opaque bearer token for a new account
func generateAPIToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
