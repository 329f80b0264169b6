package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/slickclip/backend/internal/models"
)

// userRepository implements user repository operations
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{
		db: db,
	}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, api_token, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.APIToken,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT username, created_at
		FROM users
		WHERE id = ?
		LIMIT 1
	`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.Username,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	user.ID = id
	return user, nil
}

// GetByAPIToken retrieves a user by API token
func (r *userRepository) GetByAPIToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		SELECT id, username, created_at
		FROM users
		WHERE api_token = ?
		LIMIT 1
	`

	user := &models.User{APIToken: token}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&user.ID,
		&user.Username,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by api token: %w", err)
	}

	return user, nil
}

// ExistsByUsername checks if a user with such username exists
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE username = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}

	return count > 0, nil
}
