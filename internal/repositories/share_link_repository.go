package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/slickclip/backend/internal/models"
)

// shareLinkRepository implements share link repository operations
type shareLinkRepository struct {
	db *sql.DB
}

// NewShareLinkRepository creates a new share link repository
func NewShareLinkRepository(db *sql.DB) *shareLinkRepository {
	return &shareLinkRepository{
		db: db,
	}
}

// Create inserts a new share link record into the database
func (r *shareLinkRepository) Create(ctx context.Context, link *models.ShareLink) error {
	query := `
		INSERT INTO share_links (id, token, video_id, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		link.ID,
		link.Token,
		link.VideoID,
		link.ExpiresAt,
		link.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create share link: %w", err)
	}

	return nil
}

// GetByToken retrieves a share link by its public token
func (r *shareLinkRepository) GetByToken(ctx context.Context, token string) (*models.ShareLink, error) {
	query := `
		SELECT id, video_id, expires_at, created_at
		FROM share_links
		WHERE token = ?
		LIMIT 1
	`

	link := &models.ShareLink{Token: token}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&link.ID,
		&link.VideoID,
		&link.ExpiresAt,
		&link.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share link by token: %w", err)
	}

	return link, nil
}
