// Package repositories implements metadata persistence on MySQL
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/slickclip/backend/internal/models"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// videoRepository implements video metadata repository operations
type videoRepository struct {
	db *sql.DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *sql.DB) *videoRepository {
	return &videoRepository{
		db: db,
	}
}

// Create inserts a new video record into the database
func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (id, user_id, title, file_path, size, duration, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		video.ID,
		video.UserID,
		video.Title,
		video.FilePath,
		video.Size,
		video.Duration,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// GetByID retrieves a video by ID
func (r *videoRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	query := `
		SELECT user_id, title, file_path, size, duration, created_at, updated_at
		FROM videos
		WHERE id = ?
		LIMIT 1
	`

	video := &models.Video{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&video.UserID,
		&video.Title,
		&video.FilePath,
		&video.Size,
		&video.Duration,
		&video.CreatedAt,
		&video.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video by id: %w", err)
	}

	video.ID = id
	return video, nil
}

// ListByUser retrieves all videos owned by the given user, newest first
func (r *videoRepository) ListByUser(ctx context.Context, userID string) ([]*models.Video, error) {
	query := `
		SELECT id, title, file_path, size, duration, created_at, updated_at
		FROM videos
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	videos := make([]*models.Video, 0)
	for rows.Next() {
		video := &models.Video{UserID: userID}
		if err := rows.Scan(
			&video.ID,
			&video.Title,
			&video.FilePath,
			&video.Size,
			&video.Duration,
			&video.CreatedAt,
			&video.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan video row: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate video rows: %w", err)
	}

	return videos, nil
}

// DeleteByID deletes a video record by ID
func (r *videoRepository) DeleteByID(ctx context.Context, id string) error {
	query := `DELETE FROM videos WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
