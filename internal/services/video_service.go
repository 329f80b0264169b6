// Package services holds the business logic for video assets and users
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/slickclip/backend/internal/apperrors"
	"github.com/slickclip/backend/internal/config"
	"github.com/slickclip/backend/internal/models"
	"github.com/slickclip/backend/internal/repositories"
)

// VideoRepository is the interface that wraps methods for video metadata data access
type VideoRepository interface {
	// Method Create inserts a new video record into the database.
	//
	// "video" parameter is used to create a new video record.
	//
	// If some error occurs during creation, the error will be returned.
	Create(ctx context.Context, video *models.Video) error
	// Method GetByID retrieves a video by ID.
	//
	// If a video with such ID does not exist, repositories.ErrNotFound
	// will be returned together with "nil" value.
	GetByID(ctx context.Context, id string) (*models.Video, error)
	// Method ListByUser retrieves all videos owned by the given user.
	ListByUser(ctx context.Context, userID string) ([]*models.Video, error)
	// Method DeleteByID deletes a video record by ID.
	DeleteByID(ctx context.Context, id string) error
}

// ShareLinkRepository is the interface that wraps methods for share link data access
type ShareLinkRepository interface {
	Create(ctx context.Context, link *models.ShareLink) error
	GetByToken(ctx context.Context, token string) (*models.ShareLink, error)
}

// FileStore is the interface for per-user file storage layout operations
type FileStore interface {
	// NewFileName generates a collision-resistant name from the original name
	NewFileName(originalName string) string
	// RelPath returns a file's path in a user's directory relative to the base
	RelPath(userID, fileName string) string
	// Resolve turns a stored relative path into an absolute path
	Resolve(relPath string) string
	// EnsureUserDir creates the user's directory if needed and returns it
	EnsureUserDir(userID string) (string, error)
	// Create creates a stored file for writing, ensuring its directory exists
	Create(relPath string) (io.WriteCloser, error)
	// Open opens a stored file for reading
	Open(relPath string) (*os.File, error)
	// Remove deletes a stored file
	Remove(relPath string) error
	// Stat returns file info for a stored file
	Stat(relPath string) (os.FileInfo, error)
}

// ClipEngine is the interface for external transcoder operations
type ClipEngine interface {
	// Probe returns a media file's duration in seconds
	Probe(ctx context.Context, path string) (float64, error)
	// Trim produces the subrange [start, end) of the input at outputPath
	Trim(ctx context.Context, inputPath, outputPath string, start, end float64) error
	// Merge concatenates the inputs, preserving order, into outputPath
	Merge(ctx context.Context, inputPaths []string, outputPath string) error
}

// ShareLinkInfo is the caller-facing view of a created share link
type ShareLinkInfo struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// VideoService orchestrates uploads, clip operations and share links under
// per-user ownership and policy checks
type VideoService struct {
	videoRepo VideoRepository
	shareRepo ShareLinkRepository
	store     FileStore
	engine    ClipEngine
	policy    *config.ClipPolicy
	baseURL   string
}

// NewVideoService creates a new video service
func NewVideoService(videoRepo VideoRepository, shareRepo ShareLinkRepository, store FileStore, engine ClipEngine, policy *config.ClipPolicy, baseURL string) *VideoService {
	return &VideoService{
		videoRepo: videoRepo,
		shareRepo: shareRepo,
		store:     store,
		engine:    engine,
		policy:    policy,
		baseURL:   baseURL,
	}
}

// GetVideo retrieves a video owned by the caller
func (s *VideoService) GetVideo(ctx context.Context, userID, videoID string) (*models.Video, error) {
	return s.getOwnedVideo(ctx, userID, videoID)
}

// ListVideos retrieves all videos owned by the caller
func (s *VideoService) ListVideos(ctx context.Context, userID string) ([]*models.Video, error) {
	videos, err := s.videoRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

// Upload stores the uploaded file under the caller's directory, probes it
// for duration and persists the metadata record. The file is removed again
// if probing or persistence fails, so no record ever points at a missing
// file and no invalid file survives intake.
func (s *VideoService) Upload(ctx context.Context, userID string, src io.Reader, originalName string) (*models.Video, error) {
	fileName := s.store.NewFileName(originalName)
	relPath := s.store.RelPath(userID, fileName)

	writer, err := s.store.Create(relPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	size, err := io.Copy(writer, src)
	closeErr := writer.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		s.store.Remove(relPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	duration, err := s.engine.Probe(ctx, s.store.Resolve(relPath))
	if err != nil {
		s.store.Remove(relPath)
		return nil, apperrors.Validation("Invalid video file").WithCause(err)
	}

	now := time.Now()
	video := &models.Video{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     fileName,
		FilePath:  relPath,
		Size:      size,
		Duration:  duration,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		s.store.Remove(relPath)
		return nil, fmt.Errorf("failed to persist video: %w", err)
	}

	return video, nil
}

// Trim produces a new asset covering [start, end) of an existing one.
// At least one bound must be supplied; omitted bounds default to the start
// and full duration of the source. The source asset is untouched.
func (s *VideoService) Trim(ctx context.Context, userID, videoID string, start, end *float64) (*models.Video, error) {
	if start == nil && end == nil {
		return nil, apperrors.BadRequest("Start or end is required")
	}

	video, err := s.getOwnedVideo(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}

	effStart := 0.0
	if start != nil {
		effStart = *start
	}
	effEnd := video.Duration
	if end != nil {
		effEnd = *end
	}

	if effStart < 0 {
		return nil, apperrors.BadRequest("Start must not be negative")
	}
	if effEnd >= video.Duration {
		return nil, apperrors.BadRequest("End must be less than video duration")
	}
	if start != nil && end != nil && effStart >= effEnd {
		return nil, apperrors.BadRequest("Start must be less than end")
	}
	if effEnd-effStart < s.policy.MinDuration {
		return nil, apperrors.BadRequest("trimmed duration shorter than minimum")
	}

	if _, err := s.store.EnsureUserDir(userID); err != nil {
		return nil, fmt.Errorf("failed to prepare output directory: %w", err)
	}

	outName := s.store.NewFileName("trimmed-" + video.Title)
	outRel := s.store.RelPath(userID, outName)

	if err := s.engine.Trim(ctx, s.store.Resolve(video.FilePath), s.store.Resolve(outRel), effStart, effEnd); err != nil {
		s.store.Remove(outRel)
		return nil, apperrors.Processing("Failed to trim video").WithCause(err)
	}

	return s.persistDerived(ctx, userID, outName, outRel, effEnd-effStart)
}

// Merge concatenates two or more of the caller's assets, in input order,
// into a new asset whose duration is the sum of the inputs.
func (s *VideoService) Merge(ctx context.Context, userID string, videoIDs []string) (*models.Video, error) {
	if len(videoIDs) < 2 {
		return nil, apperrors.BadRequest("At least two videos are required")
	}

	seen := make(map[string]struct{}, len(videoIDs))
	for _, id := range videoIDs {
		if _, dup := seen[id]; dup {
			return nil, apperrors.BadRequest("Duplicate video ids are not allowed")
		}
		seen[id] = struct{}{}
	}

	inputPaths := make([]string, 0, len(videoIDs))
	totalDuration := 0.0
	for _, id := range videoIDs {
		video, err := s.videoRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, apperrors.BadRequest(fmt.Sprintf("Video %s not found", id))
			}
			return nil, fmt.Errorf("failed to get video: %w", err)
		}
		if video.UserID != userID {
			return nil, apperrors.Forbidden("Access denied")
		}
		inputPaths = append(inputPaths, s.store.Resolve(video.FilePath))
		totalDuration += video.Duration
	}

	if totalDuration > s.policy.MaxDuration {
		return nil, apperrors.BadRequest("merged duration exceeds maximum")
	}

	if _, err := s.store.EnsureUserDir(userID); err != nil {
		return nil, fmt.Errorf("failed to prepare output directory: %w", err)
	}

	outName := s.store.NewFileName(fmt.Sprintf("merged-%d-videos.mp4", len(videoIDs)))
	outRel := s.store.RelPath(userID, outName)

	if err := s.engine.Merge(ctx, inputPaths, s.store.Resolve(outRel)); err != nil {
		s.store.Remove(outRel)
		return nil, apperrors.Processing("Failed to merge videos").WithCause(err)
	}

	return s.persistDerived(ctx, userID, outName, outRel, totalDuration)
}

// Delete removes a video's backing file and metadata record. The file goes
// first; a file missing from disk is tolerated so a previously half-failed
// delete can still be completed.
func (s *VideoService) Delete(ctx context.Context, userID, videoID string) error {
	video, err := s.getOwnedVideo(ctx, userID, videoID)
	if err != nil {
		return err
	}

	if err := s.store.Remove(video.FilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if err := s.videoRepo.DeleteByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Video not found")
		}
		return fmt.Errorf("failed to delete video record: %w", err)
	}

	return nil
}

// CreateShareLink issues an expiring public download link for one of the
// caller's videos. A video that does not exist or is not owned by the
// caller yields the same not-found outcome.
func (s *VideoService) CreateShareLink(ctx context.Context, userID, videoID string, expiresIn time.Duration) (*ShareLinkInfo, error) {
	if expiresIn <= 0 {
		return nil, apperrors.BadRequest("Expiration must be positive")
	}

	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("Video not found")
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	if video.UserID != userID {
		return nil, apperrors.NotFound("Video not found")
	}

	token, err := newShareToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate share token: %w", err)
	}

	link := &models.ShareLink{
		ID:        uuid.New().String(),
		Token:     token,
		VideoID:   videoID,
		ExpiresAt: time.Now().Add(expiresIn),
		CreatedAt: time.Now(),
	}

	if err := s.shareRepo.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to persist share link: %w", err)
	}

	return &ShareLinkInfo{
		ID:        link.ID,
		URL:       fmt.Sprintf("%s/share/%s", s.baseURL, token),
		ExpiresAt: link.ExpiresAt,
	}, nil
}

// RedeemShareLink resolves a public token to the shared video. Unknown
// tokens are not found; known but expired tokens are gone, a distinct
// outcome. Expired links are never evicted, only refused.
func (s *VideoService) RedeemShareLink(ctx context.Context, token string) (*models.Video, error) {
	link, err := s.shareRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("Share link not found")
		}
		return nil, fmt.Errorf("failed to get share link: %w", err)
	}

	if time.Now().After(link.ExpiresAt) {
		return nil, apperrors.Gone("Share link expired")
	}

	video, err := s.videoRepo.GetByID(ctx, link.VideoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("Video not found")
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return video, nil
}

// OpenFile opens a video's backing file for streaming
func (s *VideoService) OpenFile(video *models.Video) (*os.File, error) {
	return s.store.Open(video.FilePath)
}

// getOwnedVideo loads a video and checks it against the caller's identity.
// Ownership is re-checked at every point of use, never carried over from
// an earlier check.
func (s *VideoService) getOwnedVideo(ctx context.Context, userID, videoID string) (*models.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("Video not found")
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	if video.UserID != userID {
		return nil, apperrors.Forbidden("Access denied")
	}

	return video, nil
}

// persistDerived stats a produced output file and persists its metadata
// record. The output file is removed before any error propagates, so a
// failed clip operation leaves neither an orphaned file nor a record.
func (s *VideoService) persistDerived(ctx context.Context, userID, title, relPath string, duration float64) (*models.Video, error) {
	info, err := s.store.Stat(relPath)
	if err != nil {
		s.store.Remove(relPath)
		return nil, fmt.Errorf("failed to stat output file: %w", err)
	}

	now := time.Now()
	video := &models.Video{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		FilePath:  relPath,
		Size:      info.Size(),
		Duration:  duration,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		s.store.Remove(relPath)
		return nil, fmt.Errorf("failed to persist video: %w", err)
	}

	return video, nil
}

// newShareToken generates an unguessable share token
func newShareToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
