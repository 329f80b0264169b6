package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/slickclip/backend/internal/apperrors"
	"github.com/slickclip/backend/internal/config"
	"github.com/slickclip/backend/internal/models"
	"github.com/slickclip/backend/internal/repositories"
	"github.com/slickclip/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockVideoRepository is a mock implementation of VideoRepository
type mockVideoRepository struct {
	videos    map[string]*models.Video
	created   []*models.Video
	createErr error
	getErr    error
	listErr   error
	deleteErr error
	deleted   []string
}

func newMockVideoRepository(videos ...*models.Video) *mockVideoRepository {
	m := &mockVideoRepository{videos: make(map[string]*models.Video)}
	for _, v := range videos {
		m.videos[v.ID] = v
	}
	return m
}

func (m *mockVideoRepository) Create(ctx context.Context, video *models.Video) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, video)
	m.videos[video.ID] = video
	return nil
}

func (m *mockVideoRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if v, ok := m.videos[id]; ok {
		return v, nil
	}
	return nil, repositories.ErrNotFound
}

func (m *mockVideoRepository) ListByUser(ctx context.Context, userID string) ([]*models.Video, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]*models.Video, 0)
	for _, v := range m.videos {
		if v.UserID == userID {
			result = append(result, v)
		}
	}
	return result, nil
}

func (m *mockVideoRepository) DeleteByID(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.videos, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// mockShareLinkRepository is a mock implementation of ShareLinkRepository
type mockShareLinkRepository struct {
	links     map[string]*models.ShareLink
	createErr error
	created   []*models.ShareLink
}

func newMockShareLinkRepository(links ...*models.ShareLink) *mockShareLinkRepository {
	m := &mockShareLinkRepository{links: make(map[string]*models.ShareLink)}
	for _, l := range links {
		m.links[l.Token] = l
	}
	return m
}

func (m *mockShareLinkRepository) Create(ctx context.Context, link *models.ShareLink) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, link)
	m.links[link.Token] = link
	return nil
}

func (m *mockShareLinkRepository) GetByToken(ctx context.Context, token string) (*models.ShareLink, error) {
	if l, ok := m.links[token]; ok {
		return l, nil
	}
	return nil, repositories.ErrNotFound
}

// mockClipEngine is a mock implementation of ClipEngine. Trim and Merge
// write the output file so the service can stat it, mirroring ffmpeg.
type mockClipEngine struct {
	duration     float64
	probeErr     error
	trimErr      error
	mergeErr     error
	trimCalled   bool
	mergeCalled  bool
	mergedInputs []string
}

func (m *mockClipEngine) Probe(ctx context.Context, path string) (float64, error) {
	if m.probeErr != nil {
		return 0, m.probeErr
	}
	return m.duration, nil
}

func (m *mockClipEngine) Trim(ctx context.Context, inputPath, outputPath string, start, end float64) error {
	m.trimCalled = true
	if m.trimErr != nil {
		// Leave a partial file behind, like an interrupted ffmpeg run
		os.WriteFile(outputPath, []byte("partial"), 0644)
		return m.trimErr
	}
	return os.WriteFile(outputPath, []byte("trimmed content"), 0644)
}

func (m *mockClipEngine) Merge(ctx context.Context, inputPaths []string, outputPath string) error {
	m.mergeCalled = true
	m.mergedInputs = inputPaths
	if m.mergeErr != nil {
		os.WriteFile(outputPath, []byte("partial"), 0644)
		return m.mergeErr
	}
	return os.WriteFile(outputPath, []byte("merged content"), 0644)
}

func testPolicy() *config.ClipPolicy {
	return &config.ClipPolicy{
		MaxSizeBytes: 500 * 1024 * 1024,
		MinDuration:  1,
		MaxDuration:  3600,
	}
}

// newTestService wires a service over a real layout in a temp dir
func newTestService(t *testing.T, videoRepo *mockVideoRepository, shareRepo *mockShareLinkRepository, engine *mockClipEngine) (*VideoService, *storage.Layout) {
	t.Helper()
	layout := storage.NewLayout(t.TempDir())
	svc := NewVideoService(videoRepo, shareRepo, layout, engine, testPolicy(), "http://localhost:8080")
	return svc, layout
}

// seedVideo creates a stored file plus matching metadata record
func seedVideo(t *testing.T, repo *mockVideoRepository, layout *storage.Layout, id, userID string, duration float64) *models.Video {
	t.Helper()
	rel := layout.RelPath(userID, id+".mp4")
	_, err := layout.EnsureUserDir(userID)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(layout.Resolve(rel), []byte("source content"), 0644))

	video := &models.Video{
		ID:        id,
		UserID:    userID,
		Title:     id + ".mp4",
		FilePath:  rel,
		Size:      14,
		Duration:  duration,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	repo.videos[id] = video
	return video
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestVideoService_Upload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := newMockVideoRepository()
		engine := &mockClipEngine{duration: 10.5}
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), engine)

		video, err := svc.Upload(context.Background(), "user-1", strings.NewReader("video bytes"), "clip.mp4")

		require.NoError(t, err)
		assert.Equal(t, "user-1", video.UserID)
		assert.Equal(t, int64(len("video bytes")), video.Size)
		assert.Equal(t, 10.5, video.Duration)
		assert.Contains(t, video.Title, "clip.mp4")
		assert.NotEmpty(t, video.ID)

		// The stored file must exist and match the metadata path
		_, statErr := layout.Stat(video.FilePath)
		assert.NoError(t, statErr)
		require.Len(t, repo.created, 1)
	})

	t.Run("probe failure removes the file", func(t *testing.T) {
		repo := newMockVideoRepository()
		engine := &mockClipEngine{probeErr: errors.New("moov atom not found")}
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), engine)

		video, err := svc.Upload(context.Background(), "user-1", strings.NewReader("not a video"), "clip.mp4")

		require.Error(t, err)
		assert.Nil(t, video)
		status, message := apperrors.StatusOf(err)
		assert.Equal(t, 400, status)
		assert.Equal(t, "Invalid video file", message)
		assert.Empty(t, repo.created)
		assertUserDirEmpty(t, layout, "user-1")
	})

	t.Run("persistence failure removes the file", func(t *testing.T) {
		repo := newMockVideoRepository()
		repo.createErr = errors.New("database error")
		engine := &mockClipEngine{duration: 5}
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), engine)

		_, err := svc.Upload(context.Background(), "user-1", strings.NewReader("video bytes"), "clip.mp4")

		require.Error(t, err)
		assertUserDirEmpty(t, layout, "user-1")
	})
}

func TestVideoService_Trim_Validation(t *testing.T) {
	tests := []struct {
		name            string
		start           *float64
		end             *float64
		expectedMessage string
	}{
		{
			name:            "no bounds supplied",
			expectedMessage: "Start or end is required",
		},
		{
			name:            "negative start",
			start:           floatPtr(-1),
			end:             floatPtr(5),
			expectedMessage: "Start must not be negative",
		},
		{
			name:            "end equal to duration",
			start:           floatPtr(1),
			end:             floatPtr(10),
			expectedMessage: "End must be less than video duration",
		},
		{
			name:            "end beyond duration",
			start:           floatPtr(1),
			end:             floatPtr(12),
			expectedMessage: "End must be less than video duration",
		},
		{
			name:            "start not before end",
			start:           floatPtr(5),
			end:             floatPtr(5),
			expectedMessage: "Start must be less than end",
		},
		{
			name:            "range shorter than minimum",
			start:           floatPtr(2),
			end:             floatPtr(2.5),
			expectedMessage: "trimmed duration shorter than minimum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockVideoRepository()
			engine := &mockClipEngine{}
			svc, layout := newTestService(t, repo, newMockShareLinkRepository(), engine)
			seedVideo(t, repo, layout, "vid-1", "user-1", 10)

			video, err := svc.Trim(context.Background(), "user-1", "vid-1", tt.start, tt.end)

			require.Error(t, err)
			assert.Nil(t, video)
			status, message := apperrors.StatusOf(err)
			assert.Equal(t, 400, status)
			assert.Equal(t, tt.expectedMessage, message)
			// Validation must fail before any file-producing side effect
			assert.False(t, engine.trimCalled)
		})
	}
}

func TestVideoService_Trim(t *testing.T) {
	t.Run("success produces new asset with exact duration", func(t *testing.T) {
		repo := newMockVideoRepository()
		engine := &mockClipEngine{}
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), engine)
		source := seedVideo(t, repo, layout, "vid-1", "user-1", 10)

		video, err := svc.Trim(context.Background(), "user-1", "vid-1", floatPtr(1), floatPtr(5))

		require.NoError(t, err)
		assert.Equal(t, 4.0, video.Duration)
		assert.Equal(t, "user-1", video.UserID)
		assert.NotEqual(t, source.ID, video.ID)
		assert.NotEqual(t, source.FilePath, video.FilePath)
		assert.Contains(t, video.Title, "trimmed-")

		// The source asset is untouched
		original, err := repo.GetByID(context.Background(), "vid-1")
		require.NoError(t, err)
		assert.Equal(t, 10.0, original.Duration)
		_, statErr := layout.Stat(original.FilePath)
		assert.NoError(t, statErr)
	})

	t.Run("defaults start to zero", func(t *testing.T) {
		repo := newMockVideoRepository()
		engine := &mockClipEngine{}
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), engine)
		seedVideo(t, repo, layout, "vid-1", "user-1", 10)

		video, err := svc.Trim(context.Background(), "user-1", "vid-1", nil, floatPtr(6))

		require.NoError(t, err)
		assert.Equal(t, 6.0, video.Duration)
	})

	t.Run("unknown video", func(t *testing.T) {
		repo := newMockVideoRepository()
		svc, _ := newTestService(t, repo, newMockShareLinkRepository(), &mockClipEngine{})

		_, err := svc.Trim(context.Background(), "user-1", "missing", floatPtr(1), floatPtr(5))

		require.Error(t, err)
		status, message := apperrors.StatusOf(err)
		assert.Equal(t, 404, status)
		assert.Equal(t, "Video not found", message)
	})

	t.Run("other user's video", func(t *testing.T) {
		repo := newMockVideoRepository()
		engine := &mockClipEngine{}
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), engine)
		seedVideo(t, repo, layout, "vid-1", "owner", 10)

		_, err := svc.Trim(context.Background(), "intruder", "vid-1", floatPtr(1), floatPtr(5))

		require.Error(t, err)
		status, _ := apperrors.StatusOf(err)
		assert.Equal(t, 403, status)
		assert.False(t, engine.trimCalled)
	})

	t.Run("engine failure removes partial output", func(t *testing.T) {
		repo := newMockVideoRepository()
		engine := &mockClipEngine{trimErr: errors.New("ffmpeg exited with code 1")}
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), engine)
		source := seedVideo(t, repo, layout, "vid-1", "user-1", 10)

		_, err := svc.Trim(context.Background(), "user-1", "vid-1", floatPtr(1), floatPtr(5))

		require.Error(t, err)
		status, _ := apperrors.StatusOf(err)
		assert.Equal(t, 500, status)
		assert.Len(t, repo.created, 0)
		// Only the source file remains in the user's directory
		assertUserDirFiles(t, layout, "user-1", filepath.Base(source.FilePath))
	})
}

func TestVideoService_Merge(t *testing.T) {
	t.Run("success sums durations and preserves order", func(t *testing.T) {
		repo := newMockVideoRepository()
		engine := &mockClipEngine{}
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), engine)
		v1 := seedVideo(t, repo, layout, "vid-1", "user-1", 10)
		v2 := seedVideo(t, repo, layout, "vid-2", "user-1", 7.5)

		video, err := svc.Merge(context.Background(), "user-1", []string{"vid-2", "vid-1"})

		require.NoError(t, err)
		assert.Equal(t, 17.5, video.Duration)
		require.Len(t, engine.mergedInputs, 2)
		// Input order is significant and preserved
		assert.Equal(t, layout.Resolve(v2.FilePath), engine.mergedInputs[0])
		assert.Equal(t, layout.Resolve(v1.FilePath), engine.mergedInputs[1])
	})

	t.Run("fewer than two inputs", func(t *testing.T) {
		repo := newMockVideoRepository()
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), &mockClipEngine{})
		seedVideo(t, repo, layout, "vid-1", "user-1", 10)

		_, err := svc.Merge(context.Background(), "user-1", []string{"vid-1"})

		require.Error(t, err)
		_, message := apperrors.StatusOf(err)
		assert.Equal(t, "At least two videos are required", message)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		repo := newMockVideoRepository()
		engine := &mockClipEngine{}
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), engine)
		seedVideo(t, repo, layout, "vid-1", "user-1", 10)

		_, err := svc.Merge(context.Background(), "user-1", []string{"vid-1", "vid-1"})

		require.Error(t, err)
		status, message := apperrors.StatusOf(err)
		assert.Equal(t, 400, status)
		assert.Equal(t, "Duplicate video ids are not allowed", message)
		assert.False(t, engine.mergeCalled)
	})

	t.Run("missing id is named", func(t *testing.T) {
		repo := newMockVideoRepository()
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), &mockClipEngine{})
		seedVideo(t, repo, layout, "vid-1", "user-1", 10)

		_, err := svc.Merge(context.Background(), "user-1", []string{"vid-1", "ghost"})

		require.Error(t, err)
		status, message := apperrors.StatusOf(err)
		assert.Equal(t, 400, status)
		assert.Equal(t, "Video ghost not found", message)
	})

	t.Run("foreign video", func(t *testing.T) {
		repo := newMockVideoRepository()
		engine := &mockClipEngine{}
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), engine)
		seedVideo(t, repo, layout, "vid-1", "user-1", 10)
		seedVideo(t, repo, layout, "vid-2", "someone-else", 10)

		_, err := svc.Merge(context.Background(), "user-1", []string{"vid-1", "vid-2"})

		require.Error(t, err)
		status, _ := apperrors.StatusOf(err)
		assert.Equal(t, 403, status)
		assert.False(t, engine.mergeCalled)
	})

	t.Run("total duration over maximum", func(t *testing.T) {
		repo := newMockVideoRepository()
		engine := &mockClipEngine{}
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), engine)
		seedVideo(t, repo, layout, "vid-1", "user-1", 3000)
		seedVideo(t, repo, layout, "vid-2", "user-1", 700)

		_, err := svc.Merge(context.Background(), "user-1", []string{"vid-1", "vid-2"})

		require.Error(t, err)
		_, message := apperrors.StatusOf(err)
		assert.Equal(t, "merged duration exceeds maximum", message)
		assert.False(t, engine.mergeCalled)
	})

	t.Run("engine failure removes partial output", func(t *testing.T) {
		repo := newMockVideoRepository()
		engine := &mockClipEngine{mergeErr: errors.New("ffmpeg exited with code 1")}
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), engine)
		v1 := seedVideo(t, repo, layout, "vid-1", "user-1", 10)
		v2 := seedVideo(t, repo, layout, "vid-2", "user-1", 10)

		_, err := svc.Merge(context.Background(), "user-1", []string{"vid-1", "vid-2"})

		require.Error(t, err)
		assertUserDirFiles(t, layout, "user-1", filepath.Base(v1.FilePath), filepath.Base(v2.FilePath))
	})
}

func TestVideoService_Delete(t *testing.T) {
	t.Run("removes file and record", func(t *testing.T) {
		repo := newMockVideoRepository()
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), &mockClipEngine{})
		video := seedVideo(t, repo, layout, "vid-1", "user-1", 10)

		err := svc.Delete(context.Background(), "user-1", "vid-1")

		require.NoError(t, err)
		assert.Equal(t, []string{"vid-1"}, repo.deleted)
		_, statErr := layout.Stat(video.FilePath)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("missing backing file is tolerated", func(t *testing.T) {
		repo := newMockVideoRepository()
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), &mockClipEngine{})
		video := seedVideo(t, repo, layout, "vid-1", "user-1", 10)
		require.NoError(t, layout.Remove(video.FilePath))

		err := svc.Delete(context.Background(), "user-1", "vid-1")

		require.NoError(t, err)
		assert.Equal(t, []string{"vid-1"}, repo.deleted)
	})

	t.Run("unknown video", func(t *testing.T) {
		repo := newMockVideoRepository()
		svc, _ := newTestService(t, repo, newMockShareLinkRepository(), &mockClipEngine{})

		err := svc.Delete(context.Background(), "user-1", "missing")

		require.Error(t, err)
		status, message := apperrors.StatusOf(err)
		assert.Equal(t, 404, status)
		assert.Equal(t, "Video not found", message)
	})

	t.Run("foreign video leaves record intact", func(t *testing.T) {
		repo := newMockVideoRepository()
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), &mockClipEngine{})
		video := seedVideo(t, repo, layout, "vid-1", "owner", 10)

		err := svc.Delete(context.Background(), "intruder", "vid-1")

		require.Error(t, err)
		status, _ := apperrors.StatusOf(err)
		assert.Equal(t, 403, status)
		assert.Empty(t, repo.deleted)
		_, statErr := layout.Stat(video.FilePath)
		assert.NoError(t, statErr)
	})
}

func TestVideoService_CreateShareLink(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := newMockVideoRepository()
		shareRepo := newMockShareLinkRepository()
		svc, layout := newTestService(t, repo, shareRepo, &mockClipEngine{})
		seedVideo(t, repo, layout, "vid-1", "user-1", 10)

		link, err := svc.CreateShareLink(context.Background(), "user-1", "vid-1", time.Hour)

		require.NoError(t, err)
		assert.NotEmpty(t, link.ID)
		assert.WithinDuration(t, time.Now().Add(time.Hour), link.ExpiresAt, 5*time.Second)
		require.Len(t, shareRepo.created, 1)
		token := shareRepo.created[0].Token
		assert.Len(t, token, 64)
		assert.Equal(t, "http://localhost:8080/share/"+token, link.URL)
	})

	t.Run("unknown and foreign videos are both not found", func(t *testing.T) {
		repo := newMockVideoRepository()
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), &mockClipEngine{})
		seedVideo(t, repo, layout, "vid-1", "owner", 10)

		for _, id := range []string{"missing", "vid-1"} {
			_, err := svc.CreateShareLink(context.Background(), "intruder", id, time.Hour)
			require.Error(t, err)
			status, message := apperrors.StatusOf(err)
			assert.Equal(t, 404, status)
			assert.Equal(t, "Video not found", message)
		}
	})

	t.Run("non-positive expiry", func(t *testing.T) {
		repo := newMockVideoRepository()
		svc, layout := newTestService(t, repo, newMockShareLinkRepository(), &mockClipEngine{})
		seedVideo(t, repo, layout, "vid-1", "user-1", 10)

		_, err := svc.CreateShareLink(context.Background(), "user-1", "vid-1", 0)

		require.Error(t, err)
		status, _ := apperrors.StatusOf(err)
		assert.Equal(t, 400, status)
	})
}

func TestVideoService_RedeemShareLink(t *testing.T) {
	t.Run("valid link resolves the video", func(t *testing.T) {
		repo := newMockVideoRepository()
		shareRepo := newMockShareLinkRepository(&models.ShareLink{
			ID:        "link-1",
			Token:     "tok",
			VideoID:   "vid-1",
			ExpiresAt: time.Now().Add(time.Hour),
		})
		svc, layout := newTestService(t, repo, shareRepo, &mockClipEngine{})
		seedVideo(t, repo, layout, "vid-1", "user-1", 10)

		video, err := svc.RedeemShareLink(context.Background(), "tok")

		require.NoError(t, err)
		assert.Equal(t, "vid-1", video.ID)
	})

	t.Run("unknown token is not found", func(t *testing.T) {
		svc, _ := newTestService(t, newMockVideoRepository(), newMockShareLinkRepository(), &mockClipEngine{})

		_, err := svc.RedeemShareLink(context.Background(), "nope")

		require.Error(t, err)
		status, _ := apperrors.StatusOf(err)
		assert.Equal(t, 404, status)
	})

	t.Run("expired token is gone, not not-found", func(t *testing.T) {
		repo := newMockVideoRepository()
		shareRepo := newMockShareLinkRepository(&models.ShareLink{
			ID:        "link-1",
			Token:     "tok",
			VideoID:   "vid-1",
			ExpiresAt: time.Now().Add(-time.Minute),
		})
		svc, layout := newTestService(t, repo, shareRepo, &mockClipEngine{})
		seedVideo(t, repo, layout, "vid-1", "user-1", 10)

		_, err := svc.RedeemShareLink(context.Background(), "tok")

		require.Error(t, err)
		status, message := apperrors.StatusOf(err)
		assert.Equal(t, 410, status)
		assert.Equal(t, "Share link expired", message)
	})
}

// assertUserDirEmpty checks that a user's directory holds no files
func assertUserDirEmpty(t *testing.T, layout *storage.Layout, userID string) {
	t.Helper()
	assertUserDirFiles(t, layout, userID)
}

// assertUserDirFiles checks the exact set of files in a user's directory
func assertUserDirFiles(t *testing.T, layout *storage.Layout, userID string, want ...string) {
	t.Helper()
	entries, err := os.ReadDir(layout.UserDir(userID))
	if os.IsNotExist(err) {
		assert.Empty(t, want)
		return
	}
	require.NoError(t, err)

	got := make([]string, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.Name())
	}
	assert.ElementsMatch(t, want, got)
}
