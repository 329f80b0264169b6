package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/slickclip/backend/internal/auth"
	"github.com/slickclip/backend/internal/config"
	"github.com/slickclip/backend/internal/models"
	"github.com/slickclip/backend/internal/services"
	"go.uber.org/zap"
)

// VideoService defines the interface for video service operations
type VideoService interface {
	// Method GetVideo retrieves a video owned by the caller.
	GetVideo(ctx context.Context, userID, videoID string) (*models.Video, error)
	// Method ListVideos retrieves all videos owned by the caller.
	ListVideos(ctx context.Context, userID string) ([]*models.Video, error)
	// Method Upload stores an uploaded file and persists its metadata.
	//
	// "src" parameter is the uploaded file content.
	// "originalName" parameter is the client-provided file name.
	Upload(ctx context.Context, userID string, src io.Reader, originalName string) (*models.Video, error)
	// Method Trim produces a new asset covering [start, end) of an existing one.
	//
	// "start" and "end" parameters are optional bounds in seconds; at least
	// one must be supplied.
	Trim(ctx context.Context, userID, videoID string, start, end *float64) (*models.Video, error)
	// Method Merge concatenates the referenced assets in input order.
	Merge(ctx context.Context, userID string, videoIDs []string) (*models.Video, error)
	// Method Delete removes a video's backing file and metadata record.
	Delete(ctx context.Context, userID, videoID string) error
	// Method CreateShareLink issues an expiring public download link.
	CreateShareLink(ctx context.Context, userID, videoID string, expiresIn time.Duration) (*services.ShareLinkInfo, error)
	// Method RedeemShareLink resolves a public token to the shared video.
	RedeemShareLink(ctx context.Context, token string) (*models.Video, error)
	// Method OpenFile opens a video's backing file for streaming.
	OpenFile(video *models.Video) (*os.File, error)
}

// VideoHandler handles video-related HTTP requests
type VideoHandler struct {
	BaseHandler
	videoService VideoService
	policy       *config.ClipPolicy
	authMw       func(http.Handler) http.Handler
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(videoService VideoService, logger *zap.Logger, policy *config.ClipPolicy, authMw func(http.Handler) http.Handler) *VideoHandler {
	return &VideoHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		videoService: videoService,
		policy:       policy,
		authMw:       authMw,
	}
}

// RegisterRoutes registers all video handler routes
func (h *VideoHandler) RegisterRoutes(r chi.Router) {
	// Share link redemption is public by design
	r.Get("/share/{token}", h.RedeemShareLink)

	r.Route("/videos", func(r chi.Router) {
		r.Use(h.authMw)
		r.Get("/", h.ListVideos)
		r.Post("/upload", h.Upload)
		r.Post("/merge", h.Merge)
		r.Get("/{id}", h.GetVideo)
		r.Post("/{id}/trim", h.Trim)
		r.Post("/{id}/share", h.CreateShareLink)
		r.Delete("/{id}", h.Delete)
	})
}

// trimRequest is the JSON body of a trim call
type trimRequest struct {
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

// mergeRequest is the JSON body of a merge call
type mergeRequest struct {
	VideoIDs []string `json:"videoIds"`
}

// shareRequest is the JSON body of a share link call
type shareRequest struct {
	ExpiresIn int64 `json:"expiresIn"`
}

// Upload handles POST /videos/upload
// @Summary Upload a video
// @Description Upload a video file as multipart form data. The file is probed for duration before being accepted.
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Param video formData file true "Video file"
// @Security BearerAuth
// @Success 201 {object} models.Video
// @Failure 400 {object} map[string]string "Missing file, wrong type or over size limit"
// @Failure 403 {object} map[string]string "Unauthorized"
// @Router /videos/upload [post]
func (h *VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUser(r.Context())
	if !ok {
		h.RespondError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.RespondError(w, http.StatusBadRequest, "File not found")
		return
	}

	file, fileHeader, err := r.FormFile("video")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "File not found")
		return
	}
	defer file.Close()

	if fileHeader.Size > h.policy.MaxSizeBytes {
		h.RespondError(w, http.StatusBadRequest, "File too large")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") {
		h.RespondError(w, http.StatusBadRequest, "Invalid file type")
		return
	}

	video, err := h.videoService.Upload(r.Context(), user.ID, file, fileHeader.Filename)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, video)
}

// GetVideo handles GET /videos/{id}
// @Summary Get video metadata
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Security BearerAuth
// @Success 200 {object} models.Video
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Video not found"
// @Router /videos/{id} [get]
func (h *VideoHandler) GetVideo(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUser(r.Context())
	if !ok {
		h.RespondError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	video, err := h.videoService.GetVideo(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, video)
}

// ListVideos handles GET /videos
// @Summary List the caller's videos
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Video
// @Router /videos [get]
func (h *VideoHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUser(r.Context())
	if !ok {
		h.RespondError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	videos, err := h.videoService.ListVideos(r.Context(), user.ID)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, videos)
}

// Trim handles POST /videos/{id}/trim
// @Summary Trim a video
// @Description Produce a new video covering [start, end) of an existing one. At least one bound is required.
// @Tags videos
// @Accept json
// @Produce json
// @Param id path string true "Video ID"
// @Param body body trimRequest true "Trim bounds in seconds"
// @Security BearerAuth
// @Success 200 {object} models.Video
// @Failure 400 {object} map[string]string "Invalid bounds"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Video not found"
// @Router /videos/{id}/trim [post]
func (h *VideoHandler) Trim(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUser(r.Context())
	if !ok {
		h.RespondError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	var req trimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	video, err := h.videoService.Trim(r.Context(), user.ID, chi.URLParam(r, "id"), req.Start, req.End)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, video)
}

// Merge handles POST /videos/merge
// @Summary Merge videos
// @Description Concatenate two or more of the caller's videos, in input order, into a new one.
// @Tags videos
// @Accept json
// @Produce json
// @Param body body mergeRequest true "Video IDs in merge order"
// @Security BearerAuth
// @Success 201 {object} models.Video
// @Failure 400 {object} map[string]string "Duplicate or unknown ids, or duration exceeded"
// @Failure 403 {object} map[string]string "Access denied"
// @Router /videos/merge [post]
func (h *VideoHandler) Merge(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUser(r.Context())
	if !ok {
		h.RespondError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	video, err := h.videoService.Merge(r.Context(), user.ID, req.VideoIDs)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, video)
}

// Delete handles DELETE /videos/{id}
// @Summary Delete a video
// @Tags videos
// @Param id path string true "Video ID"
// @Security BearerAuth
// @Success 204 "Video and file deleted"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Video not found"
// @Router /videos/{id} [delete]
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUser(r.Context())
	if !ok {
		h.RespondError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	if err := h.videoService.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		h.RespondAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateShareLink handles POST /videos/{id}/share
// @Summary Create a share link
// @Description Issue an expiring public download link for one of the caller's videos.
// @Tags share
// @Accept json
// @Produce json
// @Param id path string true "Video ID"
// @Param body body shareRequest true "Expiry in seconds"
// @Security BearerAuth
// @Success 201 {object} services.ShareLinkInfo
// @Failure 404 {object} map[string]string "Video not found"
// @Router /videos/{id}/share [post]
func (h *VideoHandler) CreateShareLink(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUser(r.Context())
	if !ok {
		h.RespondError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	link, err := h.videoService.CreateShareLink(r.Context(), user.ID, chi.URLParam(r, "id"), time.Duration(req.ExpiresIn)*time.Second)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, link)
}

// RedeemShareLink handles GET /share/{token}
// @Summary Download a shared video
// @Description Stream a shared video by its public token. Supports range requests.
// @Tags share
// @Produce application/octet-stream
// @Param token path string true "Share token"
// @Success 200 "File content"
// @Success 206 "Partial file content (for range requests)"
// @Failure 404 {object} map[string]string "Share link not found"
// @Failure 410 {object} map[string]string "Share link expired"
// @Router /share/{token} [get]
func (h *VideoHandler) RedeemShareLink(w http.ResponseWriter, r *http.Request) {
	video, err := h.videoService.RedeemShareLink(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	file, err := h.videoService.OpenFile(video)
	if err != nil {
		if os.IsNotExist(err) {
			h.RespondError(w, http.StatusNotFound, "file not found")
			return
		}
		h.Logger.Error("failed to open file", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to open file")
		return
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		h.Logger.Error("failed to get file info", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to get file info")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+video.Title+`"`)

	// Serve content with range support
	http.ServeContent(w, r, video.Title, fileInfo.ModTime(), file)
}
