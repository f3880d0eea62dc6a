package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"vidshare/video-app/internal/domain"
	"vidshare/video-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VideoHandler holds the video service dependency.
type VideoHandler struct {
	videoService service.VideoService
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(videoService service.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateVideoRequest defines the expected JSON for creating a video.
// No binding:"required" tags here: presence validation happens in the
// service so the 400 response can name every missing field at once.
type CreateVideoRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	UserID       string `json:"userId"`
}

// VideoOwnerResponse is the denormalized owner projection on feed and
// detail responses.
type VideoOwnerResponse struct {
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// VideoResponse is the DTO for returning video details. User is only set on
// enriched (feed/detail) responses and omitted when the owner could not be
// resolved.
type VideoResponse struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	VideoURL       string                 `json:"videoUrl"`
	ThumbnailURL   string                 `json:"thumbnailUrl"`
	UserID         string                 `json:"userId"`
	Controls       bool                   `json:"controls"`
	Transformation *domain.Transformation `json:"transformation,omitempty"`
	Views          int64                  `json:"views"`
	Likes          int64                  `json:"likes"`
	Tags           []string               `json:"tags"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
	User           *VideoOwnerResponse    `json:"user,omitempty"`
}

// VideoFeedResponse is one page of the listing.
type VideoFeedResponse struct {
	Videos []VideoResponse `json:"videos"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// MapVideoToResponse converts a domain.Video to VideoResponse DTO.
func MapVideoToResponse(v *domain.Video) VideoResponse {
	if v == nil {
		return VideoResponse{}
	}
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}
	return VideoResponse{
		ID:             v.ID.Hex(),
		Title:          v.Title,
		Description:    v.Description,
		VideoURL:       v.VideoURL,
		ThumbnailURL:   v.ThumbnailURL,
		UserID:         v.UserID.Hex(),
		Controls:       v.Controls,
		Transformation: v.Transformation,
		Views:          v.Views,
		Likes:          v.Likes,
		Tags:           tags,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

// MapEnrichedVideoToResponse converts an enriched video, attaching the owner
// projection when the lookup succeeded.
func MapEnrichedVideoToResponse(ev *service.EnrichedVideo) VideoResponse {
	if ev == nil {
		return VideoResponse{}
	}
	resp := MapVideoToResponse(&ev.Video)
	if ev.Owner != nil {
		resp.User = &VideoOwnerResponse{Name: ev.Owner.Name, Image: ev.Owner.Image}
	}
	return resp
}

// --- Handler Methods ---

// ListVideos godoc
// @Summary List videos with pagination
// @Description Returns one page of the feed, newest first, each video enriched with its owner's name and image when available.
// @Tags Videos
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 12)"
// @Success 200 {object} VideoFeedResponse "One page of videos"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /videos [get]
func (h *VideoHandler) ListVideos(c *gin.Context) {
	page := parsePositiveInt(c.Query("page"), service.DefaultPage)
	limit := parsePositiveInt(c.Query("limit"), service.DefaultLimit)

	feed, err := h.videoService.ListVideos(c.Request.Context(), page, limit)
	if err != nil {
		abortWithDetails(c, http.StatusInternalServerError, "Failed to fetch videos", err)
		return
	}

	videos := make([]VideoResponse, len(feed.Videos))
	for i := range feed.Videos {
		videos[i] = MapEnrichedVideoToResponse(&feed.Videos[i])
	}

	c.JSON(http.StatusOK, VideoFeedResponse{
		Videos: videos,
		Page:   feed.Page,
		Limit:  feed.Limit,
	})
}

// GetVideoByID godoc
// @Summary Get a single video
// @Description Returns one video by id, enriched with its owner when the owner still exists.
// @Tags Videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} VideoResponse "The video"
// @Failure 400 {object} gin.H "Invalid video ID format"
// @Failure 404 {object} gin.H "Video not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /videos/{id} [get]
func (h *VideoHandler) GetVideoByID(c *gin.Context) {
	videoID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid video ID format")
		return
	}

	video, err := h.videoService.GetVideoByID(c.Request.Context(), videoID)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			abortWithError(c, http.StatusNotFound, "Video not found")
		} else {
			abortWithDetails(c, http.StatusInternalServerError, "Failed to fetch video", err)
		}
		return
	}

	c.JSON(http.StatusOK, MapEnrichedVideoToResponse(video))
}

// CreateVideo godoc
// @Summary Create a new video
// @Description Persists a new video record for the authenticated user. The media itself must already be uploaded; videoUrl and thumbnailUrl reference it.
// @Tags Videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param video body CreateVideoRequest true "Video details"
// @Success 201 {object} VideoResponse "Video created successfully"
// @Failure 400 {object} gin.H "Missing required fields"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Cannot upload for another user"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /videos [post]
func (h *VideoHandler) CreateVideo(c *gin.Context) {
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	var req CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	video, err := h.videoService.CreateVideo(c.Request.Context(), callerID, service.CreateVideoInput{
		Title:        req.Title,
		Description:  req.Description,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
		UserID:       req.UserID,
	})
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":    "Missing required fields",
				"required": []string{"title", "description", "videoUrl", "thumbnailUrl", "userId"},
				"received": gin.H{
					"title":        req.Title != "",
					"description":  req.Description != "",
					"videoUrl":     req.VideoURL != "",
					"thumbnailUrl": req.ThumbnailURL != "",
					"userId":       req.UserID != "",
				},
			})
		case errors.Is(err, service.ErrOwnerMismatch):
			abortWithError(c, http.StatusForbidden, "Unauthorized: Cannot upload for another user")
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithDetails(c, http.StatusInternalServerError, "Failed to create video", err)
		}
		return
	}

	c.JSON(http.StatusCreated, MapVideoToResponse(video))
}

// parsePositiveInt parses a query parameter, falling back to def when the
// value is absent or non-numeric and clamping anything below 1 to the
// fallback to avoid negative offsets.
func parsePositiveInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
