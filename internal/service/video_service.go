package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vidshare/video-app/internal/domain"
	"vidshare/video-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrVideoNotFound    = errors.New("video not found")
	ErrOwnerMismatch    = errors.New("cannot upload for another user")
	ErrValidationFailed = errors.New("video validation failed")
)

// Pagination defaults for the feed.
const (
	DefaultPage  = 1
	DefaultLimit = 12
)

// ValidationError reports which required create fields were missing.
// It is distinct from ErrValidationFailed so the API layer can render the
// field list in the response body.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// OwnerInfo is the denormalized projection of a video's owner attached to
// feed and detail responses. It is never persisted.
type OwnerInfo struct {
	Name  string
	Image string
}

// EnrichedVideo is a video plus its best-effort owner projection.
// Owner being nil is a valid, expected state: the video has no owner
// reference, the owner no longer exists, or the lookup failed.
type EnrichedVideo struct {
	domain.Video
	Owner *OwnerInfo
}

// VideoFeed is one page of enriched videos. Callers detect "more pages" by
// checking len(Videos) == Limit; there is no total count.
type VideoFeed struct {
	Videos []EnrichedVideo
	Page   int
	Limit  int
}

// CreateVideoInput carries the create request fields. UserID stays a string
// here so presence validation and the ownership check run before any ID
// parsing.
type CreateVideoInput struct {
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	UserID       string
}

// --- Service Interface ---
type VideoService interface {
	ListVideos(ctx context.Context, page, limit int) (*VideoFeed, error)
	GetVideoByID(ctx context.Context, id primitive.ObjectID) (*EnrichedVideo, error)
	CreateVideo(ctx context.Context, callerID string, input CreateVideoInput) (*domain.Video, error)
}

// --- Service Implementation ---

// videoService implements the VideoService interface.
type videoService struct {
	videoRepo repository.VideoRepository
	userRepo  repository.UserRepository
}

// NewVideoService creates a new instance of videoService.
func NewVideoService(videoRepo repository.VideoRepository, userRepo repository.UserRepository) VideoService {
	return &videoService{
		videoRepo: videoRepo,
		userRepo:  userRepo,
	}
}

// ListVideos returns one page of the feed, newest first, with each video
// enriched by an independent owner lookup. Enrichment problems never fail
// the batch; only a failure of the video query itself is returned.
func (s *videoService) ListVideos(ctx context.Context, page, limit int) (*VideoFeed, error) {
	// Clamp to avoid negative offsets on hostile query parameters.
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	skip := int64(page-1) * int64(limit)
	videos, err := s.videoRepo.List(ctx, skip, int64(limit))
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedVideo, 0, len(videos))
	for _, video := range videos {
		enriched = append(enriched, EnrichedVideo{
			Video: video,
			Owner: s.lookupOwner(ctx, video.UserID),
		})
	}

	return &VideoFeed{
		Videos: enriched,
		Page:   page,
		Limit:  limit,
	}, nil
}

// GetVideoByID retrieves a single video with the same best-effort owner
// enrichment as the feed.
func (s *videoService) GetVideoByID(ctx context.Context, id primitive.ObjectID) (*EnrichedVideo, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	return &EnrichedVideo{
		Video: *video,
		Owner: s.lookupOwner(ctx, video.UserID),
	}, nil
}

// lookupOwner resolves a video's owner to its display projection.
// Any failure, including the owner not existing, yields nil rather than an
// error: a row without an owner badge is better than no row at all.
func (s *videoService) lookupOwner(ctx context.Context, ownerID primitive.ObjectID) *OwnerInfo {
	if ownerID == primitive.NilObjectID {
		return nil
	}
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil
	}
	return &OwnerInfo{Name: owner.Name, Image: owner.Image}
}

// CreateVideo validates the input, enforces that the caller uploads only for
// themselves, and persists the video with server-side defaults. The result
// is returned without owner enrichment.
func (s *videoService) CreateVideo(ctx context.Context, callerID string, input CreateVideoInput) (*domain.Video, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if input.VideoURL == "" {
		missing = append(missing, "videoUrl")
	}
	if input.ThumbnailURL == "" {
		missing = append(missing, "thumbnailUrl")
	}
	if input.UserID == "" {
		missing = append(missing, "userId")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	// Ownership check on the raw identifiers, before any parsing.
	if input.UserID != callerID {
		return nil, ErrOwnerMismatch
	}

	ownerID, err := primitive.ObjectIDFromHex(input.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID format", ErrValidationFailed)
	}

	if len(title) > domain.MaxTitleLength {
		return nil, fmt.Errorf("%w: title exceeds %d characters", ErrValidationFailed, domain.MaxTitleLength)
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, fmt.Errorf("%w: description exceeds %d characters", ErrValidationFailed, domain.MaxDescriptionLength)
	}

	video := &domain.Video{
		Title:        title,
		Description:  description,
		VideoURL:     input.VideoURL,
		ThumbnailURL: input.ThumbnailURL,
		UserID:       ownerID,
		Controls:     true,
		Transformation: &domain.Transformation{
			Width:  domain.DefaultVideoWidth,
			Height: domain.DefaultVideoHeight,
		},
		Tags: []string{},
	}

	videoID, err := s.videoRepo.Create(ctx, video)
	if err != nil {
		return nil, err
	}

	// Fetch again so store-assigned fields come back populated.
	return s.videoRepo.GetByID(ctx, videoID)
}
