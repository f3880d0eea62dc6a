package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"vidshare/video-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidContentType = errors.New("invalid or missing content type for upload")
	ErrUploadURLError     = errors.New("failed to generate upload URL")
)

// UploadURLResponse holds the presigned PUT URL the client uploads to and
// the object key it should reference afterwards. The client performs the
// upload itself and then submits the resulting URL as videoUrl/thumbnailUrl
// when creating the video record.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// --- Service Interface ---
type UploadService interface {
	RequestUploadURL(ctx context.Context, ownerID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
}

// --- Service Implementation ---

type uploadService struct {
	fileStorage storage.FileStorage
}

// NewUploadService creates a new instance of uploadService.
func NewUploadService(fileStorage storage.FileStorage) UploadService {
	return &uploadService{fileStorage: fileStorage}
}

// RequestUploadURL generates a presigned URL for uploading a video or a
// thumbnail image directly to object storage.
func (s *uploadService) RequestUploadURL(ctx context.Context, ownerID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required")
	}

	lowered := strings.ToLower(contentType)
	if !strings.HasPrefix(lowered, "video/") && !strings.HasPrefix(lowered, "image/") {
		return nil, ErrInvalidContentType
	}

	// Unique object key scoped to the uploading user.
	uniqueID := uuid.NewString()
	fileExtension := ""
	if parts := strings.Split(lowered, "/"); len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("uploads", ownerID.Hex(), fmt.Sprintf("%s.%s", uniqueID, fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}
