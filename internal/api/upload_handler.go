package api

import (
	"errors"
	"net/http"

	"vidshare/video-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UploadHandler holds the upload service dependency.
type UploadHandler struct {
	uploadService service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// RequestUploadURLRequest asks for a presigned upload slot for one media
// object (a video file or a thumbnail image).
type RequestUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// RequestUploadURL godoc
// @Summary Request a presigned media upload URL
// @Description Returns a temporary PUT URL the client uploads the media to directly. The resulting object URL is then submitted as videoUrl or thumbnailUrl when creating the video record.
// @Tags Uploads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param upload body RequestUploadURLRequest true "Upload details"
// @Success 200 {object} service.UploadURLResponse "Presigned URL generated"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /uploads [post]
func (h *UploadHandler) RequestUploadURL(c *gin.Context) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token")
		return
	}

	var req RequestUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	resp, err := h.uploadService.RequestUploadURL(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidContentType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
