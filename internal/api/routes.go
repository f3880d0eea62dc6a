package api

import (
	"net/http"

	"vidshare/video-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all HTTP endpoints. Feed and detail reads are public;
// creating videos and requesting upload URLs require an authenticated
// session.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	videoService service.VideoService,
	uploadService service.UploadService,
) {
	authHandler := NewAuthHandler(authService)
	videoHandler := NewVideoHandler(videoService)
	uploadHandler := NewUploadHandler(uploadService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Public read path
		apiGroup.GET("/videos", videoHandler.ListVideos)
		apiGroup.GET("/videos/:id", videoHandler.GetVideoByID)

		protected := apiGroup.Group("")
		protected.Use(authMiddleware)
		{
			protected.GET("/me", func(c *gin.Context) {
				userIDStr, err := getUserIDFromContext(c)
				if err != nil {
					abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
					return
				}
				role, _ := getUserRoleFromContext(c)
				c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
			})

			protected.POST("/videos", videoHandler.CreateVideo)
			protected.POST("/uploads", uploadHandler.RequestUploadURL)
		}
	}
}
