package upload

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the image upload endpoints. Both require a session.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, requireAuth gin.HandlerFunc) {
	upload := router.Group("/upload")
	upload.Use(requireAuth)
	{
		upload.PUT("/profilePic", handler.UpdateProfilePic)
		upload.PUT("/blogImage", handler.UploadBlogImage)
	}
}
