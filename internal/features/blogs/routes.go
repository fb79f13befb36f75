package blogs

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the blog endpoints
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, requireAuth gin.HandlerFunc) {
	blogs := router.Group("/blogs")
	{
		// Public routes
		blogs.GET("", handler.ListBlogs)
		blogs.GET("/category/:category", handler.ListByCategory)
		blogs.GET("/users/:userId", handler.ListByAuthor)
		blogs.GET("/:id", handler.GetBlog)

		// Protected routes
		blogs.POST("", requireAuth, handler.CreateBlog)
		blogs.PUT("/:id", requireAuth, handler.UpdateBlog)
		blogs.DELETE("/:id", requireAuth, handler.DeleteBlog)
		blogs.PUT("/like/:id", requireAuth, handler.ToggleLike)
		blogs.POST("/comment/:id", requireAuth, handler.AddComment)
		blogs.POST("/:id/comment", requireAuth, handler.AddComment)
		blogs.PUT("/:id/comment/:commentId", requireAuth, handler.EditComment)
		blogs.DELETE("/:id/comment/:commentId", requireAuth, handler.DeleteComment)
	}
}
