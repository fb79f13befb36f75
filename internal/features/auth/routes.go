package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the auth endpoints. limit guards the credential
// endpoints and may be nil.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, requireAuth gin.HandlerFunc, limit gin.HandlerFunc, googleEnabled bool) {
	guarded := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if limit == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{limit, h}
	}

	auth := router.Group("/auth")
	{
		auth.POST("/register", guarded(handler.Register)...)
		auth.POST("/login", guarded(handler.Login)...)
		if googleEnabled {
			auth.POST("/google", guarded(handler.GoogleLogin)...)
		}
		auth.POST("/logout", handler.Logout)
		auth.GET("/userProfile/:id", handler.UserProfile)

		protected := auth.Group("")
		protected.Use(requireAuth)
		{
			protected.GET("/me", handler.Me)
			protected.PUT("/changePassword", handler.ChangePassword)
			protected.PUT("/userUpdate", handler.UpdateProfile)
		}
	}
}
