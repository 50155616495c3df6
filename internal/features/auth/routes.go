package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the public auth endpoints plus the authenticated
// password update.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, repo *Repository) {
	users := router.Group("/users")
	{
		users.POST("/signup", handler.Signup)
		users.POST("/login", handler.Login)
		users.GET("/logout", handler.Logout)
		users.POST("/forgotPassword", handler.ForgotPassword)
		users.PATCH("/resetPassword/:token", handler.ResetPassword)

		users.PATCH("/updateMyPassword", Protect(repo, handler.cfg), handler.UpdatePassword)
	}
}
