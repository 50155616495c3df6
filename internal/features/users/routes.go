package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/gotours/internal/config"
	"github.com/xyz-asif/gotours/internal/features/auth"
	"github.com/xyz-asif/gotours/internal/pkg/apperror"
	"github.com/xyz-asif/gotours/internal/pkg/crud"
)

// RegisterRoutes mounts the me-routes for every logged-in user and the
// admin-only user management endpoints. The auth package owns the public
// /users entry points (signup, login, password resets).
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authRepo *auth.Repository, cfg *config.Config) {
	store := NewStore(authRepo)

	usersGroup := router.Group("/users")
	usersGroup.Use(auth.Protect(authRepo, cfg))

	{
		usersGroup.GET("/me", handler.GetMe)
		usersGroup.PATCH("/updateMe", handler.UpdateMe)
		usersGroup.DELETE("/deleteMe", handler.DeleteMe)
	}

	admin := auth.RestrictTo(auth.RoleAdmin)
	{
		usersGroup.GET("", admin, crud.GetAll(store, nil))
		usersGroup.POST("", admin, func(c *gin.Context) {
			crud.Fail(c, apperror.New(http.StatusInternalServerError, "This route is not defined! Please use /signup instead"))
		})
		usersGroup.GET("/:id", admin, crud.GetOne(store))
		usersGroup.PATCH("/:id", admin, crud.UpdateOne(store))
		usersGroup.DELETE("/:id", admin, crud.DeleteOne(store))
	}
}
