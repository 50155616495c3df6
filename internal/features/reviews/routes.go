package reviews

import (
	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/gotours/internal/config"
	"github.com/xyz-asif/gotours/internal/features/auth"
	"github.com/xyz-asif/gotours/internal/pkg/crud"
)

// RegisterRoutes mounts the flat review endpoints. Reads are public;
// writes require a session, and only users and admins may write.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authRepo *auth.Repository, cfg *config.Config) {
	reviewsGroup := router.Group("/reviews")
	protect := auth.Protect(authRepo, cfg)
	writers := auth.RestrictTo(auth.RoleUser, auth.RoleAdmin)

	{
		reviewsGroup.GET("", crud.GetAll(handler.store, nil))
		reviewsGroup.POST("", protect, writers, handler.CreateReview)
		reviewsGroup.GET("/:id", crud.GetOne(handler.store, "user"))
		reviewsGroup.PATCH("/:id", protect, writers, handler.UpdateReview)
		reviewsGroup.DELETE("/:id", protect, writers, handler.DeleteReview)
	}
}

// RegisterNested mounts the review endpoints under /tours/:id so a review
// can be listed and created in its tour's context.
func RegisterNested(parent *gin.RouterGroup, handler *Handler, authRepo *auth.Repository, cfg *config.Config) {
	nested := parent.Group("/reviews")

	nested.GET("", crud.GetAll(handler.store, TourScope))
	nested.POST("", auth.Protect(authRepo, cfg), auth.RestrictTo(auth.RoleUser, auth.RoleAdmin), handler.CreateReview)
}
