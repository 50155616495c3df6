package bookings

import (
	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/gotours/internal/config"
	"github.com/xyz-asif/gotours/internal/features/auth"
	"github.com/xyz-asif/gotours/internal/pkg/crud"
)

// RegisterRoutes mounts the booking endpoints. Checkout is open to any
// logged-in user; booking management is staff-only.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authRepo *auth.Repository, cfg *config.Config) {
	bookingsGroup := router.Group("/bookings")
	bookingsGroup.Use(auth.Protect(authRepo, cfg))

	bookingsGroup.GET("/checkout-session/:id", handler.GetCheckoutSession)

	manage := auth.RestrictTo(auth.RoleAdmin, auth.RoleLeadGuide)
	{
		bookingsGroup.GET("", manage, crud.GetAll(handler.store, nil))
		bookingsGroup.POST("", manage, crud.CreateOne(handler.store))
		bookingsGroup.GET("/:id", manage, crud.GetOne(handler.store, "tour", "user"))
		bookingsGroup.PATCH("/:id", manage, crud.UpdateOne(handler.store))
		bookingsGroup.DELETE("/:id", manage, crud.DeleteOne(handler.store))
	}
}
