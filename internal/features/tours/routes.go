package tours

import (
	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/gotours/internal/config"
	"github.com/xyz-asif/gotours/internal/features/auth"
	"github.com/xyz-asif/gotours/internal/pkg/crud"
)

// RegisterRoutes mounts the tour endpoints. registerNested lets the caller
// attach child resources (reviews) under /tours/:tourId without this
// package knowing about them.
func RegisterRoutes(
	router *gin.RouterGroup,
	handler *Handler,
	store *crud.MongoStore[Tour],
	authRepo *auth.Repository,
	cfg *config.Config,
	registerNested func(*gin.RouterGroup),
) {
	toursGroup := router.Group("/tours")

	protect := auth.Protect(authRepo, cfg)
	manageTours := auth.RestrictTo(auth.RoleAdmin, auth.RoleLeadGuide)
	readPlan := auth.RestrictTo(auth.RoleAdmin, auth.RoleLeadGuide, auth.RoleGuide)

	{
		toursGroup.GET("/top-5-cheap", AliasTopTours, crud.GetAll(store, nil))
		toursGroup.GET("/tour-stats", handler.GetTourStats)
		toursGroup.GET("/monthly-plan/:year", protect, readPlan, handler.GetMonthlyPlan)
		toursGroup.GET("/tours-within/:distance/center/:latlng/unit/:unit", handler.GetToursWithin)
		toursGroup.GET("/distances/:latlng/unit/:unit", handler.GetDistances)

		toursGroup.GET("", crud.GetAll(store, nil))
		toursGroup.POST("", protect, manageTours, crud.CreateOne(store))
		toursGroup.GET("/:id", crud.GetOne(store, "guides", "reviews"))
		toursGroup.PATCH("/:id", protect, manageTours, crud.UpdateOne(store))
		toursGroup.PATCH("/:id/images", protect, manageTours, handler.UploadTourImages)
		toursGroup.DELETE("/:id", protect, manageTours, crud.DeleteOne(store))
	}

	// The nested group reuses the ":id" wildcard; gin requires the same
	// param name for the same path segment.
	if registerNested != nil {
		registerNested(toursGroup.Group("/:id"))
	}
}
