// Package routes assembles every feature behind the /api/v1 prefix and
// the rendered pages at the site root.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xyz-asif/gotours/internal/config"
	"github.com/xyz-asif/gotours/internal/features/auth"
	"github.com/xyz-asif/gotours/internal/features/bookings"
	"github.com/xyz-asif/gotours/internal/features/reviews"
	"github.com/xyz-asif/gotours/internal/features/tours"
	"github.com/xyz-asif/gotours/internal/features/users"
	"github.com/xyz-asif/gotours/internal/features/views"
	"github.com/xyz-asif/gotours/internal/pkg/email"
	"github.com/xyz-asif/gotours/internal/pkg/media"
	"github.com/xyz-asif/gotours/internal/pkg/payment"
)

// Deps carries the shared collaborators every feature draws from.
type Deps struct {
	DB       *mongo.Database
	Config   *config.Config
	Logger   zerolog.Logger
	Mailer   email.Sender
	Resizer  media.Resizer
	Payments payment.Provider
}

// Setup wires all repositories, handlers and route groups onto the engine.
func Setup(router *gin.Engine, deps Deps) {
	api := router.Group("/api/v1")

	authRepo := auth.NewRepository(deps.DB)
	authHandler := auth.NewHandler(authRepo, deps.Config, deps.Mailer, deps.Logger)
	auth.RegisterRoutes(api, authHandler, authRepo)

	userHandler := users.NewHandler(authRepo, deps.Resizer)
	users.RegisterRoutes(api, userHandler, authRepo, deps.Config)

	tourRepo := tours.NewRepository(deps.DB)
	tourStore := tours.NewStore(tourRepo)
	tourHandler := tours.NewHandler(tourRepo, tourStore, deps.Resizer)

	reviewService := reviews.NewService(deps.DB)
	reviewStore := reviews.NewStore(reviewService)
	reviewHandler := reviews.NewHandler(reviewStore, reviewService, deps.Logger)
	reviews.RegisterRoutes(api, reviewHandler, authRepo, deps.Config)

	tours.RegisterRoutes(api, tourHandler, tourStore, authRepo, deps.Config, func(nested *gin.RouterGroup) {
		reviews.RegisterNested(nested, reviewHandler, authRepo, deps.Config)
	})

	bookingRepo := bookings.NewRepository(deps.DB)
	bookingStore := bookings.NewStore(bookingRepo)
	bookingHandler := bookings.NewHandler(bookingRepo, bookingStore, tourStore, deps.Payments, deps.Config, deps.Logger)
	bookings.RegisterRoutes(api, bookingHandler, authRepo, deps.Config)

	viewHandler := views.NewHandler(tourRepo, tourStore, bookingRepo)
	views.RegisterRoutes(router, viewHandler, bookingHandler, authRepo, deps.Config)
}
