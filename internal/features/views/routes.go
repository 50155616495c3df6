package views

import (
	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/gotours/internal/config"
	"github.com/xyz-asif/gotours/internal/features/auth"
	"github.com/xyz-asif/gotours/internal/features/bookings"
)

// RegisterRoutes mounts the rendered pages at the site root. Every page
// runs the soft session check so templates can show the logged-in state;
// only the account pages hard-require a session.
func RegisterRoutes(
	router *gin.Engine,
	handler *Handler,
	bookingHandler *bookings.Handler,
	authRepo *auth.Repository,
	cfg *config.Config,
) {
	loggedIn := auth.IsLoggedIn(authRepo, cfg)
	protect := auth.Protect(authRepo, cfg)

	router.GET("/", bookingHandler.CreateBookingCheckout, loggedIn, handler.Overview)
	router.GET("/tour/:slug", loggedIn, handler.Tour)
	router.GET("/login", loggedIn, handler.Login)
	router.GET("/me", protect, handler.Account)
	router.GET("/my-tours", protect, handler.MyTours)
}
