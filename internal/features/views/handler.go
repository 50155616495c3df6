package views

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xyz-asif/gotours/internal/features/auth"
	"github.com/xyz-asif/gotours/internal/features/bookings"
	"github.com/xyz-asif/gotours/internal/features/tours"
	"github.com/xyz-asif/gotours/internal/pkg/crud"
)

// Handler renders the server-side pages.
type Handler struct {
	tourRepo    *tours.Repository
	tourStore   *crud.MongoStore[tours.Tour]
	bookingRepo *bookings.Repository
}

func NewHandler(tourRepo *tours.Repository, tourStore *crud.MongoStore[tours.Tour], bookingRepo *bookings.Repository) *Handler {
	return &Handler{tourRepo: tourRepo, tourStore: tourStore, bookingRepo: bookingRepo}
}

// Overview renders the tour catalog.
func (h *Handler) Overview(c *gin.Context) {
	allTours, err := h.tourStore.Find(c.Request.Context(), bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		h.renderError(c, http.StatusInternalServerError, "Something went very wrong!")
		return
	}

	c.HTML(http.StatusOK, "overview.html", gin.H{
		"title": "All Tours",
		"tours": allTours,
		"user":  auth.CurrentUser(c),
	})
}

// Tour renders one tour's detail page by slug.
func (h *Handler) Tour(c *gin.Context) {
	tour, err := h.tourRepo.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.renderError(c, http.StatusInternalServerError, "Something went very wrong!")
		return
	}
	if tour == nil {
		h.renderError(c, http.StatusNotFound, "There is no tour with that name.")
		return
	}

	c.HTML(http.StatusOK, "tour.html", gin.H{
		"title": tour.Name + " Tour",
		"tour":  tour,
		"user":  auth.CurrentUser(c),
	})
}

// Login renders the login form.
func (h *Handler) Login(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"title": "Log into your account",
		"user":  auth.CurrentUser(c),
	})
}

// Account renders the logged-in user's settings page.
func (h *Handler) Account(c *gin.Context) {
	c.HTML(http.StatusOK, "account.html", gin.H{
		"title": "Your account",
		"user":  auth.CurrentUser(c),
	})
}

// MyTours renders the tours the user has booked.
func (h *Handler) MyTours(c *gin.Context) {
	user := auth.CurrentUser(c)

	tourIDs, err := h.bookingRepo.TourIDsForUser(c.Request.Context(), user.ID)
	if err != nil {
		h.renderError(c, http.StatusInternalServerError, "Something went very wrong!")
		return
	}

	booked, err := h.tourStore.Find(c.Request.Context(), bson.M{"_id": bson.M{"$in": tourIDs}}, nil)
	if err != nil {
		h.renderError(c, http.StatusInternalServerError, "Something went very wrong!")
		return
	}

	c.HTML(http.StatusOK, "overview.html", gin.H{
		"title": "My Tours",
		"tours": booked,
		"user":  user,
	})
}

func (h *Handler) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"title":   "Something went wrong!",
		"message": message,
	})
}
