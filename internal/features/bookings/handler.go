package bookings

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/gotours/internal/config"
	"github.com/xyz-asif/gotours/internal/features/auth"
	"github.com/xyz-asif/gotours/internal/features/tours"
	"github.com/xyz-asif/gotours/internal/pkg/apperror"
	"github.com/xyz-asif/gotours/internal/pkg/crud"
	"github.com/xyz-asif/gotours/internal/pkg/payment"
)

// Handler serves checkout sessions and the post-payment booking hook.
type Handler struct {
	repo      *Repository
	store     *crud.MongoStore[Booking]
	tourStore *crud.MongoStore[tours.Tour]
	provider  payment.Provider
	cfg       *config.Config
	logger    zerolog.Logger
}

func NewHandler(
	repo *Repository,
	store *crud.MongoStore[Booking],
	tourStore *crud.MongoStore[tours.Tour],
	provider payment.Provider,
	cfg *config.Config,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		repo:      repo,
		store:     store,
		tourStore: tourStore,
		provider:  provider,
		cfg:       cfg,
		logger:    logger,
	}
}

// GetCheckoutSession creates a payment session for the tour in the path
// and hands its redirect URL to the client.
func (h *Handler) GetCheckoutSession(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		crud.Fail(c, apperror.Unauthorized("You are not logged in! Please log in to get access."))
		return
	}

	tour, err := h.tourStore.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		crud.Fail(c, err)
		return
	}

	// The success URL carries the booking parameters back to the site
	// root, where CreateBookingCheckout picks them up after payment.
	successURL := fmt.Sprintf("%s/?tour=%s&user=%s&price=%.2f",
		h.cfg.FrontendURL, tour.ID.Hex(), user.ID.Hex(), tour.Price)
	cancelURL := fmt.Sprintf("%s/tour/%s", h.cfg.FrontendURL, tour.Slug)

	session, err := h.provider.CreateCheckoutSession(payment.CheckoutParams{
		CustomerEmail:     user.Email,
		ClientReferenceID: tour.ID.Hex(),
		SuccessURL:        successURL,
		CancelURL:         cancelURL,
		ItemName:          fmt.Sprintf("%s Tour", tour.Name),
		ItemDescription:   tour.Summary,
		ItemImageURL:      tour.ImageCover,
		AmountCents:       int64(tour.Price * 100),
	})
	if err != nil {
		crud.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"session": session,
	})
}

// CreateBookingCheckout is mounted on the site root. When the payment
// redirect arrives with tour, user and price in the query string it
// records the booking and redirects to the clean URL. This is temporary
// until the deployment gets a public webhook endpoint.
func (h *Handler) CreateBookingCheckout(c *gin.Context) {
	tourParam := c.Query("tour")
	userParam := c.Query("user")
	priceParam := c.Query("price")
	if tourParam == "" || userParam == "" || priceParam == "" {
		c.Next()
		return
	}

	tourID, err := primitive.ObjectIDFromHex(tourParam)
	if err != nil {
		c.Next()
		return
	}
	userID, err := primitive.ObjectIDFromHex(userParam)
	if err != nil {
		c.Next()
		return
	}
	price, err := strconv.ParseFloat(priceParam, 64)
	if err != nil {
		c.Next()
		return
	}

	booking := &Booking{Tour: tourID, User: userID, Price: price}
	if _, err := h.store.Create(c.Request.Context(), booking); err != nil {
		h.logger.Error().Err(err).Str("tour", tourParam).Str("user", userParam).Msg("failed to record booking")
	}

	c.Redirect(http.StatusFound, c.Request.URL.Path)
	c.Abort()
}
