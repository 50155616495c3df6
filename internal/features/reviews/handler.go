package reviews

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/gotours/internal/features/auth"
	"github.com/xyz-asif/gotours/internal/pkg/apperror"
	"github.com/xyz-asif/gotours/internal/pkg/crud"
	"github.com/xyz-asif/gotours/internal/pkg/response"
)

// Handler wraps the generic store with the rating recomputation that must
// follow every review write.
type Handler struct {
	store   *crud.MongoStore[Review]
	service *Service
	logger  zerolog.Logger
}

func NewHandler(store *crud.MongoStore[Review], service *Service, logger zerolog.Logger) *Handler {
	return &Handler{store: store, service: service, logger: logger}
}

// TourScope derives the implicit tour filter on nested routes. An
// unparsable id yields a filter that matches nothing.
func TourScope(c *gin.Context) bson.M {
	raw := c.Param("id")
	if raw == "" {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return bson.M{"tour": raw}
	}
	return bson.M{"tour": oid}
}

// CreateReview posts a review. On nested routes the tour defaults from the
// path; the author always comes from the session.
func (h *Handler) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		crud.Fail(c, apperror.Validation("Invalid input data"))
		return
	}

	if req.Tour == "" {
		req.Tour = c.Param("id")
	}
	tourID, err := primitive.ObjectIDFromHex(req.Tour)
	if err != nil {
		crud.Fail(c, apperror.BadRequest("Invalid tour ID: "+req.Tour))
		return
	}

	user := auth.CurrentUser(c)
	if user == nil {
		crud.Fail(c, apperror.Unauthorized("You are not logged in! Please log in to get access."))
		return
	}

	review := &Review{
		Review: req.Review,
		Rating: req.Rating,
		Tour:   tourID,
		User:   user.ID,
	}
	created, err := h.store.Create(c.Request.Context(), review)
	if err != nil {
		crud.Fail(c, err)
		return
	}

	h.recompute(c, tourID)
	response.Created(c, created)
}

// UpdateReview patches a review and refreshes its tour's rating fields.
func (h *Handler) UpdateReview(c *gin.Context) {
	var patch bson.M
	if err := c.ShouldBindJSON(&patch); err != nil {
		crud.Fail(c, apperror.BadRequest("Invalid input data"))
		return
	}
	if len(patch) == 0 {
		crud.Fail(c, apperror.BadRequest("No fields to update"))
		return
	}

	updated, err := h.store.UpdateByID(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		crud.Fail(c, err)
		return
	}

	h.recompute(c, updated.Tour)
	response.Success(c, updated)
}

// DeleteReview removes a review and refreshes its tour's rating fields.
// The review is read first because the tour reference is gone after the
// delete.
func (h *Handler) DeleteReview(c *gin.Context) {
	review, err := h.store.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		crud.Fail(c, err)
		return
	}

	if err := h.store.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		crud.Fail(c, err)
		return
	}

	h.recompute(c, review.Tour)
	response.NoContent(c)
}

// recompute refreshes the tour aggregates. The review write already
// succeeded, so a failure here is logged rather than surfaced.
func (h *Handler) recompute(c *gin.Context, tourID primitive.ObjectID) {
	if err := h.service.CalcAverageRatings(c.Request.Context(), tourID); err != nil {
		h.logger.Error().Err(err).Str("tour", tourID.Hex()).Msg("failed to recompute tour ratings")
	}
}
