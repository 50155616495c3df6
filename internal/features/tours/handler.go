package tours

import (
	"context"
	"fmt"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"github.com/xyz-asif/gotours/internal/pkg/apperror"
	"github.com/xyz-asif/gotours/internal/pkg/crud"
	"github.com/xyz-asif/gotours/internal/pkg/media"
	"github.com/xyz-asif/gotours/internal/pkg/response"
)

// Processed tour uploads are normalized to a 3:2 cover format.
const (
	coverWidth    = 2000
	coverHeight   = 1333
	maxTourImages = 3
)

// Handler serves the tour endpoints that go beyond generic CRUD.
type Handler struct {
	repo    *Repository
	store   *crud.MongoStore[Tour]
	resizer media.Resizer
}

func NewHandler(repo *Repository, store *crud.MongoStore[Tour], resizer media.Resizer) *Handler {
	return &Handler{repo: repo, store: store, resizer: resizer}
}

// AliasTopTours rewrites the query string so the generic list handler
// returns the five best cheap tours.
func AliasTopTours(c *gin.Context) {
	c.Request.URL.RawQuery = "limit=5&sort=-ratingsAverage,price&fields=name,price,ratingsAverage,summary,difficulty"
	c.Next()
}

// GetTourStats returns the per-difficulty aggregates of the catalog.
// @Summary Tour statistics grouped by difficulty
// @Tags tours
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/tours/tour-stats [get]
func (h *Handler) GetTourStats(c *gin.Context) {
	stats, err := h.repo.Stats(c.Request.Context())
	if err != nil {
		crud.Fail(c, err)
		return
	}
	response.Success(c, stats)
}

// GetMonthlyPlan returns the busiest months of the given year.
func (h *Handler) GetMonthlyPlan(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		crud.Fail(c, apperror.BadRequest("Invalid year: "+c.Param("year")))
		return
	}

	plan, err := h.repo.MonthlyPlan(c.Request.Context(), year)
	if err != nil {
		crud.Fail(c, err)
		return
	}
	response.Success(c, plan)
}

// GetToursWithin lists the tours starting within the given radius of a
// point. Route shape: /tours-within/:distance/center/:latlng/unit/:unit
func (h *Handler) GetToursWithin(c *gin.Context) {
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil {
		crud.Fail(c, apperror.BadRequest("Invalid distance: "+c.Param("distance")))
		return
	}
	lat, lng, err := ParseLatLng(c.Param("latlng"))
	if err != nil {
		crud.Fail(c, err)
		return
	}

	found, err := h.repo.Within(c.Request.Context(), distance, lat, lng, c.Param("unit"))
	if err != nil {
		crud.Fail(c, err)
		return
	}
	response.List(c, found, len(found))
}

// GetDistances returns the distance from a point to every tour start.
func (h *Handler) GetDistances(c *gin.Context) {
	lat, lng, err := ParseLatLng(c.Param("latlng"))
	if err != nil {
		crud.Fail(c, err)
		return
	}

	distances, err := h.repo.Distances(c.Request.Context(), lat, lng, c.Param("unit"))
	if err != nil {
		crud.Fail(c, err)
		return
	}
	response.Success(c, distances)
}

// UploadTourImages accepts a multipart form with an "imageCover" file and
// up to three "images" files, processes them concurrently and stores the
// resulting URLs on the tour.
func (h *Handler) UploadTourImages(c *gin.Context) {
	tourID := c.Param("id")

	form, err := c.MultipartForm()
	if err != nil {
		crud.Fail(c, apperror.BadRequest("Please upload images as multipart form data."))
		return
	}

	covers := form.File["imageCover"]
	files := form.File["images"]
	if len(files) > maxTourImages {
		files = files[:maxTourImages]
	}
	if len(covers) == 0 && len(files) == 0 {
		crud.Fail(c, apperror.BadRequest("No image files found in the request."))
		return
	}

	stamp := time.Now().UnixMilli()
	var coverURL string
	imageURLs := make([]string, len(files))

	group, ctx := errgroup.WithContext(c.Request.Context())
	if len(covers) > 0 {
		cover := covers[0]
		group.Go(func() error {
			url, err := h.processImage(ctx, cover, fmt.Sprintf("tour-%s-%d-cover", tourID, stamp))
			if err != nil {
				return err
			}
			coverURL = url
			return nil
		})
	}
	for i, file := range files {
		i, file := i, file
		group.Go(func() error {
			url, err := h.processImage(ctx, file, fmt.Sprintf("tour-%s-%d-%d", tourID, stamp, i+1))
			if err != nil {
				return err
			}
			imageURLs[i] = url
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		crud.Fail(c, err)
		return
	}

	patch := bson.M{"updatedAt": time.Now()}
	if coverURL != "" {
		patch["imageCover"] = coverURL
	}
	if len(imageURLs) > 0 {
		patch["images"] = imageURLs
	}

	updated, err := h.store.UpdateByID(c.Request.Context(), tourID, patch)
	if err != nil {
		crud.Fail(c, err)
		return
	}
	response.Success(c, updated)
}

func (h *Handler) processImage(ctx context.Context, file *multipart.FileHeader, name string) (string, error) {
	if !media.IsImage(file.Header.Get("Content-Type")) {
		return "", apperror.BadRequest("Not an image! Please upload only images.")
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	return h.resizer.ResizeJPEG(ctx, src, name, coverWidth, coverHeight)
}
