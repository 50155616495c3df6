package tours

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/gotours/internal/pkg/apperror"
)

// Difficulty levels a tour can declare.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// Location is a GeoJSON point with tour-specific annotations.
type Location struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
	Address     string    `bson:"address,omitempty" json:"address,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Day         int       `bson:"day,omitempty" json:"day,omitempty"`
}

// Tour is the central resource of the catalog.
type Tour struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name            string               `bson:"name" json:"name"`
	Slug            string               `bson:"slug" json:"slug"`
	Duration        int                  `bson:"duration" json:"duration"`
	MaxGroupSize    int                  `bson:"maxGroupSize" json:"maxGroupSize"`
	Difficulty      string               `bson:"difficulty" json:"difficulty"`
	RatingsAverage  float64              `bson:"ratingsAverage" json:"ratingsAverage"`
	RatingsQuantity int                  `bson:"ratingsQuantity" json:"ratingsQuantity"`
	Price           float64              `bson:"price" json:"price"`
	PriceDiscount   float64              `bson:"priceDiscount,omitempty" json:"priceDiscount,omitempty"`
	Summary         string               `bson:"summary" json:"summary"`
	Description     string               `bson:"description,omitempty" json:"description,omitempty"`
	ImageCover      string               `bson:"imageCover" json:"imageCover"`
	Images          []string             `bson:"images,omitempty" json:"images,omitempty"`
	StartDates      []time.Time          `bson:"startDates,omitempty" json:"startDates,omitempty"`
	StartLocation   *Location            `bson:"startLocation,omitempty" json:"startLocation,omitempty"`
	Locations       []Location           `bson:"locations,omitempty" json:"locations,omitempty"`
	Guides          []primitive.ObjectID `bson:"guides,omitempty" json:"guides,omitempty"`
	GuideDocs       []bson.M             `bson:"guideDocs,omitempty" json:"guideDetails,omitempty"`
	ReviewDocs      []bson.M             `bson:"reviewDocs,omitempty" json:"reviews,omitempty"`
	SecretTour      bool                 `bson:"secretTour" json:"-"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// DurationWeeks is the duration expressed in weeks, the unit rendered pages
// prefer.
func (t *Tour) DurationWeeks() float64 {
	return float64(t.Duration) / 7
}

// ValidateNew normalizes defaults and checks the document invariants before
// insert.
func ValidateNew(t *Tour) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Slug = Slugify(t.Name)
	if t.RatingsAverage == 0 {
		t.RatingsAverage = 4.5
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	return validateFields(t.Name, t.Difficulty, t.RatingsAverage, t.Price, t.PriceDiscount, t.Duration, t.MaxGroupSize, t.Summary)
}

// ValidatePatch checks only the fields present in a partial update, and
// keeps the slug in step with a renamed tour.
func ValidatePatch(patch bson.M) error {
	if name, ok := patch["name"].(string); ok {
		name = strings.TrimSpace(name)
		if len(name) < 10 || len(name) > 40 {
			return apperror.Validation("A tour name must have between 10 and 40 characters")
		}
		patch["name"] = name
		patch["slug"] = Slugify(name)
	}
	if difficulty, ok := patch["difficulty"].(string); ok {
		if !validDifficulty(difficulty) {
			return apperror.Validation("Difficulty is either: easy, medium, difficult")
		}
	}
	if rating, ok := numeric(patch["ratingsAverage"]); ok {
		if rating < 1 || rating > 5 {
			return apperror.Validation("Rating must be between 1.0 and 5.0")
		}
	}
	if price, ok := numeric(patch["price"]); ok && price <= 0 {
		return apperror.Validation("A tour must have a positive price")
	}
	if discount, ok := numeric(patch["priceDiscount"]); ok {
		price, hasPrice := numeric(patch["price"])
		if hasPrice && discount >= price {
			return apperror.Validation("Discount price should be below regular price")
		}
	}
	patch["updatedAt"] = time.Now()
	return nil
}

func validateFields(name, difficulty string, rating, price, discount float64, duration, groupSize int, summary string) error {
	switch {
	case name == "":
		return apperror.Validation("A tour must have a name")
	case len(name) < 10 || len(name) > 40:
		return apperror.Validation("A tour name must have between 10 and 40 characters")
	case duration <= 0:
		return apperror.Validation("A tour must have a duration")
	case groupSize <= 0:
		return apperror.Validation("A tour must have a group size")
	case !validDifficulty(difficulty):
		return apperror.Validation("Difficulty is either: easy, medium, difficult")
	case rating < 1 || rating > 5:
		return apperror.Validation("Rating must be between 1.0 and 5.0")
	case price <= 0:
		return apperror.Validation("A tour must have a positive price")
	case discount >= price && discount != 0:
		return apperror.Validation(fmt.Sprintf("Discount price (%.0f) should be below regular price", discount))
	case summary == "":
		return apperror.Validation("A tour must have a summary")
	}
	return nil
}

func validDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyDifficult
}

func numeric(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Slugify lowercases the name and collapses every non-alphanumeric run
// into a single hyphen.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
