package users

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/xyz-asif/gotours/internal/features/auth"
	"github.com/xyz-asif/gotours/internal/pkg/apperror"
	"github.com/xyz-asif/gotours/internal/pkg/crud"
	"github.com/xyz-asif/gotours/internal/pkg/media"
	"github.com/xyz-asif/gotours/internal/pkg/response"
)

// Profile photos are normalized to a square thumbnail.
const (
	photoSize = 500
)

// Handler serves the self-service "me" endpoints.
type Handler struct {
	repo    *auth.Repository
	resizer media.Resizer
}

func NewHandler(repo *auth.Repository, resizer media.Resizer) *Handler {
	return &Handler{repo: repo, resizer: resizer}
}

// GetMe returns the authenticated user's own record.
func (h *Handler) GetMe(c *gin.Context) {
	response.Success(c, auth.CurrentUser(c))
}

// UpdateMe patches the authenticated user's name, email and photo. It
// accepts a multipart form so the photo can ride along; password fields
// are rejected outright.
func (h *Handler) UpdateMe(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		crud.Fail(c, apperror.Unauthorized("You are not logged in! Please log in to get access."))
		return
	}

	patch := bson.M{}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if c.PostForm("password") != "" || c.PostForm("passwordConfirm") != "" {
			crud.Fail(c, apperror.BadRequest("This route is not for password updates. Please use /updateMyPassword."))
			return
		}
		if name := c.PostForm("name"); name != "" {
			patch["name"] = name
		}
		if email := c.PostForm("email"); email != "" {
			patch["email"] = email
		}
		if file, err := c.FormFile("photo"); err == nil {
			if !media.IsImage(file.Header.Get("Content-Type")) {
				crud.Fail(c, apperror.BadRequest("Not an image! Please upload only images."))
				return
			}
			src, err := file.Open()
			if err != nil {
				crud.Fail(c, err)
				return
			}
			defer src.Close()

			name := fmt.Sprintf("user-%s-%d", user.ID.Hex(), time.Now().UnixMilli())
			url, err := h.resizer.ResizeJPEG(c.Request.Context(), src, name, photoSize, photoSize)
			if err != nil {
				crud.Fail(c, err)
				return
			}
			patch["photo"] = url
		}
	} else {
		var body bson.M
		if err := c.ShouldBindJSON(&body); err != nil {
			crud.Fail(c, apperror.BadRequest("Invalid input data"))
			return
		}
		if _, hasPassword := body["password"]; hasPassword {
			crud.Fail(c, apperror.BadRequest("This route is not for password updates. Please use /updateMyPassword."))
			return
		}
		if _, hasConfirm := body["passwordConfirm"]; hasConfirm {
			crud.Fail(c, apperror.BadRequest("This route is not for password updates. Please use /updateMyPassword."))
			return
		}
		// Only these fields are user-editable here.
		for _, key := range []string{"name", "email", "photo"} {
			if value, ok := body[key]; ok {
				patch[key] = value
			}
		}
	}

	if len(patch) == 0 {
		crud.Fail(c, apperror.BadRequest("No fields to update"))
		return
	}

	updated, err := h.repo.UpdateProfile(c.Request.Context(), user.ID, patch)
	if err != nil {
		crud.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"user": updated})
}

// DeleteMe soft-deletes the account. The record stays in the collection
// but no query sees it again.
func (h *Handler) DeleteMe(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		crud.Fail(c, apperror.Unauthorized("You are not logged in! Please log in to get access."))
		return
	}

	if err := h.repo.Deactivate(c.Request.Context(), user.ID); err != nil {
		crud.Fail(c, err)
		return
	}
	response.NoContent(c)
}

// NewStore builds the admin CRUD store over users. Password writes are
// locked out of the generic update path.
func NewStore(repo *auth.Repository) *crud.MongoStore[auth.User] {
	return crud.NewMongoStore(repo.Collection(), crud.StoreConfig[auth.User]{
		BaseFilter: bson.M{"active": bson.M{"$ne": false}},
		ValidatePatch: func(patch bson.M) error {
			for _, key := range []string{"password", "passwordConfirm", "passwordChangedAt", "passwordResetToken", "passwordResetExpires"} {
				if _, ok := patch[key]; ok {
					return apperror.BadRequest("This route is not for password updates. Please use /updateMyPassword.")
				}
			}
			patch["updatedAt"] = time.Now()
			return nil
		},
	})
}
