// Package crud provides the generic handler templates shared by every
// resource: create, read-one, read-all, update and delete. A resource only
// supplies a Store implementation; the templates take care of binding,
// query shaping, the response envelope and error forwarding.
package crud

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/xyz-asif/gotours/internal/pkg/apperror"
	"github.com/xyz-asif/gotours/internal/pkg/query"
	"github.com/xyz-asif/gotours/internal/pkg/response"
)

// Fail forwards an error to the central error boundary and stops the chain.
// Store errors are translated into operational errors on the way out.
func Fail(c *gin.Context, err error) {
	_ = c.Error(apperror.Translate(err))
	c.Abort()
}

// ScopeFunc derives an implicit filter from the request, typically from a
// parent-resource path parameter on nested routes.
type ScopeFunc func(c *gin.Context) bson.M

// CreateOne returns a handler that binds the request body into T and
// persists it. Validation failures propagate to the error boundary.
func CreateOne[T any](store Store[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc T
		if err := c.ShouldBindJSON(&doc); err != nil {
			Fail(c, apperror.Wrap(http.StatusBadRequest, "Invalid input data", err))
			return
		}

		created, err := store.Create(c.Request.Context(), &doc)
		if err != nil {
			Fail(c, err)
			return
		}

		response.Created(c, created)
	}
}

// GetOne returns a handler that fetches a record by the :id path parameter,
// optionally expanding the named related resources.
func GetOne[T any](store Store[T], expand ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := store.FindByID(c.Request.Context(), c.Param("id"), expand...)
		if err != nil {
			Fail(c, err)
			return
		}

		response.Success(c, doc)
	}
}

// GetAll returns a handler that runs the request query string through the
// feature builder and returns the matching records with their count. An
// empty result is a valid response, never an error.
func GetAll[T any](store Store[T], scope ScopeFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		features := query.New(c.Request.URL.Query()).
			Filter().
			Sort().
			LimitFields().
			Paginate()

		var scoped bson.M
		if scope != nil {
			scoped = scope(c)
		}

		docs, err := store.Find(c.Request.Context(), features.BuildFilter(scoped), features.BuildFindOptions())
		if err != nil {
			Fail(c, err)
			return
		}

		response.List(c, docs, len(docs))
	}
}

// UpdateOne returns a handler that applies a partial payload to the record
// with the :id path parameter and returns the updated record.
func UpdateOne[T any](store Store[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch bson.M
		if err := c.ShouldBindJSON(&patch); err != nil {
			Fail(c, apperror.Wrap(http.StatusBadRequest, "Invalid input data", err))
			return
		}
		if len(patch) == 0 {
			Fail(c, apperror.BadRequest("No fields to update"))
			return
		}

		updated, err := store.UpdateByID(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			Fail(c, err)
			return
		}

		response.Success(c, updated)
	}
}

// DeleteOne returns a handler that removes the record with the :id path
// parameter and acknowledges with an empty 204.
func DeleteOne[T any](store Store[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
			Fail(c, err)
			return
		}

		response.NoContent(c)
	}
}
