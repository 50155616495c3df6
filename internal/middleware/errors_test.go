package middleware

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xyz-asif/gotours/internal/config"
	"github.com/xyz-asif/gotours/internal/pkg/apperror"
)

func boundaryRouter(env string, fail error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(&config.Config{AppEnv: env}, zerolog.Nop()))
	r.GET("/boom", func(c *gin.Context) {
		if fail != nil {
			_ = c.Error(fail)
		}
		c.Abort()
	})
	r.NoRoute(NotFound())
	return r
}

func TestBoundaryProductionHidesUnknownErrors(t *testing.T) {
	r := boundaryRouter("production", errors.New("pq: password authentication failed"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	require.Equal(t, 500, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "error", body["status"])
	require.Equal(t, "Something went very wrong!", body["message"])
	require.NotContains(t, w.Body.String(), "authentication failed")
}

func TestBoundaryProductionShowsOperationalErrors(t *testing.T) {
	r := boundaryRouter("production", apperror.Forbidden("You do not have permission to perform this action."))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	require.Equal(t, 403, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "fail", body["status"])
	require.Equal(t, "You do not have permission to perform this action.", body["message"])
}

func TestBoundaryDevelopmentIncludesDetail(t *testing.T) {
	r := boundaryRouter("development", apperror.Internal("import failed", errors.New("csv: line 3 malformed")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	require.Equal(t, 500, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body["error"], "csv: line 3 malformed")
}

func TestBoundaryTranslatesStoreErrors(t *testing.T) {
	r := boundaryRouter("production", mongo.ErrNoDocuments)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	require.Equal(t, 404, w.Code)
	require.Contains(t, w.Body.String(), "No document found with that ID")
}

func TestNotFoundMentionsPath(t *testing.T) {
	r := boundaryRouter("production", nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/nope", nil))

	require.Equal(t, 404, w.Code)
	require.Contains(t, w.Body.String(), "Can't find /api/v1/nope on this server!")
}
