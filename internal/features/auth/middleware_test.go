package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/xyz-asif/gotours/internal/config"
	"github.com/xyz-asif/gotours/internal/middleware"
)

func newTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler(cfg, zerolog.Nop()))
	return router
}

func TestProtectWithoutToken(t *testing.T) {
	cfg := testConfig(0)
	router := newTestRouter(cfg)
	router.GET("/secret", Protect(nil, cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "You are not logged in")
}

func TestProtectRejectsBadToken(t *testing.T) {
	cfg := testConfig(0)
	router := newTestRouter(cfg)
	router.GET("/secret", Protect(nil, cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRestrictTo(t *testing.T) {
	cfg := testConfig(0)

	setUser := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(userContextKey, &User{Role: role})
			c.Next()
		}
	}

	tests := []struct {
		name     string
		role     string
		wantCode int
	}{
		{"admin allowed", RoleAdmin, http.StatusOK},
		{"lead guide allowed", RoleLeadGuide, http.StatusOK},
		{"plain user forbidden", RoleUser, http.StatusForbidden},
		{"guide forbidden", RoleGuide, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(cfg)
			router.DELETE("/tours/:id", setUser(tt.role), RestrictTo(RoleAdmin, RoleLeadGuide), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "success"})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodDelete, "/tours/abc", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "You do not have permission")
			}
		})
	}
}

func TestRestrictToWithoutUser(t *testing.T) {
	cfg := testConfig(0)
	router := newTestRouter(cfg)
	router.GET("/admin", RestrictTo(RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExtractTokenPrefersHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Bearer header-token")
	c.Request.AddCookie(&http.Cookie{Name: "jwt", Value: "cookie-token"})

	assert.Equal(t, "header-token", extractToken(c))
}

func TestExtractTokenFallsBackToCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: "jwt", Value: "cookie-token"})

	assert.Equal(t, "cookie-token", extractToken(c))
}
