package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/gotours/internal/config"
	"github.com/xyz-asif/gotours/internal/pkg/apperror"
	"github.com/xyz-asif/gotours/internal/pkg/crud"
)

const userContextKey = "user"

// Protect rejects requests that do not carry a valid session for an
// existing user with a fresh password.
func Protect(repo *Repository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			crud.Fail(c, apperror.Unauthorized("You are not logged in! Please log in to get access."))
			return
		}

		claims, err := ParseToken(tokenString, cfg)
		if err != nil {
			crud.Fail(c, err)
			return
		}

		user, err := repo.GetByID(c.Request.Context(), claims.Subject)
		if err != nil {
			crud.Fail(c, err)
			return
		}
		if user == nil {
			crud.Fail(c, apperror.Unauthorized("The user belonging to this token does no longer exist."))
			return
		}

		if user.ChangedPasswordAfter(claims.IssuedAt.Time) {
			crud.Fail(c, apperror.Unauthorized("User recently changed password! Please log in again."))
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RestrictTo gates a route to the given roles. Must run after Protect.
func RestrictTo(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			crud.Fail(c, apperror.Unauthorized("You are not logged in! Please log in to get access."))
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		crud.Fail(c, apperror.Forbidden("You do not have permission to perform this action."))
	}
}

// IsLoggedIn resolves the current user when a valid session exists but
// never fails the request. Rendered pages use it to vary their chrome.
func IsLoggedIn(repo *Repository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie("jwt")
		if err != nil || tokenString == "" {
			c.Next()
			return
		}

		claims, err := ParseToken(tokenString, cfg)
		if err != nil {
			c.Next()
			return
		}

		user, err := repo.GetByID(c.Request.Context(), claims.Subject)
		if err != nil || user == nil || user.ChangedPasswordAfter(claims.IssuedAt.Time) {
			c.Next()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Protect or IsLoggedIn,
// or nil.
func CurrentUser(c *gin.Context) *User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*User)
	if !ok {
		return nil
	}
	return user
}

// extractToken prefers the Authorization header and falls back to the
// session cookie.
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	cookie, err := c.Cookie("jwt")
	if err != nil {
		return ""
	}
	return cookie
}
