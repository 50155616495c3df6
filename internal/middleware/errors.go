package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/xyz-asif/gotours/internal/config"
	"github.com/xyz-asif/gotours/internal/pkg/apperror"
)

// ErrorHandler is the central error boundary. Handlers never format errors
// themselves; they attach them with c.Error and this middleware decides
// what the caller sees. In development the full error detail is returned;
// in production only operational errors expose their message and anything
// else collapses to a generic 500 with server-side logging.
func ErrorHandler(cfg *config.Config, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := apperror.Translate(c.Errors.Last().Err)
		appErr := apperror.As(err)

		if appErr == nil || appErr.Code >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Msg("request failed")
		}

		if c.Writer.Written() {
			return
		}

		if !cfg.IsProduction() {
			code := http.StatusInternalServerError
			status := "error"
			message := err.Error()
			if appErr != nil {
				code = appErr.Code
				status = appErr.Status()
				message = appErr.Message
			}
			c.JSON(code, gin.H{
				"status":  status,
				"message": message,
				"error":   err.Error(),
			})
			return
		}

		if appErr != nil {
			c.JSON(appErr.Code, gin.H{
				"status":  appErr.Status(),
				"message": appErr.Message,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Something went very wrong!",
		})
	}
}

// NotFound handles unmatched routes through the same boundary.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperror.NotFound("Can't find " + c.Request.URL.Path + " on this server!"))
	}
}
