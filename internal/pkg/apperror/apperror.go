// Package apperror defines the application's error model. Errors are split
// into operational errors, which carry an HTTP status and a message safe to
// show a caller, and everything else, which must never leak outside the
// process. The central error boundary in internal/middleware relies on this
// distinction.
package apperror

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppError is an operational error: expected, user-facing, safe to render.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status returns "fail" for 4xx and "error" for everything else, matching
// the response envelope convention.
func (e *AppError) Status() string {
	if e.Code >= 400 && e.Code < 500 {
		return "fail"
	}
	return "error"
}

func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

func Validation(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

func Internal(message string, err error) *AppError {
	return Wrap(http.StatusInternalServerError, message, err)
}

// IsOperational reports whether err (or anything it wraps) is an AppError.
func IsOperational(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// As unwraps err into an *AppError, or nil if it is not operational.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// Translate maps store and token errors into operational errors with
// user-meaningful messages. Errors it does not recognize pass through
// untouched and collapse to a generic 500 at the boundary.
func Translate(err error) error {
	if err == nil || IsOperational(err) {
		return err
	}

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return Wrap(http.StatusNotFound, "No document found with that ID", err)
	case mongo.IsDuplicateKeyError(err):
		return Wrap(http.StatusBadRequest, "Duplicate field value. Please use another value!", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return Wrap(http.StatusUnauthorized, "Your token has expired! Please log in again.", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return Wrap(http.StatusUnauthorized, "Invalid token. Please log in again.", err)
	}

	return err
}
