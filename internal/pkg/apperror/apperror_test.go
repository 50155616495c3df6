package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStatusByCode(t *testing.T) {
	require.Equal(t, "fail", BadRequest("nope").Status())
	require.Equal(t, "fail", NotFound("nope").Status())
	require.Equal(t, "error", Internal("boom", nil).Status())
}

func TestIsOperationalSeesWrappedErrors(t *testing.T) {
	inner := NotFound("No document found with that ID")
	wrapped := fmt.Errorf("fetching tour: %w", inner)

	require.True(t, IsOperational(wrapped))
	require.False(t, IsOperational(errors.New("disk on fire")))

	appErr := As(wrapped)
	require.NotNil(t, appErr)
	require.Equal(t, 404, appErr.Code)
}

func TestTranslateNoDocuments(t *testing.T) {
	err := Translate(mongo.ErrNoDocuments)

	appErr := As(err)
	require.NotNil(t, appErr)
	require.Equal(t, 404, appErr.Code)
	require.Equal(t, "No document found with that ID", appErr.Message)
}

func TestTranslateExpiredToken(t *testing.T) {
	err := Translate(fmt.Errorf("token is expired: %w", jwt.ErrTokenExpired))

	appErr := As(err)
	require.NotNil(t, appErr)
	require.Equal(t, 401, appErr.Code)
	require.Equal(t, "Your token has expired! Please log in again.", appErr.Message)
}

func TestTranslateBadSignature(t *testing.T) {
	err := Translate(jwt.ErrTokenSignatureInvalid)

	appErr := As(err)
	require.NotNil(t, appErr)
	require.Equal(t, 401, appErr.Code)
	require.Equal(t, "Invalid token. Please log in again.", appErr.Message)
}

func TestTranslatePassesThroughUnknown(t *testing.T) {
	unknown := errors.New("connection reset by peer")
	require.Equal(t, unknown, Translate(unknown))
}

func TestTranslateKeepsOperationalErrors(t *testing.T) {
	original := Forbidden("You do not have permission to perform this action.")
	require.Equal(t, error(original), Translate(original))
}

func TestTranslateNil(t *testing.T) {
	require.NoError(t, Translate(nil))
}
