package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyz-asif/gotours/internal/config"
)

func testConfig(expiry time.Duration) *config.Config {
	return &config.Config{
		JWTSecret:    "test-secret-key",
		JWTExpiresIn: expiry,
	}
}

func TestSignAndParseToken(t *testing.T) {
	cfg := testConfig(time.Hour)

	token, err := SignToken("64c13ab08edf48a008793cac", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, "64c13ab08edf48a008793cac", claims.Subject)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, 5*time.Second)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseTokenExpired(t *testing.T) {
	cfg := testConfig(-time.Minute)

	token, err := SignToken("64c13ab08edf48a008793cac", cfg)
	require.NoError(t, err)

	_, err = ParseToken(token, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := SignToken("64c13ab08edf48a008793cac", testConfig(time.Hour))
	require.NoError(t, err)

	other := testConfig(time.Hour)
	other.JWTSecret = "a-different-secret"

	_, err = ParseToken(token, other)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenSignatureInvalid))
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token", testConfig(time.Hour))
	assert.Error(t, err)
}

func TestChangedPasswordAfter(t *testing.T) {
	changed := time.Now()
	user := &User{PasswordChangedAt: &changed}

	assert.True(t, user.ChangedPasswordAfter(changed.Add(-time.Minute)))
	assert.False(t, user.ChangedPasswordAfter(changed.Add(time.Minute)))
	assert.False(t, (&User{}).ChangedPasswordAfter(time.Now()))
}
