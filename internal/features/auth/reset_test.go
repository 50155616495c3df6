package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNewResetTokenHashRoundTrip(t *testing.T) {
	raw, hash, err := newResetToken()
	require.NoError(t, err)

	assert.Len(t, raw, 64)
	assert.NotEqual(t, raw, hash)

	sum := sha256.Sum256([]byte(raw))
	assert.Equal(t, hex.EncodeToString(sum[:]), hash)
}

func TestNewResetTokenIsUnique(t *testing.T) {
	first, _, err := newResetToken()
	require.NoError(t, err)
	second, _, err := newResetToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestResetTokenFilter(t *testing.T) {
	now := time.Now()
	filter := resetTokenFilter("stored-hash", now)

	assert.Equal(t, "stored-hash", filter["passwordResetToken"])
	assert.Equal(t, bson.M{"$gt": now}, filter["passwordResetExpires"])
	assert.Equal(t, bson.M{"$ne": false}, filter["active"])
}

func TestPasswordUpdateClearsResetToken(t *testing.T) {
	now := time.Now()
	update := passwordUpdate("$2a$12$newhash", now)

	unset, ok := update["$unset"].(bson.M)
	require.True(t, ok)
	assert.Contains(t, unset, "passwordResetToken")
	assert.Contains(t, unset, "passwordResetExpires")

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "$2a$12$newhash", set["password"])
	assert.Equal(t, now.Add(-time.Second), set["passwordChangedAt"])
}
