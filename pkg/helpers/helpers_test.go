package helpers

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("pw123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", hash)
	assert.True(t, CompareHashAndPassword(hash, "pw123"))
	assert.False(t, CompareHashAndPassword(hash, "pw124"))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	a, err := HashPassword("same", 4)
	require.NoError(t, err)
	b, err := HashPassword("same", 4)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGenVerificationToken(t *testing.T) {
	a, err := GenVerificationToken()
	require.NoError(t, err)
	b, err := GenVerificationToken()
	require.NoError(t, err)

	raw, err := hex.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, VerificationTokenBytes)
	assert.NotEqual(t, a, b)
}

func TestSessionToken_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", 7*24*time.Hour)
	tok, exp, err := m.GenerateSessionToken(42)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp, time.Minute)

	claims, err := m.ParseSessionToken(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestSessionToken_Expired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)
	tok, _, err := m.GenerateSessionToken(1)
	require.NoError(t, err)

	_, err = m.ParseSessionToken(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestSessionToken_WrongSecret(t *testing.T) {
	tok, _, err := NewJWTManager("right", time.Hour).GenerateSessionToken(1)
	require.NoError(t, err)

	_, err = NewJWTManager("wrong", time.Hour).ParseSessionToken(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestSessionToken_Malformed(t *testing.T) {
	_, err := NewJWTManager("secret", time.Hour).ParseSessionToken("not-a-jwt")
	assert.Error(t, err)
}

func TestNewLogger_JSONCarriesAppFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "campuskart", "production")
	logger.Debug("hidden")
	logger.WithField("item_id", 7).Info("item created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "item created", entry["msg"])
	assert.Equal(t, "campuskart", entry["app"])
	assert.Equal(t, "production", entry["env"])
	assert.EqualValues(t, 7, entry["item_id"])
}

func TestPublicURL_EscapesSegments(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/kart/items/3/a%20b.png", PublicURL("kart", "items/3/a b.png"))
}
