package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestInspect(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signed(t, jwt.MapClaims{"sub": "alice", "exp": exp.Unix()})

	claims, err := Inspect(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, exp.Equal(*claims.ExpiresAt))
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(exp))

	claims, err = Inspect(signed(t, jwt.MapClaims{"sub": "alice"}))
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}

func TestInspect_Opaque(t *testing.T) {
	_, err := Inspect("opaque-session-token")
	assert.ErrorIs(t, err, ErrNotJWT)
}

func TestUsableAt(t *testing.T) {
	now := time.Now()

	assert.False(t, UsableAt("", now))
	assert.True(t, UsableAt("opaque-session-token", now))
	assert.True(t, UsableAt(signed(t, jwt.MapClaims{"sub": "a", "exp": now.Add(time.Minute).Unix()}), now))
	assert.False(t, UsableAt(signed(t, jwt.MapClaims{"sub": "a", "exp": now.Add(-time.Minute).Unix()}), now))
	assert.True(t, UsableAt(signed(t, jwt.MapClaims{"sub": "a"}), now), "no exp claim")
}
