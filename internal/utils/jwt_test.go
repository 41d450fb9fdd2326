package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", "lottery", time.Hour)

	token, err := m.GenerateJWT("user-1")
	require.NoError(t, err)

	claims, err := m.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "lottery", claims.Issuer)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("secret", "lottery", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := m.GenerateJWT("user-1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret", "lottery", time.Hour).GenerateJWT("user-1")
	require.NoError(t, err)

	_, err = NewTokenManager("other", "lottery", time.Hour).ParseJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongIssuer(t *testing.T) {
	token, err := NewTokenManager("secret", "someone-else", time.Hour).GenerateJWT("user-1")
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "lottery", time.Hour).ParseJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "lottery",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "lottery", time.Hour).ParseJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	_, err := NewTokenManager("secret", "lottery", time.Hour).ParseJWT("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
