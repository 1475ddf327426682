package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAuthTokenRoundTrip(t *testing.T) {
	tok, err := NewAuthToken(testSecret, 42, "visitor@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	userID, email, err := ParseAuthToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
	assert.Equal(t, "visitor@example.com", email)
}

func TestAuthTokenExpiry(t *testing.T) {
	before := time.Now()
	tok, err := NewAuthToken(testSecret, 1, "a@b.c")
	require.NoError(t, err)

	// Expiry must land 24h out from issuance, give or take clock skew.
	assert.WithinDuration(t, before.Add(TokenTTL), tok.Exp, 5*time.Second)
}

func TestParseAuthTokenWrongSecret(t *testing.T) {
	tok, err := NewAuthToken(testSecret, 7, "a@b.c")
	require.NoError(t, err)

	_, _, err = ParseAuthToken("other-secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAuthTokenGarbage(t *testing.T) {
	_, _, err := ParseAuthToken(testSecret, "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAuthTokenExpired(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":   float64(9),
		"email": "a@b.c",
		"iat":   time.Now().Add(-48 * time.Hour).Unix(),
		"exp":   time.Now().Add(-24 * time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, _, err = ParseAuthToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAuthTokenRejectsWrongAlg(t *testing.T) {
	// alg=none style downgrade must not verify.
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": float64(1)}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = ParseAuthToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
