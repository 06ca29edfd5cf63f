package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-do-not-use-in-production")

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(testSecret, 42, "Ada", "Lovelace", true, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "Ada", claims.FirstName)
	assert.Equal(t, "Lovelace", claims.LastName)
	assert.True(t, claims.CanMarkReturned)
	assert.NotEmpty(t, claims.ID, "token ID keys the session counter")
}

func TestTokenIDsAreUnique(t *testing.T) {
	a, err := GenerateToken(testSecret, 1, "A", "B", false, time.Hour)
	require.NoError(t, err)
	b, err := GenerateToken(testSecret, 1, "A", "B", false, time.Hour)
	require.NoError(t, err)

	claimsA, err := ParseToken(testSecret, a)
	require.NoError(t, err)
	claimsB, err := ParseToken(testSecret, b)
	require.NoError(t, err)

	assert.NotEqual(t, claimsA.ID, claimsB.ID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, 42, "Ada", "Lovelace", false, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("a-different-secret"), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := GenerateToken(testSecret, 42, "Ada", "Lovelace", false, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := ParseToken(testSecret, "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
