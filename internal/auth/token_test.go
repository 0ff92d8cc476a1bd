package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-123456"

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)

	token, issued, err := issuer.Issue(42, "publisher")
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "publisher", claims.Role)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.Equal(t, issued.ID, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), claims.TTL(time.Now()).Seconds(), 5)
}

func TestParse_Rejects(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	token, _, err := issuer.Issue(1, "user")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenIssuer("another-secret-another-secret-0000", time.Hour).Parse(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewTokenIssuer(testSecret, time.Minute)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		old, _, err := past.Issue(1, "user")
		require.NoError(t, err)
		_, err = issuer.Parse(old)
		assert.Error(t, err)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{"someone-else"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = issuer.Parse(signed)
		assert.Error(t, err)
	})

	t.Run("bad subject", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "abc",
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = issuer.Parse(signed)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Parse("not-a-token")
		assert.Error(t, err)
	})
}

func TestMissingSecret(t *testing.T) {
	_, _, err := NewTokenIssuer("", time.Hour).Issue(1, "user")
	assert.ErrorIs(t, err, ErrMissingSecret)
}
