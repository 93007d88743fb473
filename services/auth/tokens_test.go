package auth

import (
	"DuoPlay/models/postgres"
	"DuoPlay/utils"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", 15*time.Minute)
	user := &postgres.User{ID: "u-1", Email: "a@duo.test", Username: "alice", IsChild: true}

	token, err := m.Issue(user)
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsChild)
}

func TestVerifyDistinguishesExpiredFromInvalid(t *testing.T) {
	m := NewTokenManager("secret", 15*time.Minute)
	user := &postgres.User{ID: "u-1"}

	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := m.Issue(user)
	require.NoError(t, err)
	m.now = time.Now

	_, err = m.Verify(expired)
	assert.ErrorIs(t, err, utils.ErrTokenExpired)

	_, err = m.Verify("not-a-token")
	assert.ErrorIs(t, err, utils.ErrInvalidToken)

	other := NewTokenManager("other-secret", time.Minute)
	foreign, err := other.Issue(user)
	require.NoError(t, err)
	_, err = m.Verify(foreign)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)

	_, err = m.Verify("")
	assert.ErrorIs(t, err, utils.ErrAuthRequired)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	claims := Claims{UserID: "u-1", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(unsigned)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer abc"))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken("Bearer "))
	assert.Equal(t, "", BearerToken(""))
}
