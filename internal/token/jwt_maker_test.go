package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

func TestJWTMaker(t *testing.T) {
	maker, err := NewJWTMaker(testSecretKey)
	require.NoError(t, err)

	userID := "user-1"
	role := "seller"
	duration := time.Minute

	accessToken, payload, err := maker.CreateToken(userID, role, duration)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotNil(t, payload)

	claims, err := maker.VerifyToken(accessToken)
	require.NoError(t, err)
	require.Equal(t, userID, claims.Subject)
	require.Equal(t, role, claims.Role)
	require.NotEmpty(t, claims.ID)
	require.WithinDuration(t, time.Now().Add(duration), claims.ExpiresAt.Time, time.Second)
}

func TestJWTMakerShortSecretKey(t *testing.T) {
	_, err := NewJWTMaker("too-short")
	require.Error(t, err)
}

func TestExpiredJWTToken(t *testing.T) {
	maker, err := NewJWTMaker(testSecretKey)
	require.NoError(t, err)

	accessToken, _, err := maker.CreateToken("user-1", "buyer", -time.Minute)
	require.NoError(t, err)

	_, err = maker.VerifyToken(accessToken)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestInvalidJWTToken(t *testing.T) {
	maker, err := NewJWTMaker(testSecretKey)
	require.NoError(t, err)

	accessToken, _, err := maker.CreateToken("user-1", "buyer", time.Minute)
	require.NoError(t, err)

	otherMaker, err := NewJWTMaker(strings.Repeat("x", 32))
	require.NoError(t, err)

	_, err = otherMaker.VerifyToken(accessToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = maker.VerifyToken("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}
