package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15, 30)
}

func TestGenerateAndParseRoundTrip(t *testing.T) {
	tm := newTestManager()

	access, accessExp, refresh, refreshExp, err := tm.GeneratePair("user-1", "9876543210")
	require.NoError(t, err)
	assert.True(t, accessExp.Before(refreshExp))

	claims, err := tm.Parse(access, TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "9876543210", claims.Mobile)
	assert.Equal(t, TokenKindAccess, claims.Kind)

	claims, err = tm.Parse(refresh, TokenKindRefresh)
	require.NoError(t, err)
	assert.Equal(t, TokenKindRefresh, claims.Kind)
}

func TestParseRejectsCrossKindTokens(t *testing.T) {
	tm := newTestManager()

	access, _, refresh, _, err := tm.GeneratePair("user-1", "9876543210")
	require.NoError(t, err)

	_, err = tm.Parse(access, TokenKindRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken, "access token must not validate as refresh")

	_, err = tm.Parse(refresh, TokenKindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken, "refresh token must not validate as access")
}

func TestParseRejectsKindMismatchEvenWithRightSecret(t *testing.T) {
	tm := newTestManager()

	// A forged token signed with the access secret but claiming to be a
	// refresh token must fail both parses.
	claims := &Claims{
		UserID: "user-1",
		Mobile: "9876543210",
		Kind:   TokenKindRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = tm.Parse(forged, TokenKindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken, "kind claim mismatch")

	_, err = tm.Parse(forged, TokenKindRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken, "signature mismatch")
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := newTestManager()

	claims := &Claims{
		UserID: "user-1",
		Kind:   TokenKindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = tm.Parse(expired, TokenKindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	tm := newTestManager()

	access, _, err := tm.Generate("user-1", "9876543210", TokenKindAccess)
	require.NoError(t, err)

	tampered := access[:len(access)-2] + "xx"
	_, err = tm.Parse(tampered, TokenKindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
